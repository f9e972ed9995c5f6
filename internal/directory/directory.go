package directory

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Member is a read-only roster entry. Members are loaded once at startup and
// never mutated afterwards.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Initials string `json:"initials"`
	Role     Role   `json:"role"`
}

// Directory is the static source of mentionable team members.
type Directory struct {
	members     []Member
	currentUser Member
}

// New builds a directory from an explicit roster and an explicit current user.
// The current user must be a roster member. Members missing initials get them
// derived from their name.
func New(roster []Member, currentUserID string) (*Directory, error) {
	if len(roster) == 0 {
		return nil, fmt.Errorf("directory roster is empty")
	}
	members := make([]Member, len(roster))
	copy(members, roster)
	for i := range members {
		if members[i].Initials == "" {
			members[i].Initials = InitialsFor(members[i].Name)
		}
	}
	var current *Member
	for i := range members {
		if members[i].ID == currentUserID {
			current = &members[i]
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("current user %q not in roster", currentUserID)
	}
	return &Directory{members: members, currentUser: *current}, nil
}

// ListMembers returns the roster in its original, stable order.
func (d *Directory) ListMembers() []Member {
	out := make([]Member, len(d.members))
	copy(out, d.members)
	return out
}

// CurrentUser returns the member acting on behalf of this session.
func (d *Directory) CurrentUser() Member { return d.currentUser }

// MemberByID looks up a roster member. The second return is false when the id
// is unknown.
func (d *Directory) MemberByID(id string) (Member, bool) {
	for _, m := range d.members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// InitialsFor derives up to two uppercase initials from a display name.
func InitialsFor(name string) string {
	fields := strings.Fields(name)
	var b strings.Builder
	for i, f := range fields {
		if i >= 2 {
			break
		}
		r := []rune(f)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}

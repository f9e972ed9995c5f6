package mention

import (
	"strings"
	"unicode"

	"github.com/eonix/collab/internal/directory"
)

// Trigger describes an active @-mention being composed. Start is the byte
// offset of the "@" in the input; Query is the text between the "@" and the
// cursor.
type Trigger struct {
	Query string
	Start int
}

// DetectTrigger scans backward from cursor for the nearest "@" and reports an
// active trigger when the span between the "@" and the cursor contains no
// whitespace. cursor is a byte offset into text; out-of-range cursors are
// clamped.
func DetectTrigger(text string, cursor int) (Trigger, bool) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	before := text[:cursor]
	at := strings.LastIndex(before, "@")
	if at == -1 {
		return Trigger{}, false
	}
	query := before[at+1:]
	if strings.IndexFunc(query, unicode.IsSpace) != -1 {
		// The user typed past the mention; the trigger is dead.
		return Trigger{}, false
	}
	return Trigger{Query: query, Start: at}, true
}

// FilterCandidates returns roster members whose name or email contains query
// case-insensitively, preserving roster order. No relevance scoring.
func FilterCandidates(query string, members []directory.Member) []directory.Member {
	q := strings.ToLower(query)
	out := make([]directory.Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Email), q) {
			out = append(out, m)
		}
	}
	return out
}

// Applied is the result of committing a mention into the input text.
type Applied struct {
	NewText   string
	NewCursor int
}

// ApplyMention replaces the span [triggerStart, cursor) with "@<name> " and
// places the cursor immediately after the trailing space. The inserted literal
// is exactly the "@" character, the member's display name, and a single space.
func ApplyMention(text string, triggerStart, cursor int, member directory.Member) Applied {
	if cursor > len(text) {
		cursor = len(text)
	}
	if triggerStart < 0 {
		triggerStart = 0
	}
	if triggerStart > cursor {
		triggerStart = cursor
	}
	inserted := "@" + member.Name + " "
	newText := text[:triggerStart] + inserted + text[cursor:]
	return Applied{
		NewText:   newText,
		NewCursor: triggerStart + len(inserted),
	}
}

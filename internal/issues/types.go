package issues

import "time"

type Type string

const (
	TypeBug          Type = "bug"
	TypeArchitecture Type = "architecture"
	TypeSecurity     Type = "security"
	TypeImprovement  Type = "improvement"
	TypeQuestion     Type = "question"
)

func (t Type) Valid() bool {
	switch t {
	case TypeBug, TypeArchitecture, TypeSecurity, TypeImprovement, TypeQuestion:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Severity ranks priorities for visual ordering, critical highest.
func (p Priority) Severity() int {
	switch p {
	case PriorityCritical:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// Valid reports enum membership only. There is no transition graph: any
// status is reachable from any other.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// Comment is an entry in an issue's discussion log. Simpler than a canvas
// comment: no mentions, no replies.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// Issue is a record linked to a named diagram entity. The entity reference is
// not validated against the diagram's own state.
type Issue struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Type             Type      `json:"type"`
	Priority         Priority  `json:"priority"`
	Status           Status    `json:"status"`
	LinkedEntityID   string    `json:"linked_entity_id"`
	LinkedEntityName string    `json:"linked_entity_name"`
	AssignedTo       string    `json:"assigned_to,omitempty"`
	Comments         []Comment `json:"comments"`
	CreatedAt        time.Time `json:"created_at"`
}

// Draft carries the caller-supplied fields for a new issue; the tracker
// assigns ID, status, comment log and timestamp.
type Draft struct {
	Title            string
	Description      string
	Type             Type
	Priority         Priority
	LinkedEntityID   string
	LinkedEntityName string
	AssignedTo       string
}

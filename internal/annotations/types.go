package annotations

import (
	"time"

	"github.com/eonix/collab/internal/directory"
)

// Position is a normalized anchor on the diagram canvas: percentage offsets
// in [0,100], independent of canvas pixel size. The store passes values
// through unclamped; range checks live at the API boundary.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Comment is a root-level annotation anchored to the canvas.
type Comment struct {
	ID        string             `json:"id"`
	Content   string             `json:"content"`
	Author    directory.Member   `json:"author"`
	Position  Position           `json:"position"`
	Mentions  []directory.Member `json:"mentions"`
	CreatedAt time.Time          `json:"created_at"`
	Replies   []Reply            `json:"replies"`
	Resolved  bool               `json:"resolved"`
}

// Reply is a child of exactly one Comment and cannot outlive it.
type Reply struct {
	ID        string             `json:"id"`
	Content   string             `json:"content"`
	Author    directory.Member   `json:"author"`
	Mentions  []directory.Member `json:"mentions"`
	CreatedAt time.Time          `json:"created_at"`
}

// PayloadType discriminates outbound notification payloads.
type PayloadType string

const (
	PayloadCommentCreated      PayloadType = "comment_created"
	PayloadCommentReplied      PayloadType = "comment_replied"
	PayloadMentionNotification PayloadType = "mention_notification"
)

// NotificationPayload is an ephemeral outbound event queued for external
// delivery. A payload is only ever enqueued when the triggering action's
// mention list is non-empty.
type NotificationPayload struct {
	Type             PayloadType        `json:"type"`
	Comment          Comment            `json:"comment"`
	MentionedMembers []directory.Member `json:"mentioned_users"`
	Timestamp        time.Time          `json:"timestamp"`
}

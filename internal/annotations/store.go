package annotations

import (
	"errors"
	"sync"
	"time"

	"github.com/eonix/collab/internal/directory"
	"github.com/eonix/collab/internal/ids"
)

var ErrNotFound = errors.New("not found")

// Store owns the comment/reply aggregate for one session plus the transient
// UI-mode state the presentation layer depends on (active selection,
// adding-comment mode) and the pending notification queue. All state is
// in-memory; nothing survives the session.
type Store struct {
	mu sync.RWMutex

	comments        []Comment
	activeCommentID string
	isAddingComment bool
	pending         []NotificationPayload

	idSource ids.Source
	now      func() time.Time
}

func NewStore(idSource ids.Source) *Store {
	return &Store{
		idSource: idSource,
		now:      time.Now,
	}
}

// AddComment appends a new unresolved comment with an empty reply list, exits
// adding-comment mode and selects the new comment. When mentions is non-empty
// a notification payload is enqueued synchronously.
func (s *Store) AddComment(position Position, content string, mentions []directory.Member, author directory.Member) Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment := Comment{
		ID:        s.idSource.NewID("comment"),
		Content:   content,
		Author:    author,
		Position:  position,
		Mentions:  append([]directory.Member(nil), mentions...),
		CreatedAt: s.now(),
		Replies:   []Reply{},
		Resolved:  false,
	}
	s.comments = append(s.comments, comment)
	s.isAddingComment = false
	s.activeCommentID = comment.ID

	if len(mentions) > 0 {
		s.pending = append(s.pending, s.preparePayload(comment))
	}
	return cloneComment(comment)
}

// AddReply appends a reply to the comment's reply list, preserving insertion
// order. Returns ErrNotFound when the parent comment does not exist; the
// store is left unchanged and nothing is enqueued. When mentions is non-empty
// a comment_replied payload carrying the updated comment is enqueued.
func (s *Store) AddReply(commentID, content string, mentions []directory.Member, author directory.Member) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(commentID)
	if idx == -1 {
		return Reply{}, ErrNotFound
	}

	reply := Reply{
		ID:        s.idSource.NewID("reply"),
		Content:   content,
		Author:    author,
		Mentions:  append([]directory.Member(nil), mentions...),
		CreatedAt: s.now(),
	}
	s.comments[idx].Replies = append(s.comments[idx].Replies, reply)

	if len(mentions) > 0 {
		s.pending = append(s.pending, NotificationPayload{
			Type:             PayloadCommentReplied,
			Comment:          cloneComment(s.comments[idx]),
			MentionedMembers: append([]directory.Member(nil), mentions...),
			Timestamp:        s.now(),
		})
	}
	return reply, nil
}

// ResolveComment marks the comment resolved. Idempotent; there is no
// unresolve. Returns ErrNotFound for unknown ids.
func (s *Store) ResolveComment(commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(commentID)
	if idx == -1 {
		return ErrNotFound
	}
	s.comments[idx].Resolved = true
	return nil
}

// DeleteComment removes the comment and, with it, all of its replies. The
// active selection is cleared when it pointed at the deleted comment.
func (s *Store) DeleteComment(commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(commentID)
	if idx == -1 {
		return ErrNotFound
	}
	s.comments = append(s.comments[:idx], s.comments[idx+1:]...)
	if s.activeCommentID == commentID {
		s.activeCommentID = ""
	}
	return nil
}

// SetActiveComment selects a comment; the empty string clears the selection.
func (s *Store) SetActiveComment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeCommentID = id
}

// ActiveCommentID returns the selected comment id, or "" for none.
func (s *Store) ActiveCommentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCommentID
}

// ToggleAddingComment flips adding-comment mode. Entering the mode clears any
// active selection.
func (s *Store) ToggleAddingComment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isAddingComment = !s.isAddingComment
	if s.isAddingComment {
		s.activeCommentID = ""
	}
}

// IsAddingComment reports whether the canvas is in adding-comment mode.
func (s *Store) IsAddingComment() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAddingComment
}

// Comments returns all comments in insertion order, oldest first.
func (s *Store) Comments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Comment, 0, len(s.comments))
	for i := range s.comments {
		out = append(out, cloneComment(s.comments[i]))
	}
	return out
}

// Comment returns one comment by id.
func (s *Store) Comment(id string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx == -1 {
		return Comment{}, ErrNotFound
	}
	return cloneComment(s.comments[idx]), nil
}

// FlushPendingWebhooks drains the pending notification queue. A second flush
// with no intervening mutations returns an empty slice.
func (s *Store) FlushPendingWebhooks() []NotificationPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	if out == nil {
		out = []NotificationPayload{}
	}
	return out
}

// PendingWebhookCount returns the current queue depth without draining.
func (s *Store) PendingWebhookCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

// preparePayload derives the outbound payload for a comment. The variant is
// mention_notification whenever the comment carries mentions; since payloads
// are only enqueued behind the non-empty-mentions gate, comment_created never
// reaches the queue in practice. That is the source contract, kept as is.
func (s *Store) preparePayload(comment Comment) NotificationPayload {
	payloadType := PayloadCommentCreated
	if len(comment.Mentions) > 0 {
		payloadType = PayloadMentionNotification
	}
	return NotificationPayload{
		Type:             payloadType,
		Comment:          cloneComment(comment),
		MentionedMembers: append([]directory.Member(nil), comment.Mentions...),
		Timestamp:        s.now(),
	}
}

// indexOf returns the comment's slice index, or -1. Caller holds the lock.
func (s *Store) indexOf(id string) int {
	for i := range s.comments {
		if s.comments[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneComment(c Comment) Comment {
	cp := c
	cp.Mentions = append([]directory.Member(nil), c.Mentions...)
	cp.Replies = make([]Reply, len(c.Replies))
	for i, r := range c.Replies {
		rc := r
		rc.Mentions = append([]directory.Member(nil), r.Mentions...)
		cp.Replies[i] = rc
	}
	return cp
}

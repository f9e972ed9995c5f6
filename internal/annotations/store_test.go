package annotations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eonix/collab/internal/directory"
	"github.com/eonix/collab/internal/ids"
)

var (
	memberNahom = directory.Member{ID: "1", Name: "Nahom Keneni", Email: "nahom@eonix.io", Initials: "NK", Role: directory.RoleAdmin}
	memberSarah = directory.Member{ID: "2", Name: "Sarah Chen", Email: "sarah@eonix.io", Initials: "SC", Role: directory.RoleEditor}
)

func newTestStore() *Store {
	s := NewStore(ids.NewSequence())
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func TestAddCommentOrderAndShape(t *testing.T) {
	s := newTestStore()

	first := s.AddComment(Position{X: 10, Y: 20}, "first", nil, memberNahom)
	second := s.AddComment(Position{X: 30, Y: 40}, "second", nil, memberNahom)
	third := s.AddComment(Position{X: 50, Y: 60}, "third", nil, memberNahom)

	comments := s.Comments()
	require.Len(t, comments, 3)
	// insertion order, oldest first
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
	assert.Equal(t, third.ID, comments[2].ID)

	assert.False(t, first.Resolved)
	assert.Empty(t, first.Replies)
	assert.Equal(t, memberNahom, first.Author)
	assert.Equal(t, Position{X: 10, Y: 20}, first.Position)
}

func TestAddCommentSelectsAndExitsAddingMode(t *testing.T) {
	s := newTestStore()
	s.ToggleAddingComment()
	require.True(t, s.IsAddingComment())

	comment := s.AddComment(Position{X: 50, Y: 50}, "note", nil, memberNahom)
	assert.False(t, s.IsAddingComment())
	assert.Equal(t, comment.ID, s.ActiveCommentID())
}

func TestMentionGateOnPayloadQueue(t *testing.T) {
	s := newTestStore()

	s.AddComment(Position{X: 1, Y: 1}, "no mentions", nil, memberNahom)
	assert.Equal(t, 0, s.PendingWebhookCount())

	s.AddComment(Position{X: 2, Y: 2}, "with mention", []directory.Member{memberSarah}, memberNahom)
	assert.Equal(t, 1, s.PendingWebhookCount())

	comment := s.AddComment(Position{X: 3, Y: 3}, "parent", nil, memberNahom)
	assert.Equal(t, 1, s.PendingWebhookCount())

	_, err := s.AddReply(comment.ID, "plain reply", nil, memberSarah)
	require.NoError(t, err)
	assert.Equal(t, 1, s.PendingWebhookCount())

	_, err = s.AddReply(comment.ID, "reply with mention", []directory.Member{memberNahom}, memberSarah)
	require.NoError(t, err)
	assert.Equal(t, 2, s.PendingWebhookCount())
}

func TestPayloadVariants(t *testing.T) {
	s := newTestStore()

	s.AddComment(Position{X: 50, Y: 50}, "check this", []directory.Member{memberSarah}, memberNahom)
	payloads := s.FlushPendingWebhooks()
	require.Len(t, payloads, 1)
	// mention_notification whenever mentions are non-empty; comment_created
	// never reaches the queue because of the mentions gate.
	assert.Equal(t, PayloadMentionNotification, payloads[0].Type)
	require.Len(t, payloads[0].MentionedMembers, 1)
	assert.Equal(t, memberSarah.ID, payloads[0].MentionedMembers[0].ID)

	comment := s.AddComment(Position{X: 1, Y: 1}, "parent", nil, memberNahom)
	reply, err := s.AddReply(comment.ID, "ping", []directory.Member{memberSarah}, memberNahom)
	require.NoError(t, err)

	payloads = s.FlushPendingWebhooks()
	require.Len(t, payloads, 1)
	assert.Equal(t, PayloadCommentReplied, payloads[0].Type)
	// the payload carries the updated comment including the just-added reply
	require.Len(t, payloads[0].Comment.Replies, 1)
	assert.Equal(t, reply.ID, payloads[0].Comment.Replies[0].ID)
}

func TestAddReplyUnknownParentLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore()
	s.AddComment(Position{X: 1, Y: 1}, "existing", nil, memberNahom)

	_, err := s.AddReply("comment-999", "orphan", []directory.Member{memberSarah}, memberNahom)
	assert.ErrorIs(t, err, ErrNotFound)

	comments := s.Comments()
	require.Len(t, comments, 1)
	assert.Empty(t, comments[0].Replies)
	assert.Equal(t, 0, s.PendingWebhookCount())
}

func TestReplyInsertionOrder(t *testing.T) {
	s := newTestStore()
	comment := s.AddComment(Position{X: 1, Y: 1}, "parent", nil, memberNahom)

	r1, err := s.AddReply(comment.ID, "one", nil, memberSarah)
	require.NoError(t, err)
	r2, err := s.AddReply(comment.ID, "two", nil, memberNahom)
	require.NoError(t, err)

	got, err := s.Comment(comment.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 2)
	assert.Equal(t, r1.ID, got.Replies[0].ID)
	assert.Equal(t, r2.ID, got.Replies[1].ID)
}

func TestResolveCommentIdempotent(t *testing.T) {
	s := newTestStore()
	comment := s.AddComment(Position{X: 1, Y: 1}, "note", nil, memberNahom)

	require.NoError(t, s.ResolveComment(comment.ID))
	once := s.Comments()
	require.NoError(t, s.ResolveComment(comment.ID))
	twice := s.Comments()

	assert.Equal(t, once, twice)
	assert.True(t, twice[0].Resolved)

	assert.ErrorIs(t, s.ResolveComment("comment-999"), ErrNotFound)
}

func TestDeleteCommentCascadesAndClearsSelection(t *testing.T) {
	s := newTestStore()
	keep := s.AddComment(Position{X: 1, Y: 1}, "keep", nil, memberNahom)
	doomed := s.AddComment(Position{X: 2, Y: 2}, "doomed", nil, memberNahom)
	_, err := s.AddReply(doomed.ID, "rides along", nil, memberSarah)
	require.NoError(t, err)

	s.SetActiveComment(doomed.ID)
	require.NoError(t, s.DeleteComment(doomed.ID))

	comments := s.Comments()
	require.Len(t, comments, 1)
	assert.Equal(t, keep.ID, comments[0].ID)
	assert.Equal(t, "", s.ActiveCommentID())

	_, err = s.Comment(doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an unrelated comment keeps the selection
	s.SetActiveComment(keep.ID)
	other := s.AddComment(Position{X: 3, Y: 3}, "other", nil, memberNahom)
	s.SetActiveComment(keep.ID)
	require.NoError(t, s.DeleteComment(other.ID))
	assert.Equal(t, keep.ID, s.ActiveCommentID())

	assert.ErrorIs(t, s.DeleteComment("comment-999"), ErrNotFound)
}

func TestToggleAddingCommentClearsSelection(t *testing.T) {
	s := newTestStore()
	comment := s.AddComment(Position{X: 1, Y: 1}, "note", nil, memberNahom)
	s.SetActiveComment(comment.ID)

	s.ToggleAddingComment()
	assert.True(t, s.IsAddingComment())
	assert.Equal(t, "", s.ActiveCommentID())

	// leaving the mode does not restore anything
	s.ToggleAddingComment()
	assert.False(t, s.IsAddingComment())
	assert.Equal(t, "", s.ActiveCommentID())
}

func TestFlushDrainsCompletely(t *testing.T) {
	s := newTestStore()
	s.AddComment(Position{X: 1, Y: 1}, "a", []directory.Member{memberSarah}, memberNahom)
	s.AddComment(Position{X: 2, Y: 2}, "b", []directory.Member{memberSarah}, memberNahom)

	first := s.FlushPendingWebhooks()
	assert.Len(t, first, 2)
	second := s.FlushPendingWebhooks()
	assert.Empty(t, second)
	assert.Equal(t, 0, s.PendingWebhookCount())
}

func TestMentionSnapshotIsolation(t *testing.T) {
	s := newTestStore()
	mentions := []directory.Member{memberSarah}
	comment := s.AddComment(Position{X: 1, Y: 1}, "note", mentions, memberNahom)

	// mutating the caller's slice after the fact must not leak into the store
	mentions[0] = memberNahom
	got, err := s.Comment(comment.ID)
	require.NoError(t, err)
	require.Len(t, got.Mentions, 1)
	assert.Equal(t, memberSarah.ID, got.Mentions[0].ID)
}

func TestEndToEndScenario(t *testing.T) {
	s := newTestStore()

	s.AddComment(Position{X: 50, Y: 50}, "check this", []directory.Member{memberSarah}, memberNahom)

	comments := s.Comments()
	require.Len(t, comments, 1)
	assert.False(t, comments[0].Resolved)
	assert.Empty(t, comments[0].Replies)
	assert.Equal(t, memberNahom.ID, comments[0].Author.ID)

	payloads := s.FlushPendingWebhooks()
	require.Len(t, payloads, 1)
	assert.Equal(t, PayloadMentionNotification, payloads[0].Type)
	require.Len(t, payloads[0].MentionedMembers, 1)
	assert.Equal(t, memberSarah.ID, payloads[0].MentionedMembers[0].ID)
}

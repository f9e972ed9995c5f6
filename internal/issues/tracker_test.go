package issues

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eonix/collab/internal/ids"
)

func newTestTracker() *Tracker {
	t := NewTracker(NewInMemoryStore(), ids.NewSequence())
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	t.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return t
}

func draftFor(entityID, title string) Draft {
	return Draft{
		Title:            title,
		Description:      "desc",
		Type:             TypeBug,
		Priority:         PriorityHigh,
		LinkedEntityID:   entityID,
		LinkedEntityName: entityID + " service",
	}
}

func TestCreateIssueContract(t *testing.T) {
	tr := newTestTracker()
	ctx := context.Background()

	issue, err := tr.CreateIssue(ctx, draftFor("auth", "first"))
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, issue.Status)
	assert.Empty(t, issue.Comments)
	assert.NotEmpty(t, issue.ID)
	assert.False(t, issue.CreatedAt.IsZero())

	second, err := tr.CreateIssue(ctx, draftFor("auth", "second"))
	require.NoError(t, err)

	list, err := tr.ListIssues(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, issue.ID, list[1].ID)
}

func TestCreateIssueClosesModal(t *testing.T) {
	tr := newTestTracker()
	tr.OpenCreateModal("auth", "Auth Service")
	require.True(t, tr.IsModalOpen())
	require.NotNil(t, tr.ActiveEntity())
	assert.Equal(t, "Auth Service", tr.ActiveEntity().Name)

	_, err := tr.CreateIssue(context.Background(), draftFor("auth", "x"))
	require.NoError(t, err)
	assert.False(t, tr.IsModalOpen())
}

func TestCloseModalClearsTarget(t *testing.T) {
	tr := newTestTracker()
	tr.OpenCreateModal("pay", "Payment Service")
	tr.CloseCreateModal()
	assert.False(t, tr.IsModalOpen())
	assert.Nil(t, tr.ActiveEntity())
}

func TestUpdateIssueStatusAnyToAny(t *testing.T) {
	tr := newTestTracker()
	ctx := context.Background()
	issue, err := tr.CreateIssue(ctx, draftFor("auth", "x"))
	require.NoError(t, err)

	// no transition graph: every hop is legal, including backwards
	for _, status := range []Status{StatusDone, StatusBlocked, StatusOpen, StatusInProgress} {
		require.NoError(t, tr.UpdateIssueStatus(ctx, issue.ID, status))
		got, err := tr.GetIssue(ctx, issue.ID)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	assert.ErrorIs(t, tr.UpdateIssueStatus(ctx, "issue-999", StatusDone), ErrNotFound)
}

func TestAddCommentAppends(t *testing.T) {
	tr := newTestTracker()
	ctx := context.Background()
	issue, err := tr.CreateIssue(ctx, draftFor("auth", "x"))
	require.NoError(t, err)

	c1, err := tr.AddComment(ctx, issue.ID, "first", "Sarah Chen")
	require.NoError(t, err)
	c2, err := tr.AddComment(ctx, issue.ID, "second", "Nahom Keneni")
	require.NoError(t, err)

	got, err := tr.GetIssue(ctx, issue.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, c1.ID, got.Comments[0].ID)
	assert.Equal(t, c2.ID, got.Comments[1].ID)
	assert.Equal(t, "Sarah Chen", got.Comments[0].Author)

	_, err = tr.AddComment(ctx, "issue-999", "orphan", "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	// the unknown-id call changed nothing
	list, err := tr.ListIssues(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Comments, 2)
}

func TestGetIssuesForEntityExactMatch(t *testing.T) {
	tr := newTestTracker()
	ctx := context.Background()

	a1, err := tr.CreateIssue(ctx, draftFor("auth", "a1"))
	require.NoError(t, err)
	_, err = tr.CreateIssue(ctx, draftFor("payments", "p1"))
	require.NoError(t, err)
	a2, err := tr.CreateIssue(ctx, draftFor("auth", "a2"))
	require.NoError(t, err)
	// no hierarchy: a prefixed entity id is a different entity
	_, err = tr.CreateIssue(ctx, draftFor("auth-db", "d1"))
	require.NoError(t, err)

	got, err := tr.GetIssuesForEntity(ctx, "auth")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// store order among matches, newest first
	assert.Equal(t, a2.ID, got[0].ID)
	assert.Equal(t, a1.ID, got[1].ID)

	empty, err := tr.GetIssuesForEntity(ctx, "gateway")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSeedKeepsDeclaredOrder(t *testing.T) {
	tr := newTestTracker()
	ctx := context.Background()

	seed := DemoSeed(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, tr.Seed(ctx, seed))

	list, err := tr.ListIssues(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "issue-1", list[0].ID)
	assert.Equal(t, "issue-2", list[1].ID)
	assert.Len(t, list[0].Comments, 2)

	// a freshly created issue lands in front of the seed
	created, err := tr.CreateIssue(ctx, draftFor("auth", "new"))
	require.NoError(t, err)
	list, err = tr.ListIssues(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestStoreCloneIsolation(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	issue := &Issue{ID: "i1", Title: "x", Status: StatusOpen, LinkedEntityID: "auth", Comments: []Comment{}}
	require.NoError(t, store.Create(ctx, issue))

	got, err := store.GetByID(ctx, "i1")
	require.NoError(t, err)
	got.Title = "mutated"
	got.Comments = append(got.Comments, Comment{ID: "c1"})

	again, err := store.GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "x", again.Title)
	assert.Empty(t, again.Comments)
}

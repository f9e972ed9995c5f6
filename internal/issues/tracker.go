package issues

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/eonix/collab/internal/ids"
)

// Entity is the diagram node an issue is being created against.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Tracker is the issue-tracking service: it assigns identity and lifecycle
// fields on top of a Store and owns the transient create-modal state (the
// selected target entity for the next CreateIssue call).
type Tracker struct {
	store    Store
	idSource ids.Source
	now      func() time.Time

	mu           sync.RWMutex
	modalOpen    bool
	activeEntity *Entity
}

func NewTracker(store Store, idSource ids.Source) *Tracker {
	return &Tracker{
		store:    store,
		idSource: idSource,
		now:      time.Now,
	}
}

// Seed loads initial issues in the given order: after seeding, List returns
// them first-to-last, with later CreateIssue calls prepended in front.
func (t *Tracker) Seed(ctx context.Context, seed []Issue) error {
	for i := len(seed) - 1; i >= 0; i-- {
		issue := seed[i]
		if issue.ID == "" {
			issue.ID = t.idSource.NewID("issue")
		}
		if issue.Status == "" {
			issue.Status = StatusOpen
		}
		if issue.Comments == nil {
			issue.Comments = []Comment{}
		}
		if issue.CreatedAt.IsZero() {
			issue.CreatedAt = t.now()
		}
		if err := t.store.Create(ctx, &issue); err != nil {
			return err
		}
	}
	return nil
}

// CreateIssue always succeeds against a healthy store: fresh id, status open,
// empty comment log, current timestamp, prepended to the collection. Closes
// the create modal.
func (t *Tracker) CreateIssue(ctx context.Context, draft Draft) (*Issue, error) {
	issue := &Issue{
		ID:               t.idSource.NewID("issue"),
		Title:            draft.Title,
		Description:      draft.Description,
		Type:             draft.Type,
		Priority:         draft.Priority,
		Status:           StatusOpen,
		LinkedEntityID:   draft.LinkedEntityID,
		LinkedEntityName: draft.LinkedEntityName,
		AssignedTo:       draft.AssignedTo,
		Comments:         []Comment{},
		CreatedAt:        t.now(),
	}
	if err := t.store.Create(ctx, issue); err != nil {
		return nil, err
	}
	log.Debug().
		Str("issue_id", issue.ID).
		Str("entity_id", issue.LinkedEntityID).
		Str("type", string(issue.Type)).
		Str("priority", string(issue.Priority)).
		Msg("issue created")

	t.mu.Lock()
	t.modalOpen = false
	t.mu.Unlock()
	return issue, nil
}

// UpdateIssueStatus replaces the status unconditionally; any status is
// reachable from any other. Returns ErrNotFound for unknown ids.
func (t *Tracker) UpdateIssueStatus(ctx context.Context, issueID string, status Status) error {
	return t.store.UpdateStatus(ctx, issueID, status)
}

// AddComment appends an entry to the issue's discussion log.
func (t *Tracker) AddComment(ctx context.Context, issueID, content, author string) (Comment, error) {
	comment := Comment{
		ID:        t.idSource.NewID("c"),
		Author:    author,
		Content:   content,
		CreatedAt: t.now(),
	}
	if err := t.store.AddComment(ctx, issueID, comment); err != nil {
		return Comment{}, err
	}
	return comment, nil
}

// GetIssue returns one issue by id.
func (t *Tracker) GetIssue(ctx context.Context, issueID string) (*Issue, error) {
	return t.store.GetByID(ctx, issueID)
}

// ListIssues returns the whole collection, newest first.
func (t *Tracker) ListIssues(ctx context.Context) ([]*Issue, error) {
	return t.store.List(ctx)
}

// GetIssuesForEntity filters by exact linked-entity id, preserving store
// order among matches.
func (t *Tracker) GetIssuesForEntity(ctx context.Context, entityID string) ([]*Issue, error) {
	return t.store.ListForEntity(ctx, entityID)
}

// OpenCreateModal selects the target entity for the next CreateIssue call.
func (t *Tracker) OpenCreateModal(entityID, entityName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.modalOpen = true
	t.activeEntity = &Entity{ID: entityID, Name: entityName}
}

// CloseCreateModal dismisses the modal and clears the target entity.
func (t *Tracker) CloseCreateModal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.modalOpen = false
	t.activeEntity = nil
}

// IsModalOpen reports whether the create modal is showing.
func (t *Tracker) IsModalOpen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modalOpen
}

// ActiveEntity returns the modal's target entity, or nil when none is set.
func (t *Tracker) ActiveEntity() *Entity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.activeEntity == nil {
		return nil
	}
	e := *t.activeEntity
	return &e
}

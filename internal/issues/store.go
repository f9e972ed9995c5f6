package issues

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("not found")

// Store persists issue aggregates. Implementations must keep the observable
// newest-first ordering contract: Create prepends, List returns newest first.
type Store interface {
	Create(ctx context.Context, issue *Issue) error
	UpdateStatus(ctx context.Context, issueID string, status Status) error
	AddComment(ctx context.Context, issueID string, comment Comment) error
	GetByID(ctx context.Context, issueID string) (*Issue, error)
	List(ctx context.Context) ([]*Issue, error)
	ListForEntity(ctx context.Context, entityID string) ([]*Issue, error)
}

// InMemoryStore is the default session-scoped store.
type InMemoryStore struct {
	mu     sync.RWMutex
	issues []*Issue
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Create(ctx context.Context, issue *Issue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// newest first
	s.issues = append([]*Issue{cloneIssue(issue)}, s.issues...)
	return nil
}

func (s *InMemoryStore) UpdateStatus(ctx context.Context, issueID string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.issues {
		if it.ID == issueID {
			it.Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) AddComment(ctx context.Context, issueID string, comment Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.issues {
		if it.ID == issueID {
			it.Comments = append(it.Comments, comment)
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) GetByID(ctx context.Context, issueID string) (*Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.issues {
		if it.ID == issueID {
			return cloneIssue(it), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) List(ctx context.Context) ([]*Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Issue, 0, len(s.issues))
	for _, it := range s.issues {
		out = append(out, cloneIssue(it))
	}
	return out, nil
}

func (s *InMemoryStore) ListForEntity(ctx context.Context, entityID string) ([]*Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Issue
	for _, it := range s.issues {
		if it.LinkedEntityID == entityID {
			out = append(out, cloneIssue(it))
		}
	}
	return out, nil
}

func cloneIssue(i *Issue) *Issue {
	if i == nil {
		return nil
	}
	cp := *i
	cp.Comments = append([]Comment(nil), i.Comments...)
	return &cp
}

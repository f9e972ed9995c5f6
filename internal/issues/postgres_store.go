package issues

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists issues in Postgres for deployments that want them to
// survive restarts. Ordering uses a monotonic seq so the newest-first
// contract matches the in-memory store exactly.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore { return &PostgresStore{pool: pool} }

// EnsureSchema creates the issue tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS issues (
		seq                BIGSERIAL PRIMARY KEY,
		id                 TEXT UNIQUE NOT NULL,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		issue_type         TEXT NOT NULL,
		priority           TEXT NOT NULL,
		status             TEXT NOT NULL,
		linked_entity_id   TEXT NOT NULL,
		linked_entity_name TEXT NOT NULL,
		assigned_to        TEXT NOT NULL DEFAULT '',
		created_at         TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS issue_comments (
		seq        BIGSERIAL PRIMARY KEY,
		id         TEXT NOT NULL,
		issue_id   TEXT NOT NULL REFERENCES issues(id) ON DELETE CASCADE,
		author     TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_issues_entity ON issues(linked_entity_id);
	CREATE INDEX IF NOT EXISTS idx_issue_comments_issue ON issue_comments(issue_id);
	`)
	return err
}

func (s *PostgresStore) Create(ctx context.Context, issue *Issue) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO issues (id, title, description, issue_type, priority, status, linked_entity_id, linked_entity_name, assigned_to, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`, issue.ID, issue.Title, issue.Description, string(issue.Type), string(issue.Priority), string(issue.Status),
		issue.LinkedEntityID, issue.LinkedEntityName, issue.AssignedTo, issue.CreatedAt)
	if err != nil {
		return err
	}
	for _, c := range issue.Comments {
		if err := s.AddComment(ctx, issue.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, issueID string, status Status) error {
	tag, err := s.pool.Exec(ctx, `UPDATE issues SET status=$1 WHERE id=$2`, string(status), issueID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) AddComment(ctx context.Context, issueID string, comment Comment) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO issue_comments (id, issue_id, author, content, created_at)
		SELECT $1, id, $3, $4, $5 FROM issues WHERE id=$2
	`, comment.ID, issueID, comment.Author, comment.Content, comment.CreatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, issueID string) (*Issue, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, description, issue_type, priority, status, linked_entity_id, linked_entity_name, assigned_to, created_at
		FROM issues WHERE id=$1
	`, issueID)
	issue, err := scanIssue(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadComments(ctx, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Issue, error) {
	return s.list(ctx, `
		SELECT id, title, description, issue_type, priority, status, linked_entity_id, linked_entity_name, assigned_to, created_at
		FROM issues ORDER BY seq DESC
	`)
}

func (s *PostgresStore) ListForEntity(ctx context.Context, entityID string) ([]*Issue, error) {
	return s.list(ctx, `
		SELECT id, title, description, issue_type, priority, status, linked_entity_id, linked_entity_name, assigned_to, created_at
		FROM issues WHERE linked_entity_id=$1 ORDER BY seq DESC
	`, entityID)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...interface{}) ([]*Issue, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, issue := range out {
		if err := s.loadComments(ctx, issue); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) loadComments(ctx context.Context, issue *Issue) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, author, content, created_at FROM issue_comments WHERE issue_id=$1 ORDER BY seq ASC
	`, issue.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	issue.Comments = []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return err
		}
		issue.Comments = append(issue.Comments, c)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIssue(row rowScanner) (*Issue, error) {
	var issue Issue
	var issueType, priority, status string
	err := row.Scan(&issue.ID, &issue.Title, &issue.Description, &issueType, &priority, &status,
		&issue.LinkedEntityID, &issue.LinkedEntityName, &issue.AssignedTo, &issue.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	issue.Type = Type(issueType)
	issue.Priority = Priority(priority)
	issue.Status = Status(status)
	return &issue, nil
}

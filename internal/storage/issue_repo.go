package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/library-server/internal/lending"
	"github.com/library-server/internal/model"
)

const uniqueViolation = "23505"

type IssueRepository struct {
	db *Database
}

func NewIssueRepository(db *Database) *IssueRepository {
	return &IssueRepository{db: db}
}

// Insert creates an active loan. The partial unique index on
// issues(book_id) WHERE is_active makes this the atomic reservation of
// the book's lending slot; a violation means the book is already out.
func (r *IssueRepository) Insert(ctx context.Context, bookID, patronID string, dueDate time.Time) (*model.Issue, error) {
	var issue model.Issue
	query := `
		INSERT INTO issues (book_id, patron_id, is_active, due_date)
		VALUES ($1, $2, true, $3)
		RETURNING id, book_id, patron_id, is_active, due_date, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, bookID, patronID, dueDate).
		StructScan(&issue)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, lending.ErrAlreadyIssued
		}
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return &issue, nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*model.Issue, error) {
	var issue model.Issue
	query := `
		SELECT id, book_id, patron_id, is_active, due_date, created_at, updated_at
		FROM issues WHERE id = $1
	`
	err := r.db.GetContext(ctx, &issue, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}
	return &issue, nil
}

func (r *IssueRepository) FindAll(ctx context.Context) ([]model.Issue, error) {
	var issues []model.Issue
	query := `
		SELECT id, book_id, patron_id, is_active, due_date, created_at, updated_at
		FROM issues ORDER BY created_at DESC
	`
	err := r.db.SelectContext(ctx, &issues, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find issues: %w", err)
	}
	return issues, nil
}

// Deactivate flips an active issue to inactive. Returns nil when the
// issue is absent or already inactive, so concurrent returns of the
// same loan resolve to exactly one winner.
func (r *IssueRepository) Deactivate(ctx context.Context, id string) (*model.Issue, error) {
	var issue model.Issue
	query := `
		UPDATE issues SET is_active = false, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_active
		RETURNING id, book_id, patron_id, is_active, due_date, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, id).StructScan(&issue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to deactivate issue: %w", err)
	}
	return &issue, nil
}

func (r *IssueRepository) HasActiveIssue(ctx context.Context, bookID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM issues WHERE book_id = $1 AND is_active)`
	err := r.db.GetContext(ctx, &exists, query, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to check active issue: %w", err)
	}
	return exists, nil
}

// FindOverdue lists active issues whose due date has passed.
func (r *IssueRepository) FindOverdue(ctx context.Context, now time.Time) ([]model.Issue, error) {
	var issues []model.Issue
	query := `
		SELECT id, book_id, patron_id, is_active, due_date, created_at, updated_at
		FROM issues WHERE is_active AND due_date < $1
		ORDER BY due_date
	`
	err := r.db.SelectContext(ctx, &issues, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find overdue issues: %w", err)
	}
	return issues, nil
}

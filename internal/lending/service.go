package lending

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/library-server/internal/model"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrPatronNotFound = errors.New("patron not found")
	ErrIssueNotFound  = errors.New("issue not found")
	ErrAlreadyIssued  = errors.New("book is already issued")
	ErrIssueNotActive = errors.New("issue is not active")
	ErrBookIssued     = errors.New("cannot delete an issued book")
)

// BookStore is the slice of book persistence the lending workflow needs.
type BookStore interface {
	FindByID(ctx context.Context, id string) (*model.Book, error)
	CountByISBN(ctx context.Context, isbn string) (int, error)
	Delete(ctx context.Context, id string) error
}

type PatronStore interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// IssueStore persists loans. Insert must be the atomic reservation of
// the book's lending slot: it returns ErrAlreadyIssued when an active
// issue for the same book already exists, even under concurrent calls.
type IssueStore interface {
	Insert(ctx context.Context, bookID, patronID string, dueDate time.Time) (*model.Issue, error)
	FindByID(ctx context.Context, id string) (*model.Issue, error)
	FindAll(ctx context.Context) ([]model.Issue, error)
	Deactivate(ctx context.Context, id string) (*model.Issue, error)
	HasActiveIssue(ctx context.Context, bookID string) (bool, error)
}

// Service orchestrates the book-lending workflow.
type Service struct {
	books   BookStore
	patrons PatronStore
	issues  IssueStore
	policy  LoanPolicy
}

func NewService(books BookStore, patrons PatronStore, issues IssueStore, policy LoanPolicy) *Service {
	return &Service{
		books:   books,
		patrons: patrons,
		issues:  issues,
		policy:  policy,
	}
}

// CreateIssue lends a book to a patron. The due date is computed once
// at creation from the loan policy and never recomputed.
func (s *Service) CreateIssue(ctx context.Context, bookID, patronID string) (*model.Issue, error) {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	patron, err := s.patrons.FindByID(ctx, patronID)
	if err != nil {
		return nil, err
	}
	if patron == nil {
		return nil, ErrPatronNotFound
	}

	copies, err := s.books.CountByISBN(ctx, book.ISBN)
	if err != nil {
		return nil, err
	}
	if copies == 0 {
		// Book vanished between lookup and count.
		return nil, ErrBookNotFound
	}

	now := time.Now()
	dueDate := now.Add(s.policy.Period(book, copies, now))

	issue, err := s.issues.Insert(ctx, bookID, patronID, dueDate)
	if err != nil {
		return nil, err
	}

	log.Printf("Issue created: book %q (%s) to %s (%s), due %s",
		book.Title, book.ID, patron.Name, patron.ID, issue.DueDate.Format(time.RFC3339))
	return issue, nil
}

// DeactivateIssue marks a loan as returned and frees the book for
// re-issuance. Deactivated loans are kept, not deleted.
func (s *Service) DeactivateIssue(ctx context.Context, issueID string) (*model.Issue, error) {
	issue, err := s.issues.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, ErrIssueNotFound
	}
	if !issue.IsActive {
		return nil, ErrIssueNotActive
	}

	updated, err := s.issues.Deactivate(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Lost a race with another return of the same issue.
		return nil, ErrIssueNotActive
	}

	log.Printf("Issue returned: %s (book %s)", updated.ID, updated.BookID)
	return updated, nil
}

// ListIssues returns all loans, active and returned.
func (s *Service) ListIssues(ctx context.Context) ([]model.Issue, error) {
	return s.issues.FindAll(ctx)
}

// DeleteBook removes a catalog copy unless it is currently lent out.
func (s *Service) DeleteBook(ctx context.Context, bookID string) error {
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrBookNotFound
	}

	issued, err := s.issues.HasActiveIssue(ctx, bookID)
	if err != nil {
		return err
	}
	if issued {
		return ErrBookIssued
	}

	if err := s.books.Delete(ctx, bookID); err != nil {
		return err
	}

	log.Printf("Book deleted: %q (%s)", book.Title, book.ID)
	return nil
}

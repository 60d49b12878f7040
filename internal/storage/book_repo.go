package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/library-server/internal/model"
)

type BookRepository struct {
	db *Database
}

func NewBookRepository(db *Database) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	var book model.Book
	query := `
		INSERT INTO books (isbn, title, location)
		VALUES ($1, $2, $3)
		RETURNING id, isbn, title, location, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, req.ISBN, req.Title, req.Location).
		StructScan(&book)
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return &book, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*model.Book, error) {
	var book model.Book
	query := `SELECT id, isbn, title, location, created_at, updated_at FROM books WHERE id = $1`
	err := r.db.GetContext(ctx, &book, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return &book, nil
}

func (r *BookRepository) FindAll(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	query := `SELECT id, isbn, title, location, created_at, updated_at FROM books ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &books, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find books: %w", err)
	}
	return books, nil
}

// CountByISBN counts catalog copies sharing an ISBN, the scarcity input
// of the loan period policy.
func (r *BookRepository) CountByISBN(ctx context.Context, isbn string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM books WHERE isbn = $1`
	err := r.db.GetContext(ctx, &count, query, isbn)
	if err != nil {
		return 0, fmt.Errorf("failed to count books by ISBN: %w", err)
	}
	return count, nil
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM books WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("book not found")
	}

	return nil
}

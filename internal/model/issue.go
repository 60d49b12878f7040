package model

import "time"

// Issue is a loan of one book copy to one patron. At most one active
// issue may exist per book; returned loans stay in the table with
// is_active = false.
type Issue struct {
	ID        string    `json:"id" db:"id"`
	BookID    string    `json:"book_id" db:"book_id"`
	PatronID  string    `json:"patron_id" db:"patron_id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	DueDate   time.Time `json:"due_date" db:"due_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateIssueRequest struct {
	BookID   string `json:"book_id" validate:"required,uuid"`
	PatronID string `json:"patron_id" validate:"required,uuid"`
}

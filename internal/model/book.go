package model

import "time"

// Book is a single physical copy in the catalog. Several rows may share
// an ISBN; each row is one lendable copy.
type Book struct {
	ID        string    `json:"id" db:"id"`
	ISBN      string    `json:"isbn" db:"isbn"`
	Title     string    `json:"title" db:"title"`
	Location  string    `json:"location" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateBookRequest struct {
	ISBN     string `json:"isbn" validate:"required"`
	Title    string `json:"title" validate:"required,max=128"`
	Location string `json:"location" validate:"required,max=128"`
}

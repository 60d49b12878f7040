package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/library-server/internal/lending"
	"github.com/library-server/internal/model"
)

// CreateBook godoc
// @Summary Add a book
// @Description Add a catalog copy; several copies may share an ISBN
// @Tags Books
// @Accept json
// @Produce json
// @Param request body model.CreateBookRequest true "Book details"
// @Success 201 {object} model.Book
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Security BearerAuth
// @Router /books [post]
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req model.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ISBN == "" || req.Title == "" || req.Location == "" {
		respondError(w, http.StatusBadRequest, "isbn, title, and location are required")
		return
	}

	book, err := h.bookRepo.Create(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create book")
		return
	}

	log.Printf("Book added %q (id=%s)", book.Title, book.ID)
	respondJSON(w, http.StatusCreated, book)
}

// GetBooks godoc
// @Summary List books
// @Description Get the full catalog
// @Tags Books
// @Produce json
// @Success 200 {array} model.Book
// @Failure 500 {object} map[string]string "Server error"
// @Router /books [get]
func (h *Handler) GetBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.bookRepo.FindAll(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch books")
		return
	}

	respondJSON(w, http.StatusOK, books)
}

// GetBook godoc
// @Summary Get a book
// @Description Get a single catalog copy by ID
// @Tags Books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} model.Book
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /books/{id} [get]
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	if _, err := uuid.Parse(bookID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid book ID")
		return
	}

	book, err := h.bookRepo.FindByID(r.Context(), bookID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch book")
		return
	}
	if book == nil {
		respondError(w, http.StatusNotFound, "book not found")
		return
	}

	respondJSON(w, http.StatusOK, book)
}

// DeleteBook godoc
// @Summary Delete a book
// @Description Delete a catalog copy; refused while the copy is lent out
// @Tags Books
// @Produce json
// @Param id path string true "Book ID"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Book not found"
// @Failure 409 {object} map[string]string "Book is issued"
// @Failure 500 {object} map[string]string "Server error"
// @Security BearerAuth
// @Router /books/{id} [delete]
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := r.PathValue("id")
	if _, err := uuid.Parse(bookID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid book ID")
		return
	}

	err := h.lending.DeleteBook(r.Context(), bookID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusNoContent, nil)
	case errors.Is(err, lending.ErrBookNotFound):
		respondError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, lending.ErrBookIssued):
		respondError(w, http.StatusConflict, "cannot delete an issued book")
	default:
		respondError(w, http.StatusInternalServerError, "failed to delete book")
	}
}

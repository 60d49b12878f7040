package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/library-server/internal/lending"
	"github.com/library-server/internal/model"
)

// CreateIssue godoc
// @Summary Issue a book
// @Description Lend a book to a patron; the due date follows the loan period policy
// @Tags Issues
// @Accept json
// @Produce json
// @Param request body model.CreateIssueRequest true "Issue details"
// @Success 201 {object} model.Issue
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Book or patron not found"
// @Failure 409 {object} map[string]string "Book already issued"
// @Failure 500 {object} map[string]string "Server error"
// @Security BearerAuth
// @Router /issues [post]
func (h *Handler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	var req model.CreateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.BookID == "" || req.PatronID == "" {
		respondError(w, http.StatusBadRequest, "book_id and patron_id are required")
		return
	}
	if _, err := uuid.Parse(req.BookID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid book_id")
		return
	}
	if _, err := uuid.Parse(req.PatronID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid patron_id")
		return
	}

	issue, err := h.lending.CreateIssue(r.Context(), req.BookID, req.PatronID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, issue)
	case errors.Is(err, lending.ErrBookNotFound):
		respondError(w, http.StatusNotFound, "book not found")
	case errors.Is(err, lending.ErrPatronNotFound):
		respondError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, lending.ErrAlreadyIssued):
		respondError(w, http.StatusConflict, "the book is already issued")
	default:
		respondError(w, http.StatusInternalServerError, "failed to create issue")
	}
}

// GetIssues godoc
// @Summary List issues
// @Description List all loans, active and returned
// @Tags Issues
// @Produce json
// @Success 200 {array} model.Issue
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Security BearerAuth
// @Router /issues [get]
func (h *Handler) GetIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.lending.ListIssues(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch issues")
		return
	}

	respondJSON(w, http.StatusOK, issues)
}

// DeactivateIssue godoc
// @Summary Return a book
// @Description Deactivate a loan, freeing the book for re-issuance
// @Tags Issues
// @Produce json
// @Param id path string true "Issue ID"
// @Success 200 {object} model.Issue
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Issue not found"
// @Failure 409 {object} map[string]string "Issue is not active"
// @Failure 500 {object} map[string]string "Server error"
// @Security BearerAuth
// @Router /issues/{id} [put]
func (h *Handler) DeactivateIssue(w http.ResponseWriter, r *http.Request) {
	issueID := r.PathValue("id")
	if _, err := uuid.Parse(issueID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid issue ID")
		return
	}

	issue, err := h.lending.DeactivateIssue(r.Context(), issueID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, issue)
	case errors.Is(err, lending.ErrIssueNotFound):
		respondError(w, http.StatusNotFound, "issue not found")
	case errors.Is(err, lending.ErrIssueNotActive):
		respondError(w, http.StatusConflict, "issue is not active")
	default:
		respondError(w, http.StatusInternalServerError, "failed to deactivate issue")
	}
}

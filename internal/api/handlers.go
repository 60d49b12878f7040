package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/library-server/internal/lending"
	"github.com/library-server/internal/middleware"
	"github.com/library-server/internal/model"
	"github.com/library-server/internal/storage"
)

// Handler contains all API handlers
type Handler struct {
	userRepo *storage.UserRepository
	bookRepo *storage.BookRepository
	lending  *lending.Service
	auth     *middleware.AuthMiddleware
}

// NewHandler creates a new API handler
func NewHandler(
	userRepo *storage.UserRepository,
	bookRepo *storage.BookRepository,
	lendingSvc *lending.Service,
	auth *middleware.AuthMiddleware,
) *Handler {
	return &Handler{
		userRepo: userRepo,
		bookRepo: bookRepo,
		lending:  lendingSvc,
		auth:     auth,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// User handlers

// Login godoc
// @Summary User login
// @Description Authenticate with email and password and return a JWT token
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login credentials"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Server error"
// @Router /users/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "you need email and password to sign in")
		return
	}

	user, err := h.userRepo.FindByEmail(r.Context(), req.Email)
	if err != nil || user == nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !h.userRepo.ValidatePassword(user, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, expiresAt, err := h.auth.GenerateToken(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// CreatePatron godoc
// @Summary Register a patron
// @Description Create a patron account and return a JWT token for it
// @Tags Users
// @Accept json
// @Produce json
// @Param request body model.CreatePatronRequest true "Patron details"
// @Success 201 {object} model.LoginResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Server error"
// @Security BearerAuth
// @Router /users/patrons [post]
func (h *Handler) CreatePatron(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePatronRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "email, password, and name are required")
		return
	}
	if !isValidEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if len(req.Password) < 8 {
		respondError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	existing, _ := h.userRepo.FindByEmail(r.Context(), req.Email)
	if existing != nil {
		respondError(w, http.StatusConflict, "user already exists, please supply another email address")
		return
	}

	user, err := h.userRepo.CreatePatron(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create patron")
		return
	}

	token, expiresAt, err := h.auth.GenerateToken(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	log.Printf("Patron created (%s)", user.Name)
	respondJSON(w, http.StatusCreated, model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// GetPatrons godoc
// @Summary List patrons
// @Description List all patrons, optionally filtered by a name/email substring
// @Tags Users
// @Produce json
// @Param query query string false "Substring filter on name or email"
// @Success 200 {array} model.User
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Security BearerAuth
// @Router /users/patrons [get]
func (h *Handler) GetPatrons(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	patrons, err := h.userRepo.FindPatrons(r.Context(), query)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch patrons")
		return
	}

	respondJSON(w, http.StatusOK, patrons)
}

// GetPatron godoc
// @Summary Get a patron
// @Description Get a single patron by ID
// @Tags Users
// @Produce json
// @Param id path string true "Patron ID"
// @Success 200 {object} model.User
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Patron not found"
// @Failure 500 {object} map[string]string "Server error"
// @Security BearerAuth
// @Router /users/patrons/{id} [get]
func (h *Handler) GetPatron(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if _, err := uuid.Parse(userID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid patron ID")
		return
	}

	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch patron")
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Health godoc
// @Summary Health check
// @Description Check if the API is running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Health status"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// isValidEmail performs a basic email validation
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}

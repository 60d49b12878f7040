package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Request validation happens before any storage access, so these run
// against a bare handler.

func TestCreateIssue_RequestValidation(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid_json", body: "{not json"},
		{name: "missing_fields", body: `{}`},
		{name: "bad_book_id", body: `{"book_id":"nope","patron_id":"3b241101-e2bb-4255-8caf-4136c566a962"}`},
		{name: "bad_patron_id", body: `{"book_id":"3b241101-e2bb-4255-8caf-4136c566a962","patron_id":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/issues", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateIssue(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreatePatron_RequestValidation(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid_json", body: "{"},
		{name: "missing_fields", body: `{"email":"jess@test.com"}`},
		{name: "bad_email", body: `{"name":"Jess","email":"not-an-email","password":"testpass123"}`},
		{name: "short_password", body: `{"name":"Jess","email":"jess@test.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/patrons", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreatePatron(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, isValidEmail("jess@test.com"))
	assert.True(t, isValidEmail("a@b.co"))
	assert.False(t, isValidEmail("jess"))
	assert.False(t, isValidEmail("jess@"))
	assert.False(t, isValidEmail("@test.com"))
	assert.False(t, isValidEmail("jess@localhost"))
	assert.False(t, isValidEmail("a@b@c.com"))
}

func TestHealth(t *testing.T) {
	h := &Handler{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.Health(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/library-server/internal/config"
	"github.com/library-server/internal/model"
)

type fakeDirectory struct {
	users map[string]*model.User
	roles map[string][]model.RoleName
}

func (f *fakeDirectory) FindByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (f *fakeDirectory) RolesByUserID(_ context.Context, userID string) ([]model.RoleName, error) {
	return f.roles[userID], nil
}

func newTestAuth() (*AuthMiddleware, *fakeDirectory) {
	dir := &fakeDirectory{
		users: map[string]*model.User{
			"admin-1":  {ID: "admin-1", Email: "ben@test.com"},
			"patron-1": {ID: "patron-1", Email: "jess@test.com"},
		},
		roles: map[string][]model.RoleName{
			"admin-1":  {model.RoleAdmin},
			"patron-1": {model.RolePatron},
		},
	}
	auth := NewAuthMiddleware(config.JWTConfig{
		Secret:          "test-secret",
		ExpirationHours: 24,
	}, dir)
	return auth, dir
}

func TestToken_RoundTrip(t *testing.T) {
	auth, _ := newTestAuth()

	token, expiresAt, err := auth.GenerateToken("admin-1")
	require.NoError(t, err)
	assert.Greater(t, expiresAt, time.Now().Unix())

	userID, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", userID)
}

func TestToken_Expired(t *testing.T) {
	auth, _ := newTestAuth()

	claims := jwt.RegisteredClaims{
		Subject:   "admin-1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(stale)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestToken_Tampered(t *testing.T) {
	auth, _ := newTestAuth()

	token, _, err := auth.GenerateToken("admin-1")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip a byte of the payload; the signature no longer verifies.
	payload := []byte(parts[1])
	if payload[0] == 'X' {
		payload[0] = 'Y'
	} else {
		payload[0] = 'X'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = auth.ValidateToken(tampered)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = auth.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	// Signed with a different secret.
	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func guardedEndpoint(auth *AuthMiddleware, roles ...model.RoleName) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return auth.Authenticate(auth.RequireRoles(roles...)(next))
}

func TestAuthenticate_MissingOrInvalidToken(t *testing.T) {
	auth, _ := newTestAuth()
	handler := guardedEndpoint(auth, model.RoleAdmin)

	tests := []struct {
		name   string
		header string
	}{
		{name: "no_header", header: ""},
		{name: "wrong_scheme", header: "Token abc"},
		{name: "garbage_token", header: "Bearer garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/books", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthenticate_UnknownSubject(t *testing.T) {
	auth, _ := newTestAuth()
	handler := guardedEndpoint(auth, model.RoleAdmin)

	token, _, err := auth.GenerateToken("ghost")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoles_PatronDeniedAdminAllowed(t *testing.T) {
	auth, _ := newTestAuth()
	handler := guardedEndpoint(auth, model.RoleAdmin)

	patronToken, _, err := auth.GenerateToken("patron-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/books", nil)
	req.Header.Set("Authorization", "Bearer "+patronToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, _, err := auth.GenerateToken("admin-1")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/books", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles_EmptySetMeansAnyAuthenticated(t *testing.T) {
	auth, _ := newTestAuth()
	handler := guardedEndpoint(auth)

	token, _, err := auth.GenerateToken("patron-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/issues", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

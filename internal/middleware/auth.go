package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/library-server/internal/config"
	"github.com/library-server/internal/model"
)

type contextKey string

const UserContextKey contextKey = "user"

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// UserDirectory resolves a token subject to a user and their role set.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	RolesByUserID(ctx context.Context, userID string) ([]model.RoleName, error)
}

// AuthMiddleware issues and validates bearer tokens and guards routes
// by role. The signing secret is process-wide configuration, loaded
// once at startup and never embedded in the token.
type AuthMiddleware struct {
	jwtSecret []byte
	users     UserDirectory
	expiry    time.Duration
}

func NewAuthMiddleware(cfg config.JWTConfig, users UserDirectory) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: []byte(cfg.Secret),
		users:     users,
		expiry:    time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// GenerateToken creates a signed token carrying the user id as subject.
func (m *AuthMiddleware) GenerateToken(userID string) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(m.expiry)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(m.jwtSecret)
	if err != nil {
		return "", 0, err
	}

	return tokenStr, expiresAt.Unix(), nil
}

// ValidateToken verifies the signature and expiry and returns the
// subject user id. Tampering with any part of the token reads as
// ErrTokenMalformed; a valid but stale token as ErrTokenExpired.
func (m *AuthMiddleware) ValidateToken(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}

// Authenticate resolves the bearer token to a user, loads the role set
// with a single storage read, and attaches the snapshot to the request
// context. Missing, invalid, or expired credentials are 401; identity
// is re-verified on every request, never cached.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, `{"error": "authentication token is not available, please login to get one"}`, http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := m.ValidateToken(tokenStr)
		if err != nil {
			msg := "invalid token, please try again with a new token"
			if errors.Is(err, ErrTokenExpired) {
				msg = "token expired, please login again"
			}
			http.Error(w, `{"error": "`+msg+`"}`, http.StatusUnauthorized)
			return
		}

		user, err := m.users.FindByID(r.Context(), userID)
		if err != nil || user == nil {
			http.Error(w, `{"error": "user does not exist, invalid token"}`, http.StatusUnauthorized)
			return
		}

		roles, err := m.users.RolesByUserID(r.Context(), user.ID)
		if err != nil {
			http.Error(w, `{"error": "failed to load user roles"}`, http.StatusInternalServerError)
			return
		}

		authUser := &model.AuthUser{
			ID:    user.ID,
			Email: user.Email,
			Roles: roles,
		}
		ctx := context.WithValue(r.Context(), UserContextKey, authUser)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles guards a handler behind a role check. The caller must
// already be authenticated; a valid identity without one of the
// required roles is 403.
func (m *AuthMiddleware) RequireRoles(roles ...model.RoleName) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}
			if !user.HasAnyRole(roles...) {
				http.Error(w, `{"error": "forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the authenticated user from context.
func GetUserFromContext(ctx context.Context) *model.AuthUser {
	user, ok := ctx.Value(UserContextKey).(*model.AuthUser)
	if !ok {
		return nil
	}
	return user
}

// CORS middleware
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// JSON middleware sets JSON content type
func JSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Logger middleware logs requests
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

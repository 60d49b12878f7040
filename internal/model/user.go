package model

import "time"

type RoleName string

const (
	RoleAdmin     RoleName = "Admin"
	RoleLibrarian RoleName = "Librarian"
	RolePatron    RoleName = "Patron"
)

type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Role struct {
	ID   string   `json:"id" db:"id"`
	Name RoleName `json:"name" db:"name"`
}

type CreatePatronRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      *User  `json:"user"`
}

// AuthUser is the request-scoped identity snapshot resolved by the auth
// middleware: the token subject plus the role set loaded once per request.
type AuthUser struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Roles []RoleName `json:"roles"`
}

// HasAnyRole reports whether the user holds at least one of the given roles.
// An empty required set means any authenticated user qualifies.
func (u *AuthUser) HasAnyRole(required ...RoleName) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

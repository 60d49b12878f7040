package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/library-server/internal/model"
)

type UserRepository struct {
	db *Database
}

func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db}
}

// CreatePatron inserts a user and assigns the Patron role in one
// transaction. Roles are assigned at creation and immutable afterwards.
func (r *UserRepository) CreatePatron(ctx context.Context, req *model.CreatePatronRequest) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var user model.User
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query, req.Name, req.Email, string(hashedPassword)).
		StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	assign := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
	`
	if _, err := tx.ExecContext(ctx, assign, user.ID, model.RolePatron); err != nil {
		return nil, fmt.Errorf("failed to assign patron role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user creation: %w", err)
	}

	return &user, nil
}

// CreateAdmin upserts the bootstrap admin account. Safe to call on
// every startup.
func (r *UserRepository) CreateAdmin(ctx context.Context, email, password, name string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var user model.User
	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
		RETURNING id, name, email, created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query, name, email, string(hashedPassword)).
		StructScan(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	assign := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT (user_id, role_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, assign, user.ID, model.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to assign admin role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit admin creation: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	query := `SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return &user, nil
}

// RolesByUserID returns the role names held by a user.
func (r *UserRepository) RolesByUserID(ctx context.Context, userID string) ([]model.RoleName, error) {
	var roles []model.RoleName
	query := `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
	`
	err := r.db.SelectContext(ctx, &roles, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}
	return roles, nil
}

// FindPatrons lists users holding the Patron role. A non-empty query
// narrows the list to names or emails containing the substring.
func (r *UserRepository) FindPatrons(ctx context.Context, query string) ([]model.User, error) {
	var users []model.User
	var sqlQuery string
	var args []interface{}

	base := `
		SELECT u.id, u.name, u.email, u.created_at, u.updated_at FROM users u
		JOIN user_roles ur ON ur.user_id = u.id
		JOIN roles r ON r.id = ur.role_id AND r.name = $1
	`
	if query != "" {
		sqlQuery = base + ` WHERE u.name ILIKE $2 OR u.email ILIKE $2 ORDER BY u.created_at DESC`
		args = []interface{}{model.RolePatron, "%" + query + "%"}
	} else {
		sqlQuery = base + ` ORDER BY u.created_at DESC`
		args = []interface{}{model.RolePatron}
	}

	err := r.db.SelectContext(ctx, &users, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find patrons: %w", err)
	}
	return users, nil
}

// ValidatePassword checks a plaintext password against the stored hash.
// Any failure, including a corrupt hash, reads as a mismatch.
func (r *UserRepository) ValidatePassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/library-server/internal/model"
)

func TestValidatePassword(t *testing.T) {
	repo := NewUserRepository(nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("testpass123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &model.User{Email: "jess@test.com", Password: string(hash)}

	assert.True(t, repo.ValidatePassword(user, "testpass123"))
	assert.False(t, repo.ValidatePassword(user, "wrongpass"))
	assert.False(t, repo.ValidatePassword(user, ""))
}

func TestValidatePassword_CorruptHashIsMismatch(t *testing.T) {
	repo := NewUserRepository(nil)

	// A corrupt stored hash must read as a mismatch, never an error
	// surfaced to the caller.
	user := &model.User{Email: "jess@test.com", Password: "not-a-bcrypt-hash"}
	assert.False(t, repo.ValidatePassword(user, "testpass123"))

	empty := &model.User{Email: "jess@test.com", Password: ""}
	assert.False(t, repo.ValidatePassword(empty, "testpass123"))
}

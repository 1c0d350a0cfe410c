package services

import (
	"strings"
	"testing"

	"github.com/arnold/goalboards-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	u := f.user(t, "alice")
	assert.NotEqual(t, "password123", u.Password)

	_, err := f.svc.Register(f.ctx, models.RegisterRequest{Username: "bob", Password: "password123", PasswordRepeat: "password124"})
	requireValidation(t, err, "password_repeat")

	_, err = f.svc.Register(f.ctx, models.RegisterRequest{Username: "alice", Password: "password123", PasswordRepeat: "password123"})
	requireValidation(t, err, "username")

	_, err = f.svc.Register(f.ctx, models.RegisterRequest{Username: "carol", Password: "short", PasswordRepeat: "short"})
	requireValidation(t, err, "password")
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	got, err := f.svc.Authenticate(f.ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = f.svc.Authenticate(f.ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	_, err = f.svc.Authenticate(f.ctx, "nobody", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestProfileAndPassword(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	f.user(t, "bob")

	first := "Alice"
	u, err := f.svc.UpdateProfile(f.ctx, alice.ID, models.UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName)

	taken := "bob"
	_, err = f.svc.UpdateProfile(f.ctx, alice.ID, models.UpdateProfileRequest{Username: &taken})
	requireValidation(t, err, "username")

	err = f.svc.ChangePassword(f.ctx, alice.ID, models.ChangePasswordRequest{OldPassword: "bad", NewPassword: "newpassword"})
	requireValidation(t, err, "old_password")
	require.NoError(t, f.svc.ChangePassword(f.ctx, alice.ID, models.ChangePasswordRequest{OldPassword: "password123", NewPassword: "newpassword"}))

	_, err = f.svc.Authenticate(f.ctx, "alice", "newpassword")
	require.NoError(t, err)

	_, err = f.svc.Profile(f.ctx, uuid.New())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestOverlongPasswordIsAFieldError(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	long := strings.Repeat("p", 80)

	_, err := f.svc.Register(f.ctx, models.RegisterRequest{Username: "carol", Password: long, PasswordRepeat: long})
	requireValidation(t, err, "password")

	err = f.svc.ChangePassword(f.ctx, alice.ID, models.ChangePasswordRequest{OldPassword: "password123", NewPassword: long})
	requireValidation(t, err, "new_password")

	_, err = f.svc.Authenticate(f.ctx, "alice", "password123")
	require.NoError(t, err)
}

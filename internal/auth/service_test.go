package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashforge/flashforge-backend/internal/repository/repositorytest"
)

func TestSignupAndLogin(t *testing.T) {
	svc := NewService(repositorytest.NewFakeUserRepo(), "test-secret")

	user, token, err := svc.Signup(context.Background(), "User@Example.com", "Passw0rd")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email, "email is normalized")
	assert.NotEmpty(t, token)

	loggedIn, loginToken, err := svc.Login(context.Background(), "user@example.com", "Passw0rd")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)

	userID, err := svc.ValidateAccessToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := NewService(repositorytest.NewFakeUserRepo(), "test-secret")

	_, _, err := svc.Signup(context.Background(), "user@example.com", "Passw0rd")
	require.NoError(t, err)

	_, _, err = svc.Signup(context.Background(), "USER@example.com", "Passw0rd")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignup_WeakPassword(t *testing.T) {
	svc := NewService(repositorytest.NewFakeUserRepo(), "test-secret")

	_, _, err := svc.Signup(context.Background(), "user@example.com", "password")
	assert.ErrorIs(t, err, ErrPasswordTooWeak)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := NewService(repositorytest.NewFakeUserRepo(), "test-secret")

	_, _, err := svc.Signup(context.Background(), "user@example.com", "Passw0rd")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "user@example.com", "Wrong0ne")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := NewService(repositorytest.NewFakeUserRepo(), "test-secret")

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "Passw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

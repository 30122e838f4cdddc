package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid", "Passw0rd", nil},
		{"too short", "Pw1", ErrPasswordTooShort},
		{"no uppercase", "passw0rd", ErrPasswordTooWeak},
		{"no lowercase", "PASSW0RD", ErrPasswordTooWeak},
		{"no number", "Password", ErrPasswordTooWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd", hash)

	assert.True(t, CheckPassword("Passw0rd", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "flashforge")
	userID := uuid.New().String()

	token, err := svc.GenerateAccessToken(userID, "user@example.com")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "flashforge", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", "flashforge").GenerateAccessToken(uuid.New().String(), "user@example.com")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", "flashforge").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "flashforge")
	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromBearer("Bearer abc123"))
	assert.Equal(t, "abc123", ExtractTokenFromBearer("bearer abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer("abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer(""))
}

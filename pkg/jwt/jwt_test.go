package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	secretKey := "test-secret-key"
	service := NewService(secretKey, time.Hour)

	assert.NotNil(t, service)
	assert.Equal(t, []byte(secretKey), service.secretKey)
	assert.Equal(t, time.Hour, service.ttl)
}

func TestGenerateAndValidateToken_RoundTrip(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	token, err := service.GenerateToken(42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, time.Now().Before(claims.ExpiresAt.Time))
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateToken_Expired(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	token, err := service.GenerateTokenWithTTL(7, -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service1 := NewService("secret-key-1", time.Hour)
	service2 := NewService("secret-key-2", time.Hour)

	token, err := service1.GenerateToken(7)
	require.NoError(t, err)

	_, err = service2.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_Malformed(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	for _, token := range []string{"", "invalid-token", "a.b.c"} {
		_, err := service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestValidateToken_UnexpectedSigningMethod(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingExpiry(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "7"}).
		SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_BadSubject(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	for _, sub := range []string{"", "abc", "0", "-1"} {
		claims := jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, sub)
	}
}

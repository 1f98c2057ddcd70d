package service

import (
	"context"
	"testing"
	"time"

	"github.com/classmark/gradebook/internal/config"
	"github.com/classmark/gradebook/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
}

func TestPasswordHashing(t *testing.T) {
	auth := NewAuthService(testConfig(), nil)

	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.NoError(t, auth.CheckPassword(hash, "hunter2"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "hunter3"), ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService(testConfig(), nil)

	token, err := auth.GenerateToken(&model.User{Username: "ms", IsTeacher: true})
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, model.Principal{Username: "ms", IsTeacher: true}, claims.Principal())
	assert.NotEmpty(t, claims.ID)

	assert.NoError(t, auth.CheckNotRevoked(context.Background(), claims))
	assert.NoError(t, auth.Revoke(context.Background(), claims))
}

func TestValidateTokenRejects(t *testing.T) {
	auth := NewAuthService(testConfig(), nil)

	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour}, nil)
	forged, err := other.GenerateToken(&model.User{Username: "ms", IsTeacher: true})
	require.NoError(t, err)
	_, err = auth.ValidateToken(forged)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		Username:         "ms",
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.ValidateToken(signed)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "ms"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.ValidateToken(unsigned)
	assert.Error(t, err)

	_, err = auth.ValidateToken("not-a-token")
	assert.Error(t, err)
}

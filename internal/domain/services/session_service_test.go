package services

import (
	"testing"
	"time"

	"disasterconnect-http-service/internal/infrastructure/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	svc := NewSessionService(&config.Config{SecretKey: "k", SessionLifetime: time.Hour})
	userID, adminID := uint(4), uint(9)

	token, err := svc.Encode(SessionValues{UserID: &userID, AdminID: &adminID, IsAdmin: true})
	require.NoError(t, err)

	values, err := svc.Decode(token)
	require.NoError(t, err)
	require.NotNil(t, values.UserID)
	require.NotNil(t, values.AdminID)
	assert.Equal(t, userID, *values.UserID)
	assert.Equal(t, adminID, *values.AdminID)
	assert.True(t, values.IsAdmin)
	assert.Equal(t, time.Hour, svc.Lifetime())
}

func TestSessionRejectsOtherSecret(t *testing.T) {
	userID := uint(1)
	token, err := NewSessionService(&config.Config{SecretKey: "a"}).Encode(SessionValues{UserID: &userID})
	require.NoError(t, err)

	_, err = NewSessionService(&config.Config{SecretKey: "b"}).Decode(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	userID := uint(1)
	claims := &SessionClaims{
		SessionValues: SessionValues{UserID: &userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Issuer:    sessionIssuer,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewSessionService(&config.Config{SecretKey: "k"}).Decode(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionRejectsGarbage(t *testing.T) {
	_, err := NewSessionService(&config.Config{SecretKey: "k"}).Decode("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionValuesEmpty(t *testing.T) {
	assert.True(t, SessionValues{}.Empty())
	id := uint(1)
	assert.False(t, SessionValues{UserID: &id}.Empty())
}

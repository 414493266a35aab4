package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestNewAndVerify(t *testing.T) {
	sid := uuid.New()
	now := time.Now()

	token, err := New(sid, 42, now, now.Add(time.Hour), secret)
	require.NoError(t, err)

	got, claims, err := Verify(token, secret, now)
	require.NoError(t, err)
	assert.Equal(t, sid, got)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Now()
	token, err := New(uuid.New(), 1, now, now.Add(time.Hour), secret)
	require.NoError(t, err)

	_, _, err = Verify(token, []byte("other"), now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	now := time.Now()
	token, err := New(uuid.New(), 1, now.Add(-2*time.Hour), now.Add(-time.Hour), secret)
	require.NoError(t, err)

	_, _, err = Verify(token, secret, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	claims := Claims{
		SessionID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = Verify(token, secret, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, _, err := Verify("not-a-token", secret, time.Now())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

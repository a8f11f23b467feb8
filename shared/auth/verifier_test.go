package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gripclub/registration-service/shared/apperrors"
)

func newKeyPair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func signToken(t *testing.T, priv ed25519.PrivateKey, subject, email string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(priv)
	require.NoError(t, err)
	return token
}

func requestWithToken(token string) *http.Request {
	r, _ := http.NewRequest(http.MethodGet, "/api/teams", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestAuthenticateValidToken(t *testing.T) {
	pub, priv := newKeyPair(t)
	v := NewVerifier(pub, nil)

	token := signToken(t, priv, "user-1", "marta@example.com", time.Now().Add(time.Hour))
	id, err := v.Authenticate(requestWithToken(token))
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "marta@example.com", id.Email)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	pub, _ := newKeyPair(t)
	v := NewVerifier(pub, nil)

	_, err := v.Authenticate(requestWithToken(""))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
	assert.EqualError(t, err, "Not authenticated")
}

func TestAuthenticateMalformedToken(t *testing.T) {
	pub, _ := newKeyPair(t)
	v := NewVerifier(pub, nil)

	_, err := v.Authenticate(requestWithToken("not-a-jwt"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
}

func TestAuthenticateWrongKey(t *testing.T) {
	pub, _ := newKeyPair(t)
	_, otherPriv := newKeyPair(t)
	v := NewVerifier(pub, nil)

	token := signToken(t, otherPriv, "user-1", "marta@example.com", time.Now().Add(time.Hour))
	_, err := v.Authenticate(requestWithToken(token))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
}

func TestAuthenticateExpiredToken(t *testing.T) {
	pub, priv := newKeyPair(t)
	v := NewVerifier(pub, nil)

	token := signToken(t, priv, "user-1", "marta@example.com", time.Now().Add(-time.Minute))
	_, err := v.Authenticate(requestWithToken(token))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
}

func TestAuthenticateTokenWithoutExpiry(t *testing.T) {
	pub, priv := newKeyPair(t)
	v := NewVerifier(pub, nil)

	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"sub":   "user-1",
		"email": "marta@example.com",
	}).SignedString(priv)
	require.NoError(t, err)

	_, err = v.Authenticate(requestWithToken(token))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
}

func TestAuthenticateTokenWithoutSubject(t *testing.T) {
	pub, priv := newKeyPair(t)
	v := NewVerifier(pub, nil)

	token := signToken(t, priv, "", "marta@example.com", time.Now().Add(time.Hour))
	_, err := v.Authenticate(requestWithToken(token))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuth, apperrors.CodeOf(err))
}

func TestIsAdmin(t *testing.T) {
	pub, _ := newKeyPair(t)
	v := NewVerifier(pub, []string{"Admin@Example.com", " second@example.com "})

	assert.True(t, v.IsAdmin(&Identity{UserID: "u", Email: "admin@example.com"}))
	assert.True(t, v.IsAdmin(&Identity{UserID: "u", Email: "ADMIN@EXAMPLE.COM"}))
	assert.True(t, v.IsAdmin(&Identity{UserID: "u", Email: "second@example.com"}))
	assert.False(t, v.IsAdmin(&Identity{UserID: "u", Email: "user@example.com"}))
	assert.False(t, v.IsAdmin(&Identity{UserID: "u"}))
	assert.False(t, v.IsAdmin(nil))
}

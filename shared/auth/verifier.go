// Package auth verifies the bearer credential presented on each request.
// Every check is re-derived from the token itself: signature and expiry are
// verified against the identity provider's public key, and no session state
// is kept between requests.
package auth

import (
	"crypto/ed25519"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gripclub/registration-service/shared/apperrors"
)

// Identity is the authenticated caller derived from a verified token.
type Identity struct {
	UserID string
	Email  string
}

// identityClaims is the claims shape issued by the identity provider.
type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Verifier validates bearer tokens and answers the admin predicate.
type Verifier struct {
	publicKey   ed25519.PublicKey
	adminEmails map[string]struct{}
	now         func() time.Time
}

// NewVerifier builds a Verifier from the provider's Ed25519 public key and
// the configured admin allow-list. Admin emails are matched
// case-insensitively.
func NewVerifier(publicKey ed25519.PublicKey, adminEmails []string) *Verifier {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			admins[e] = struct{}{}
		}
	}
	return &Verifier{
		publicKey:   publicKey,
		adminEmails: admins,
		now:         time.Now,
	}
}

// Authenticate extracts and verifies the request's bearer token. It returns
// an AUTH-coded error for a missing header, malformed or tampered token, or
// an expired credential.
func (v *Verifier) Authenticate(r *http.Request) (*Identity, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, apperrors.New(apperrors.CodeAuth, "Not authenticated")
	}
	token := strings.TrimPrefix(header, "Bearer ")

	var claims identityClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.publicKey, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAuth, "Not authenticated", err)
	}
	if claims.Subject == "" {
		return nil, apperrors.New(apperrors.CodeAuth, "Not authenticated")
	}

	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// IsAdmin reports whether the identity's email is on the admin allow-list.
func (v *Verifier) IsAdmin(id *Identity) bool {
	if id == nil || id.Email == "" {
		return false
	}
	_, ok := v.adminEmails[strings.ToLower(id.Email)]
	return ok
}

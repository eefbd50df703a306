// Package authn is the seam for the external credential-verification
// collaborator: spec.md §1 keeps "shared-secret signed token verification"
// out of this core's scope, so only a minimal interface plus a stub
// implementation live here.
package authn

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verifier resolves an upgrade-request token to a stable user id.
type Verifier interface {
	Verify(token string) (userID uuid.UUID, err error)
}

var (
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("authn: invalid token")
	// ErrTokenExpired is returned for a structurally valid but stale token.
	ErrTokenExpired = errors.New("authn: token expired")
)

// claims is the minimal payload a shared-secret token carries: a subject
// (the user id) and an expiry, mirroring the original source's JWT claims
// without the Supabase-specific fields this scope has no use for.
type claims struct {
	Sub uuid.UUID `json:"sub"`
	Exp int64     `json:"exp"`
}

// HMACVerifier verifies a "<base64url payload>.<base64url hmac-sha256>"
// shared-secret token. This is the minimal stand-in spec.md's external
// collaborator is documented to provide; it is not meant to be a
// production JWT implementation.
type HMACVerifier struct {
	secret []byte
}

// NewHMACVerifier constructs a verifier bound to a shared secret. An empty
// secret disables signature checking entirely — useful for local
// development, never for a deployed server.
func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Verify checks the token's signature and expiry, returning the subject
// user id on success.
func (v *HMACVerifier) Verify(token string) (uuid.UUID, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return uuid.UUID{}, ErrInvalidToken
	}
	payloadB64, sigB64 := parts[0], parts[1]

	if len(v.secret) > 0 {
		mac := hmac.New(sha256.New, v.secret)
		mac.Write([]byte(payloadB64))
		expected := mac.Sum(nil)

		sig, err := base64.RawURLEncoding.DecodeString(sigB64)
		if err != nil || !hmac.Equal(expected, sig) {
			return uuid.UUID{}, ErrInvalidToken
		}
	}

	payload, err := base64.RawURLEncoding.DecodeString(payloadB64)
	if err != nil {
		return uuid.UUID{}, ErrInvalidToken
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return uuid.UUID{}, ErrInvalidToken
	}

	if c.Exp != 0 && c.Exp < time.Now().Unix() {
		return uuid.UUID{}, ErrTokenExpired
	}

	return c.Sub, nil
}

// EncodeToken is the inverse of Verify, used by tests to construct a
// signed token for a given user id without pulling in a real auth
// provider.
func EncodeToken(secret string, userID uuid.UUID, exp time.Time) string {
	payload, _ := json.Marshal(claims{Sub: userID, Exp: exp.Unix()})
	payloadB64 := base64.RawURLEncoding.EncodeToString(payload)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payloadB64))
	sigB64 := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	return payloadB64 + "." + sigB64
}

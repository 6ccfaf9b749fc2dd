package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/bluesky-social/atauthn/identity"
)

// Allowed length range for a PKCE code verifier (RFC 7636).
const (
	MinVerifierLength = 43
	MaxVerifierLength = 128
)

// GenerateState returns a fresh random state token for CSRF binding: 32
// bytes from a cryptographically secure source, hex-encoded (64 lowercase
// characters).
func GenerateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GenerateCodeVerifier returns a fresh random PKCE code verifier of
// exactly the given length, drawn from the unpadded base64url alphabet.
// The length must lie in [MinVerifierLength, MaxVerifierLength].
//
// The caller must retain the verifier to complete the token exchange
// after the authorization redirect.
func GenerateCodeVerifier(length int) (string, error) {
	if length < MinVerifierLength || length > MaxVerifierLength {
		return "", fmt.Errorf("%w: code verifier length must be between %d and %d, got %d", identity.ErrInvalidInput, MinVerifierLength, MaxVerifierLength, length)
	}

	// enough random bytes that the base64 expansion covers the requested
	// length: ceil(length * 3/4)
	buf := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	verifier := base64.RawURLEncoding.EncodeToString(buf)
	return verifier[:length], nil
}

// S256CodeChallenge computes the PKCE "S256" code challenge for a
// verifier: the base64url-encoded (unpadded) SHA-256 digest. Deterministic.
func S256CodeChallenge(raw string) string {
	b := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(b[:])
}

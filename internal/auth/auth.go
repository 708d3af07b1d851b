// Package auth implements the API-key gate that guards privileged
// endpoints. Authorization is a single static key carried in the
// Authorization header, either raw or with a "Bearer " prefix.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrMissingKey is returned when the caller supplied no token at all.
	ErrMissingKey = errors.New("API key is required")
	// ErrNotConfigured is returned when the server itself has no key.
	// Distinct from ErrInvalidKey so a misconfigured deployment is
	// visible as a server-side fault, not a caller mistake.
	ErrNotConfigured = errors.New("server API key not configured")
	// ErrInvalidKey is returned on a mismatch.
	ErrInvalidKey = errors.New("invalid API key")
)

// Gate validates caller-supplied API keys against the configured secret.
// The comparison is constant-time and the gate never logs key material.
type Gate struct {
	key string
}

// NewGate creates a gate for the given secret.
func NewGate(key string) *Gate {
	return &Gate{key: key}
}

// StripBearer removes an optional "Bearer " scheme marker from an
// Authorization header value.
func StripBearer(header string) string {
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return header
}

// Authorize checks the Authorization header value against the configured
// key. It fails closed: any path that is not an exact match is an error.
func (g *Gate) Authorize(header string) error {
	token := StripBearer(header)
	if token == "" {
		return ErrMissingKey
	}
	if g.key == "" {
		return ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(g.key)) != 1 {
		return ErrInvalidKey
	}
	return nil
}

// Configured reports whether a key is set.
func (g *Gate) Configured() bool { return g.key != "" }

// KeyLength returns the length of the configured key. Exposed for the
// config introspection endpoint; the key itself is never exposed.
func (g *Gate) KeyLength() int { return len(g.key) }

// Require is middleware that rejects requests failing Authorize.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := g.Authorize(r.Header.Get("Authorization")); err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, ErrNotConfigured) {
				status = http.StatusInternalServerError
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"` + err.Error() + `"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	g := NewGate("super-secret")

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"exact key", "super-secret", nil},
		{"bearer prefix", "Bearer super-secret", nil},
		{"missing", "", ErrMissingKey},
		{"bearer only", "Bearer ", ErrMissingKey},
		{"wrong key", "not-the-secret", ErrInvalidKey},
		{"prefix of key", "super", ErrInvalidKey},
		{"key with suffix", "super-secret-x", ErrInvalidKey},
		{"wrong case", "SUPER-SECRET", ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Authorize(tt.header)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestAuthorizeUnconfigured(t *testing.T) {
	g := NewGate("")
	// Misconfiguration is reported distinctly from an invalid key,
	// and an empty key never matches an empty token.
	assert.ErrorIs(t, g.Authorize("anything"), ErrNotConfigured)
	assert.ErrorIs(t, g.Authorize(""), ErrMissingKey)
	assert.False(t, g.Configured())
	assert.Equal(t, 0, g.KeyLength())
}

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc", StripBearer("Bearer abc"))
	assert.Equal(t, "abc", StripBearer("abc"))
	// Only the exact scheme marker is stripped
	assert.Equal(t, "bearer abc", StripBearer("bearer abc"))
}

func TestRequireMiddleware(t *testing.T) {
	g := NewGate("super-secret")

	var reached bool
	handler := g.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("rejects missing key", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.False(t, reached)
	})

	t.Run("rejects wrong key", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, reached)
	})

	t.Run("passes exact key", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", "Bearer super-secret")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
	})

	t.Run("unconfigured server returns 500", func(t *testing.T) {
		empty := NewGate("")
		h := empty.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set("Authorization", "whatever")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

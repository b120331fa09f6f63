package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/pecommerce/storefront/internal/domain/auth"
)

// APIKeyHeader carries the administrative API key.
const APIKeyHeader = "X-API-Key"

// SecurityHandler authenticates administrative requests via HMAC-SHA256
// hashed API keys with the admin scope.
type SecurityHandler struct {
	apikeys auth.Repository
	pepper  []byte
}

// NewSecurityHandler creates a SecurityHandler with the given API key
// repository and HMAC pepper.
func NewSecurityHandler(apikeys auth.Repository, pepper []byte) *SecurityHandler {
	return &SecurityHandler{
		apikeys: apikeys,
		pepper:  pepper,
	}
}

// HashKey computes the hex HMAC-SHA256 of an API key under the pepper. The
// seed tool uses the same derivation when storing keys.
func HashKey(pepper []byte, key string) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

// Require wraps next so it only runs for requests carrying a valid API key
// with the admin scope. Everything else receives 403.
func (s *SecurityHandler) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(APIKeyHeader)
		if key == "" || !s.authenticate(r, key) {
			respondJSON(w, http.StatusForbidden, errorBody{
				Success: false,
				Message: "Access denied. Admins only.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate computes the HMAC of the presented key, looks it up, and
// compares against the stored hash in constant time.
func (s *SecurityHandler) authenticate(r *http.Request, key string) bool {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(key))
	hash := mac.Sum(nil)

	info, err := s.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
	if err != nil {
		return false
	}

	stored, err := hex.DecodeString(info.KeyHash)
	if err != nil {
		return false
	}
	if subtle.ConstantTimeCompare(hash, stored) != 1 {
		return false
	}

	return info.HasScope(auth.ScopeAdmin)
}

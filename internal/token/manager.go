// Package token decides whether the stored bearer credential is usable.
//
// Validity is judged purely from the expiration claim embedded in the
// credential. Signatures are never checked here; the server does that. Any
// credential that cannot be decoded is treated as expired.
package token

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nhle/tavern/internal/credential"
)

// Manager answers presence and expiry questions about the stored credential.
type Manager struct {
	store  credential.Store
	parser *jwt.Parser
	now    func() time.Time
}

// NewManager returns a Manager reading from store. now defaults to time.Now.
func NewManager(store credential.Store, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		store:  store,
		parser: jwt.NewParser(jwt.WithPaddingAllowed()),
		now:    now,
	}
}

// Credential returns the stored bearer value and whether one exists.
func (m *Manager) Credential() (string, bool) {
	token, err := m.store.Token()
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			log.Printf("token: reading credential: %v", err)
		}
		return "", false
	}
	return token, true
}

// HasCredential reports whether a non-empty bearer value is stored.
func (m *Manager) HasCredential() bool {
	_, ok := m.Credential()
	return ok
}

// IsExpired reports whether the stored credential is missing, undecodable,
// lacks an exp claim, or has reached its expiration instant.
func (m *Manager) IsExpired() bool {
	token, ok := m.Credential()
	if !ok {
		return true
	}

	exp, ok := m.expiration(token)
	if !ok {
		return true
	}

	if !m.now().Before(exp) {
		log.Printf("token: credential expired at %s", exp.Format(time.RFC3339))
		return true
	}
	return false
}

// ExpiresAt returns the expiration instant of the stored credential, if it
// can be decoded.
func (m *Manager) ExpiresAt() (time.Time, bool) {
	token, ok := m.Credential()
	if !ok {
		return time.Time{}, false
	}
	return m.expiration(token)
}

// Invalidate removes the credential and the user record. It is safe to call
// any number of times.
func (m *Manager) Invalidate() {
	if err := m.store.Clear(); err != nil {
		log.Printf("token: clearing credential: %v", err)
	}
}

// expiration decodes the claims segment and extracts exp. Every failure
// collapses to ok == false.
func (m *Manager) expiration(token string) (time.Time, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		log.Printf("token: malformed credential, %d segments", len(parts))
		return time.Time{}, false
	}

	payload, err := m.parser.DecodeSegment(parts[1])
	if err != nil {
		log.Printf("token: decoding claims segment: %v", err)
		return time.Time{}, false
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		log.Printf("token: parsing claims: %v", err)
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		log.Printf("token: credential has no usable exp claim")
		return time.Time{}, false
	}
	return exp.Time, true
}

package testutil

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var signingKey = []byte("tavern-test-signing-key")

// MintToken returns an HS256 token whose exp claim is exp.
func MintToken(t *testing.T, exp time.Time) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "test-user",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString(signingKey)
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

// RawToken builds a three-segment token with payload as the literal
// claims segment contents, for exercising malformed claims.
func RawToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".signature"
}

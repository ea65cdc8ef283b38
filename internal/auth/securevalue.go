package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

// MinSecretLength is the shortest signing secret accepted.
const MinSecretLength = 16

// Signer produces and checks tamper-evident "value|hexmac" strings.
type Signer struct {
	secret []byte
}

// NewSigner creates a signer keyed with secret. The secret is copied so the
// signer cannot be changed after construction.
func NewSigner(secret string) (*Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, errors.New("secret key must be at least 16 characters long")
	}
	return &Signer{secret: []byte(secret)}, nil
}

func (s *Signer) mac(value string) string {
	m := hmac.New(sha256.New, s.secret)
	m.Write([]byte(value))
	return hex.EncodeToString(m.Sum(nil))
}

// MakeSecureValue returns value followed by "|" and its hex-encoded MAC.
func (s *Signer) MakeSecureValue(value string) string {
	return value + "|" + s.mac(value)
}

// CheckSecureValue returns the value carried by secure if its MAC is
// intact. The value is everything before the first "|".
func (s *Signer) CheckSecureValue(secure string) (string, bool) {
	value, _, _ := strings.Cut(secure, "|")
	want := s.MakeSecureValue(value)
	if subtle.ConstantTimeCompare([]byte(want), []byte(secure)) != 1 {
		return "", false
	}
	return value, true
}

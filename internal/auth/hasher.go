package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSaltLength is the number of letters in a generated salt.
const DefaultSaltLength = 5

const saltLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Scheme selects how new password hashes are derived.
type Scheme string

const (
	// SchemeSaltedSHA256 stores "<salt>,<hex sha256(name+password+salt)>".
	SchemeSaltedSHA256 Scheme = "salted-sha256"
	// SchemeBcrypt stores a bcrypt hash of hex(sha256(name+password)).
	SchemeBcrypt Scheme = "bcrypt"
)

// ParseScheme validates a scheme name coming from configuration.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemeSaltedSHA256, SchemeBcrypt:
		return Scheme(s), nil
	}
	return "", fmt.Errorf("unknown password scheme %q", s)
}

// MakeSalt returns length letters drawn uniformly from [A-Za-z].
func MakeSalt(length int) (string, error) {
	max := big.NewInt(int64(len(saltLetters)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("error generating salt: %w", err)
		}
		b.WriteByte(saltLetters[n.Int64()])
	}
	return b.String(), nil
}

// HashPassword derives "<salt>,<hexdigest>" for name and password. A fresh
// salt is generated when salt is empty.
func HashPassword(name, password, salt string) (string, error) {
	if salt == "" {
		var err error
		if salt, err = MakeSalt(DefaultSaltLength); err != nil {
			return "", err
		}
	}
	sum := sha256.Sum256([]byte(name + password + salt))
	return salt + "," + hex.EncodeToString(sum[:]), nil
}

// HashWith derives a hash for name and password using scheme.
func HashWith(scheme Scheme, name, password string) (string, error) {
	switch scheme {
	case SchemeBcrypt:
		h, err := bcrypt.GenerateFromPassword(bcryptInput(name, password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(h), nil
	case SchemeSaltedSHA256, "":
		return HashPassword(name, password, "")
	}
	return "", fmt.Errorf("unknown password scheme %q", scheme)
}

// VerifyPassword reports whether password matches the stored hash for name.
func VerifyPassword(name, password, stored string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), bcryptInput(name, password)) == nil
	}

	salt, _, _ := strings.Cut(stored, ",")
	h, err := HashPassword(name, password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(h), []byte(stored)) == 1
}

// bcryptInput digests name+password so that bcrypt never sees more than
// its 72 byte limit, however many bytes the characters take.
func bcryptInput(name, password string) []byte {
	sum := sha256.Sum256([]byte(name + password))
	return []byte(hex.EncodeToString(sum[:]))
}

func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}

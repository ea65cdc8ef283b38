package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSalt_LengthAndAlphabet(t *testing.T) {
	for _, n := range []int{0, 1, DefaultSaltLength, 32} {
		salt, err := MakeSalt(n)
		require.NoError(t, err)
		assert.Len(t, salt, n)
		for _, c := range salt {
			assert.True(t, strings.ContainsRune(saltLetters, c), "unexpected salt char %q", c)
		}
	}
}

func TestHashPassword_Format(t *testing.T) {
	h, err := HashPassword("alice", "secret", "abcde")
	require.NoError(t, err)

	salt, digest, ok := strings.Cut(h, ",")
	require.True(t, ok)
	assert.Equal(t, "abcde", salt)
	assert.Len(t, digest, 64)

	// sha256("alicesecretabcde") is deterministic for a fixed salt.
	again, err := HashPassword("alice", "secret", "abcde")
	require.NoError(t, err)
	assert.Equal(t, h, again)
}

func TestHashPassword_GeneratesSalt(t *testing.T) {
	h, err := HashPassword("alice", "secret", "")
	require.NoError(t, err)

	salt, _, _ := strings.Cut(h, ",")
	assert.Len(t, salt, DefaultSaltLength)
}

func TestVerifyPassword(t *testing.T) {
	h, err := HashPassword("alice", "secret", "")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("alice", "secret", h))
	assert.False(t, VerifyPassword("alice", "wrong", h))
	assert.False(t, VerifyPassword("bob", "secret", h))
	assert.False(t, VerifyPassword("alice", "secret", ""))
	assert.False(t, VerifyPassword("alice", "secret", "garbage"))
}

func TestVerifyPassword_NameIsPartOfDigest(t *testing.T) {
	// name+password concatenation: "al"+"icesecret" collides with
	// "alice"+"secret" for the same salt.
	h, err := HashPassword("alice", "secret", "xyzzy")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("al", "icesecret", h))
}

func TestHashWith_Bcrypt(t *testing.T) {
	h, err := HashWith(SchemeBcrypt, "alice", "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$2"))

	assert.True(t, VerifyPassword("alice", "secret", h))
	assert.False(t, VerifyPassword("alice", "wrong", h))
}

func TestHashWith_BcryptLongMultibyteInput(t *testing.T) {
	name := "bobbybobbybobbybobby"
	password := strings.Repeat("😀", 20)
	require.NoError(t, SignupForm{Username: name, Password: password, Verify: password}.Validate())
	require.Greater(t, len(name+password), 72)

	h, err := HashWith(SchemeBcrypt, name, password)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(name, password, h))
	assert.False(t, VerifyPassword(name, strings.Repeat("😀", 19)+"😁", h))
}

func TestHashWith_UnknownScheme(t *testing.T) {
	_, err := HashWith(Scheme("md5"), "alice", "secret")
	assert.Error(t, err)
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("bcrypt")
	require.NoError(t, err)
	assert.Equal(t, SchemeBcrypt, s)

	s, err = ParseScheme("salted-sha256")
	require.NoError(t, err)
	assert.Equal(t, SchemeSaltedSHA256, s)

	_, err = ParseScheme("plain")
	assert.Error(t, err)
}

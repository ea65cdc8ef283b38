package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-0123456789"

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testSecret)
	require.NoError(t, err)
	return s
}

func TestNewSigner_RejectsShortSecret(t *testing.T) {
	_, err := NewSigner("short")
	assert.Error(t, err)
}

func TestSecureValue_RoundTrip(t *testing.T) {
	s := newTestSigner(t)
	for _, v := range []string{"", "1", "42", "hello world", "ünïcode"} {
		got, ok := s.CheckSecureValue(s.MakeSecureValue(v))
		assert.True(t, ok, "value %q", v)
		assert.Equal(t, v, got)
	}
}

func TestSecureValue_Format(t *testing.T) {
	s := newTestSigner(t)
	sv := s.MakeSecureValue("42")

	value, mac, ok := strings.Cut(sv, "|")
	require.True(t, ok)
	assert.Equal(t, "42", value)
	assert.Len(t, mac, 64)
}

func TestSecureValue_TamperedPayload(t *testing.T) {
	s := newTestSigner(t)
	sv := s.MakeSecureValue("12345")
	sep := strings.Index(sv, "|")

	for i := 0; i < sep; i++ {
		b := []byte(sv)
		b[i] = 'x'
		_, ok := s.CheckSecureValue(string(b))
		assert.False(t, ok, "tampered at %d: %s", i, b)
	}
}

func TestSecureValue_TamperedMAC(t *testing.T) {
	s := newTestSigner(t)
	sv := s.MakeSecureValue("7")

	_, ok := s.CheckSecureValue(sv[:len(sv)-1])
	assert.False(t, ok)

	_, ok = s.CheckSecureValue(sv + "0")
	assert.False(t, ok)

	_, ok = s.CheckSecureValue("7")
	assert.False(t, ok)
}

func TestSecureValue_DifferentSecret(t *testing.T) {
	a := newTestSigner(t)
	b, err := NewSigner("another-secret-key-9876543210")
	require.NoError(t, err)

	_, ok := b.CheckSecureValue(a.MakeSecureValue("1"))
	assert.False(t, ok)
}

func TestSecureValue_DelimiterInValue(t *testing.T) {
	s := newTestSigner(t)
	// Splitting on the first "|" recovers only "a", so the round trip fails.
	_, ok := s.CheckSecureValue(s.MakeSecureValue("a|b"))
	assert.False(t, ok)
}

package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1 := DeriveKey([]byte("password"), salt)
	k2 := DeriveKey([]byte("password"), salt)
	k3 := DeriveKey([]byte("other"), salt)

	require.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("password"), []byte("salt-salt-salt-s"))
	plaintext := []byte(`{"email":"a@b.c","secret":"tok"}`)

	ciphertext, nonce, err := Seal(plaintext, key)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	got, err := Open(ciphertext, nonce, key)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestOpen_WrongKey(t *testing.T) {
	key := DeriveKey([]byte("password"), []byte("salt-salt-salt-s"))
	ciphertext, nonce, err := Seal([]byte("data"), key)
	require.NoError(t, err)

	bad := DeriveKey([]byte("nope"), []byte("salt-salt-salt-s"))
	_, err = Open(ciphertext, nonce, bad)
	assert.Error(t, err)
}

func TestSeal_BadKeyLength(t *testing.T) {
	_, _, err := Seal([]byte("data"), []byte("short"))
	assert.Error(t, err)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	encrypted, err := Encrypt([]byte("page-access-token"), testKey)
	require.NoError(t, err)
	assert.NotEqual(t, "page-access-token", encrypted)

	decrypted, err := Decrypt(encrypted, testKey)
	require.NoError(t, err)
	assert.Equal(t, "page-access-token", decrypted)
}

func TestEncryptUniqueNonce(t *testing.T) {
	a, err := Encrypt([]byte("same"), testKey)
	require.NoError(t, err)
	b, err := Encrypt([]byte("same"), testKey)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecryptWrongKey(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), testKey)
	require.NoError(t, err)

	otherKey := []byte("ffffffffffffffffffffffffffffffff")
	_, err = Decrypt(encrypted, otherKey)
	require.Error(t, err)
}

func TestDecryptMalformedInput(t *testing.T) {
	_, err := Decrypt("not base64!!", testKey)
	require.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", testKey)
	require.Error(t, err)
}

func TestEncryptBadKeySize(t *testing.T) {
	_, err := Encrypt([]byte("data"), []byte("short-key"))
	require.Error(t, err)
}

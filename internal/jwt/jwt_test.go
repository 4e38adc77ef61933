package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndValidate(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privateKey = key
	publicKey = &key.PublicKey

	signed, err := Sign(42)
	require.NoError(t, err)

	id, err := ValidUserID(signed)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ValidUserID(signed + "tampered")
	assert.Error(t, err)
}

package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHashVerify(t *testing.T) {
	token, err := Generate()
	require.NoError(t, err)
	assert.Len(t, token, 43)

	other, err := Generate()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	hash, err := Hash(token)
	require.NoError(t, err)
	assert.NotEqual(t, token, hash)

	assert.NoError(t, Verify(token, hash))
	assert.ErrorIs(t, Verify(other, hash), ErrMismatch)
}

func TestHashRejectsEmpty(t *testing.T) {
	_, err := Hash("")
	assert.Error(t, err)
}

func TestVerifyMalformedHash(t *testing.T) {
	err := Verify("token", "not-a-bcrypt-hash")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}

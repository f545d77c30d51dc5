package secret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox_RoundTrip(t *testing.T) {
	b := New("correct horse battery staple")
	require.True(t, b.Enabled())

	sealed, err := b.Seal("jwt-token")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, prefix))
	assert.NotContains(t, sealed, "jwt-token")

	again, err := b.Seal("jwt-token")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "fresh nonce per seal")

	plain, err := b.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", plain)
}

func TestBox_PlaintextPassthrough(t *testing.T) {
	b := New("")
	assert.False(t, b.Enabled())

	sealed, err := b.Seal("token")
	require.NoError(t, err)
	assert.Equal(t, "token", sealed)

	keyed := New("k")
	plain, err := keyed.Open("legacy-plaintext")
	require.NoError(t, err)
	assert.Equal(t, "legacy-plaintext", plain)
}

func TestBox_WrongKeyAndCorruption(t *testing.T) {
	sealed, err := New("a").Seal("value")
	require.NoError(t, err)

	_, err = New("b").Open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = New("").Open(sealed)
	assert.ErrorIs(t, err, ErrDecrypt)

	_, err = New("a").Open(prefix + "!!!")
	assert.ErrorIs(t, err, ErrDecrypt)
}

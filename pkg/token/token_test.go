package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	raw, digest, err := New()
	require.NoError(t, err)
	require.Len(t, raw, 43)
	require.Len(t, digest, 64)
	require.Equal(t, digest, Digest(raw))

	other, _, err := New()
	require.NoError(t, err)
	require.NotEqual(t, raw, other)
}

func TestDigestIsStable(t *testing.T) {
	require.Equal(t, Digest("abc"), Digest("abc"))
	require.NotEqual(t, Digest("abc"), Digest("abd"))
}

package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashCompare(t *testing.T) {
	h, err := Hash("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", h)

	require.NoError(t, Compare(h, "correct horse"))
	require.ErrorIs(t, Compare(h, "battery staple"), ErrMismatch)
}

func TestCompareMalformedHash(t *testing.T) {
	err := Compare("not-a-hash", "whatever")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMismatch)
}

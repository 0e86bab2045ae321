package blob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomStorageKey(t *testing.T) {
	k1 := RandomStorageKey("g1")
	k2 := RandomStorageKey("g1")

	require.True(t, strings.HasPrefix(k1, "groups/g1/"))
	require.NotEqual(t, k1, k2)
}

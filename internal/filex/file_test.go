package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureSubDir(t *testing.T) {
	tmp := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	dir, err := EnsureSubDir("downloads")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
	require.Equal(t, "downloads", filepath.Base(dir))

	// Second call must be a no-op.
	again, err := EnsureSubDir("downloads")
	require.NoError(t, err)
	require.Equal(t, dir, again)
}

func TestMimeCategory(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"photo.JPG", "image"},
		{"clip.mp4", "video"},
		{"song.flac", "audio"},
		{"report.pdf", "document"},
		{"archive.zip", "other"},
		{"noext", "other"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, MimeCategory(tc.name), tc.name)
	}
}

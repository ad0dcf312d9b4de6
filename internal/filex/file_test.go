package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureSubDir(t *testing.T) {
	tmp := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(old) })

	got, err := EnsureSubDir("data")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "data"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	// Second call is a no-op.
	again, err := EnsureSubDir("data")
	require.NoError(t, err)
	require.Equal(t, got, again)
}

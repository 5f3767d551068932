package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestEnsureSubdDir(t *testing.T) {
	tmp := t.TempDir()
	chdir(t, tmp)

	first, err := EnsureSubdDir("exports")
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "exports"))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(first)
	require.NoError(t, err)
	require.Equal(t, want, got)

	second, err := EnsureSubdDir("exports")
	require.NoError(t, err)
	require.Equal(t, first, second)

	fi, err := os.Stat(first)
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubdDir_FileInTheWay(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.WriteFile("exports", []byte("x"), 0o600))

	_, err := EnsureSubdDir("exports")
	require.Error(t, err)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, WriteFileAtomic(path, []byte("id,url\n"), 0o640))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "id,url\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "x.csv"), []byte("x"), 0o600)
	require.Error(t, err)
}

package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFileExist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.toml")
	require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0o644))

	exist, err := CheckFileExist(path)
	require.NoError(t, err)
	assert.True(t, exist)

	exist, err = CheckFileExist(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.False(t, exist)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.toml")

	require.NoError(t, WriteFile(path, []byte("[a]\n")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[a]\n", string(got))

	require.NoError(t, WriteFile(path, []byte("[b]\n")))
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[b]\n", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

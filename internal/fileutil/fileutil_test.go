package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejectSymlink(t *testing.T) {
	dir := t.TempDir()

	regular := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(regular, []byte("{}"), OwnerReadWrite))
	assert.NoError(t, RejectSymlink(regular))

	assert.NoError(t, RejectSymlink(filepath.Join(dir, "new.json")))

	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.Symlink(regular, link))
	err := RejectSymlink(link)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symlink")
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "..", "out.json")

	require.NoError(t, WriteOutput(path, []byte(`{"a":1}`)))
	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	info, err := os.Stat(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	assert.Equal(t, OwnerReadWrite, info.Mode().Perm())

	link := filepath.Join(dir, "link.json")
	require.NoError(t, os.Symlink(filepath.Join(dir, "out.json"), link))
	assert.Error(t, WriteOutput(link, []byte("x")))
}

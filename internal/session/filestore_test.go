// ABOUTME: Tests for session file persistence

package session

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	rec, err := NewFileStore(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFileStore_SaveCreatesDirWithPrivateMode(t *testing.T) {
	fs := NewFileStore(t.TempDir() + "/nested/storefront")
	require.NoError(t, fs.Save(Record{Token: "tok", Identity: &alice}))

	info, err := os.Stat(fs.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	rec, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", rec.Token)
}

func TestFileStore_ClearMissingIsNoError(t *testing.T) {
	assert.NoError(t, NewFileStore(t.TempDir()).Clear())
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)
	require.NoError(t, fs.Save(Record{Token: "a", Identity: &alice}))
	require.NoError(t, fs.Save(Record{Token: "b", Identity: &alice}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileName, entries[0].Name())
}

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEntries(t *testing.T) {
	fs := NewMem()
	require.NoError(t, fs.WriteFile("/GAMES/snack_attack.nib", make([]byte, 232960)))
	require.NoError(t, fs.WriteFile("/dos33.nib", make([]byte, 2048)))
	require.NoError(t, fs.Mkdir("/UTILS"))

	entries, err := fs.ListEntries("/")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byName := map[string]DirEntry{}
	for _, e := range entries {
		byName[e.Name] = e
	}
	assert.True(t, byName["GAMES"].IsDir)
	assert.True(t, byName["UTILS"].IsDir)
	assert.False(t, byName["dos33.nib"].IsDir)
	assert.Equal(t, uint64(2048), byName["dos33.nib"].Size)
	assert.Zero(t, byName["GAMES"].Size)
}

func TestListEntriesMissingDir(t *testing.T) {
	_, err := NewMem().ListEntries("/nope")
	assert.Error(t, err)
}

func TestOpenForRead(t *testing.T) {
	fs := NewMem()
	data := []byte("0123456789")
	require.NoError(t, fs.WriteFile("/a.nib", data))

	f, err := fs.OpenForRead("a.nib")
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3456", string(buf))
}

func TestOpenForReadRejectsDirectory(t *testing.T) {
	fs := NewMem()
	require.NoError(t, fs.Mkdir("/GAMES"))

	_, err := fs.OpenForRead("/GAMES")
	assert.Error(t, err)
}

func TestOpenForReadMissing(t *testing.T) {
	_, err := NewMem().OpenForRead("/missing.nib")
	assert.Error(t, err)
}

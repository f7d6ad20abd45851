package board

import (
	"testing"

	"disk2/browser"
	"disk2/config"
	"disk2/core"
	"disk2/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nullBus accepts every transfer; these tests only look at browser state
type nullBus struct{}

func (nullBus) Tx(w, r []byte) error          { return nil }
func (nullBus) Transfer(b byte) (byte, error) { return 0, nil }

func newMemBoard(t *testing.T, cfg *config.Config, files ...string) *Board {
	t.Helper()
	fs := storage.NewMem()
	for _, f := range files {
		require.NoError(t, fs.WriteFile(f, []byte{0}))
	}
	b, err := New(cfg, nullBus{}, core.NewMemoryGPIO(), fs)
	require.NoError(t, err)
	return b
}

func names(s browser.State) []string {
	var out []string
	for _, e := range s.Entries {
		out = append(out, e.Name)
	}
	return out
}

func TestDefaultConfigListsEveryFile(t *testing.T) {
	b := newMemBoard(t, config.Default(), "/a.nib", "/b.dsk", "/c.po", "/d.Nib")
	assert.Equal(t, []string{"a.nib", "b.dsk", "c.po", "d.Nib"}, names(b.Browser.State()))
}

func TestConfiguredFilter(t *testing.T) {
	cfg := config.Default()
	cfg.Filter = []string{"*.nib", "*.po"}
	b := newMemBoard(t, cfg, "/a.nib", "/b.dsk", "/c.po")
	assert.Equal(t, []string{"a.nib", "c.po"}, names(b.Browser.State()))
}

func TestBadFilterRejected(t *testing.T) {
	cfg := config.Default()
	cfg.Filter = []string{"[a-"}
	_, err := New(cfg, nullBus{}, core.NewMemoryGPIO(), storage.NewMem())
	assert.Error(t, err)
}

func TestInitialImage(t *testing.T) {
	cfg := config.Default()
	cfg.InitialImage = "/games/a.nib"
	b := newMemBoard(t, cfg, "/games/a.nib")

	path, _, ok := b.Tracks.Current()
	require.True(t, ok)
	assert.Equal(t, "/games/a.nib", path)
	assert.Equal(t, browser.NoSelection, b.Browser.State().Selected)

	require.NoError(t, b.Close())
	_, _, ok = b.Tracks.Current()
	assert.False(t, ok)
}

func TestMissingInitialImageLeavesDriveEmpty(t *testing.T) {
	b := newMemBoard(t, config.Default())
	_, _, ok := b.Tracks.Current()
	assert.False(t, ok)
}

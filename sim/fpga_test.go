package sim_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"disk2/board"
	"disk2/config"
	"disk2/dispatch"
	"disk2/protocol"
	"disk2/sim"
	"disk2/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectPin = 25

// image returns a 35 track image whose every byte encodes its track
func image() []byte {
	img := make([]byte, 35*protocol.TrackLen)
	for i := range img {
		img[i] = byte(i / protocol.TrackLen)
	}
	return img
}

type rig struct {
	fpga  *sim.FPGA
	board *board.Board
	errs  []error
}

func newRig(t *testing.T) *rig {
	t.Helper()
	fs := storage.NewMem()
	require.NoError(t, fs.WriteFile("/apple2/snack_attack.nib", image()))
	require.NoError(t, fs.WriteFile("/apple2/choplifter.nib", image()[:protocol.TrackLen]))
	require.NoError(t, fs.Mkdir("/apple2/GAMES"))
	require.NoError(t, fs.WriteFile("/readme.txt", []byte("hi")))

	cfg := config.Default()
	cfg.LEDPin = selectPin

	r := &rig{fpga: sim.NewFPGA(selectPin)}
	b, err := board.New(cfg, r.fpga, r.fpga, fs)
	require.NoError(t, err)
	r.board = b
	require.NoError(t, b.Start())

	r.fpga.OnIRQ(func() {
		if err := b.Dispatcher.Handle(); err != nil {
			r.errs = append(r.errs, err)
		}
	})
	return r
}

// press holds the OSD button together with btn, then releases btn
func (r *rig) press(btn uint8) {
	r.fpga.SetButtons(protocol.BtnOSD | btn)
	r.fpga.SetButtons(protocol.BtnOSD)
}

func TestTrackRequest(t *testing.T) {
	r := newRig(t)

	r.fpga.RequestTrack(5)
	require.Empty(t, r.errs)

	s := r.fpga.Snapshot()
	assert.Equal(t, uint32(1), s.TracksTaken)
	assert.Equal(t, protocol.TrackLen, s.TrackLen)
	assert.Equal(t, bytes.Repeat([]byte{5}, protocol.TrackLen), r.fpga.TrackData())
	assert.False(t, r.fpga.Pending())
}

func TestTrackPastEndIsZeroFilled(t *testing.T) {
	r := newRig(t)

	r.fpga.RequestTrack(40)
	require.Empty(t, r.errs)
	assert.Equal(t, make([]byte, protocol.TrackLen), r.fpga.TrackData())
}

func TestTrackAndButtonInOneDispatch(t *testing.T) {
	r := newRig(t)
	r.fpga.OnIRQ(nil)

	// Both events latched before the MCU gets to look: status reads 0xC5
	r.fpga.RequestTrack(5)
	r.fpga.SetButtons(protocol.BtnOSD)
	before := r.board.Dispatcher.Stats()

	require.NoError(t, r.board.Dispatcher.Handle())

	after := r.board.Dispatcher.Stats()
	assert.Equal(t, before.Dispatches+1, after.Dispatches)
	assert.Equal(t, before.Tracks+1, after.Tracks)
	assert.Equal(t, before.Buttons+1, after.Buttons)

	s := r.fpga.Snapshot()
	assert.True(t, s.OSDEnabled)
	assert.Equal(t, uint8(5), s.Track)
	assert.False(t, r.fpga.Pending())
}

func TestStartupScreen(t *testing.T) {
	r := newRig(t)
	lines := r.fpga.Lines()

	// Root holds the apple2 directory and readme.txt
	assert.Equal(t, ">apple2", strings.TrimRight(lines[0][:58], " "))
	assert.Equal(t, "D", lines[0][63:])
	assert.True(t, strings.HasPrefix(lines[1], " readme.txt "))
	assert.Equal(t, "   2 ", lines[1][59:])
	for _, l := range lines[2:] {
		assert.Equal(t, strings.Repeat(" ", protocol.OSDCols), l)
	}
	assert.False(t, r.fpga.Snapshot().OSDEnabled)
}

func TestBrowseAndMount(t *testing.T) {
	r := newRig(t)

	r.press(protocol.BtnRight) // into /apple2
	require.Empty(t, r.errs)
	lines := r.fpga.Lines()
	assert.True(t, strings.HasPrefix(lines[0], ">GAMES "))
	assert.True(t, strings.HasPrefix(lines[1], " choplifter.nib "))
	assert.Equal(t, "   6K", lines[1][59:])
	assert.True(t, strings.HasPrefix(lines[2], " snack_attack.nib "))
	assert.Equal(t, " 227K", lines[2][59:])

	r.press(protocol.BtnDown)
	r.press(protocol.BtnRight) // mount choplifter
	require.Empty(t, r.errs)

	lines = r.fpga.Lines()
	assert.True(t, strings.HasPrefix(lines[1], "*choplifter.nib "))
	path, _, ok := r.board.Tracks.Current()
	require.True(t, ok)
	assert.Equal(t, "/apple2/choplifter.nib", path)

	r.fpga.RequestTrack(1)
	assert.Equal(t, make([]byte, protocol.TrackLen), r.fpga.TrackData(), "choplifter has one track")

	r.press(protocol.BtnLeft)
	assert.True(t, strings.HasPrefix(r.fpga.Lines()[0], ">apple2 "))
	assert.True(t, r.fpga.Snapshot().OSDEnabled)

	r.fpga.SetButtons(0)
	assert.False(t, r.fpga.Snapshot().OSDEnabled)
}

func TestRefreshPicksUpNewFiles(t *testing.T) {
	r := newRig(t)
	require.NoError(t, r.board.FS.WriteFile("/zork.nib", image()[:10]))

	r.press(protocol.BtnRefresh)
	require.Empty(t, r.errs)
	assert.True(t, strings.HasPrefix(r.fpga.Lines()[2], " zork.nib "))
}

func TestTransportFault(t *testing.T) {
	r := newRig(t)
	boom := errors.New("miso stuck")
	r.fpga.InjectFault(boom)

	r.fpga.RequestTrack(3)
	require.Len(t, r.errs, 1)
	assert.ErrorIs(t, r.errs[0], protocol.ErrTransport)
	assert.ErrorIs(t, r.errs[0], boom)
	assert.Equal(t, uint32(1), r.board.Dispatcher.Stats().Faults)

	// The request is still latched; the next edge serves it
	assert.True(t, r.fpga.Pending())
	r.errs = nil
	r.fpga.RequestTrack(3)
	assert.Empty(t, r.errs)
	assert.Equal(t, bytes.Repeat([]byte{3}, protocol.TrackLen), r.fpga.TrackData())
}

func TestTransferWithoutSelect(t *testing.T) {
	f := sim.NewFPGA(selectPin)
	var rx [protocol.FrameLen]byte
	assert.Error(t, f.Tx(protocol.ReadTrackIRQQuery[:], rx[:]))

	require.NoError(t, f.SetPin(selectPin, true))
	f.RequestTrack(7)
	require.NoError(t, f.Tx(protocol.ReadTrackIRQQuery[:], rx[:]))
	require.NoError(t, f.SetPin(selectPin, false))
	assert.Equal(t, byte(protocol.StatusTrackChange|7), rx[protocol.StatusByte])
}

func TestDeferredRun(t *testing.T) {
	r := newRig(t)
	d := r.board.Dispatcher
	r.fpga.OnIRQ(d.Trigger)

	r.fpga.RequestTrack(9)
	r.fpga.RequestTrack(9)
	assert.Equal(t, uint32(1), d.Stats().Coalesced)

	// Handle stands in for one Run iteration
	require.NoError(t, d.Handle())
	assert.Equal(t, bytes.Repeat([]byte{9}, protocol.TrackLen), r.fpga.TrackData())
	assert.NotErrorIs(t, d.Handle(), dispatch.ErrBusy)
}

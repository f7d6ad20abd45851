// Package disk serves fixed-size tracks out of the currently selected
// disk image.
package disk

import (
	"errors"
	"fmt"
	"io"

	"disk2/protocol"
	"disk2/storage"
)

// TrackLen is the size of one track in bytes
const TrackLen = protocol.TrackLen

// MaxTrack is the highest track number the status frame can carry
const MaxTrack = protocol.StatusTrackMask

// ErrNoImage is returned by LoadTrack when no image is open.
// Nothing must be written to the FPGA in that case.
var ErrNoImage = errors.New("no disk image selected")

// Opener opens image files read-only
type Opener interface {
	OpenForRead(name string) (storage.ImageFile, error)
}

// TrackStore owns the open image handle and the reused track buffer
type TrackStore struct {
	fs Opener

	file storage.ImageFile
	path string
	size int64

	buf [TrackLen]byte
}

// NewTrackStore creates a store with no image selected
func NewTrackStore(fs Opener) *TrackStore {
	return &TrackStore{fs: fs}
}

// SelectImage closes the current image and opens path read-only.
// On failure no image remains open.
func (s *TrackStore) SelectImage(path string) error {
	// The old handle is dropped even if Close reports an error
	_ = s.Close()

	f, err := s.fs.OpenForRead(path)
	if err != nil {
		return fmt.Errorf("select image %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("select image %s: %w", path, err)
	}
	s.file = f
	s.path = path
	s.size = info.Size()
	return nil
}

// Close releases the current image, if any
func (s *TrackStore) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.path = ""
	s.size = 0
	return err
}

// Current returns the path and size of the open image
func (s *TrackStore) Current() (path string, size int64, ok bool) {
	return s.path, s.size, s.file != nil
}

// LoadTrack reads track into the track buffer and returns it.
// The buffer is reused: it is only valid until the next call.
// Bytes past the end of the image read as zero.
func (s *TrackStore) LoadTrack(track uint8) ([]byte, error) {
	if s.file == nil {
		return nil, ErrNoImage
	}

	track &= MaxTrack
	off := int64(track) * TrackLen

	n := 0
	if off < s.size {
		var err error
		n, err = s.file.ReadAt(s.buf[:], off)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read track %d: %w", track, err)
		}
	}
	for i := n; i < TrackLen; i++ {
		s.buf[i] = 0
	}
	return s.buf[:], nil
}

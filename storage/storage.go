// Package storage is the filesystem collaborator: directory listings and
// read-only image handles, backed by afero.
package storage

import (
	"errors"
	"io"
	"os"
	"path"

	"github.com/spf13/afero"
)

var errIsDir = errors.New("is a directory")

// DirEntry is one line of a directory listing
type DirEntry struct {
	Name  string
	IsDir bool
	Size  uint64 // Meaningful only when !IsDir
}

// ImageFile is an open, read-only disk image
type ImageFile interface {
	io.ReaderAt
	io.Closer
	Stat() (os.FileInfo, error)
}

// FS lists directories and opens images. Paths are slash separated and
// rooted at "/".
type FS struct {
	fs afero.Fs
}

// New wraps an existing afero filesystem
func New(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

// NewOS exposes the host directory root as "/" (e.g. the SD card mount point)
func NewOS(root string) *FS {
	return New(afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), root)))
}

// NewMem creates an empty in-memory filesystem (tests, simulator fixtures)
func NewMem() *FS {
	return New(afero.NewMemMapFs())
}

// Afero exposes the underlying filesystem
func (f *FS) Afero() afero.Fs {
	return f.fs
}

// ListEntries returns the entries of dir in the order the filesystem reports them
func (f *FS) ListEntries(dir string) ([]DirEntry, error) {
	infos, err := afero.ReadDir(f.fs, clean(dir))
	if err != nil {
		return nil, err
	}

	entries := make([]DirEntry, 0, len(infos))
	for _, info := range infos {
		e := DirEntry{Name: info.Name(), IsDir: info.IsDir()}
		if !e.IsDir && info.Size() > 0 {
			e.Size = uint64(info.Size())
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// OpenForRead opens a file read-only
func (f *FS) OpenForRead(name string) (ImageFile, error) {
	file, err := f.fs.OpenFile(clean(name), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, &os.PathError{Op: "open", Path: name, Err: errIsDir}
	}
	return file, nil
}

// WriteFile creates or replaces a file (fixtures and the simulator)
func (f *FS) WriteFile(name string, data []byte) error {
	name = clean(name)
	if err := f.fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(f.fs, name, data, 0o644)
}

// Mkdir creates a directory and its parents
func (f *FS) Mkdir(dir string) error {
	return f.fs.MkdirAll(clean(dir), 0o755)
}

func clean(p string) string {
	return path.Clean("/" + p)
}

// Package blockfs mounts a go-billy filesystem, in memory or rooted in a host
// directory, as a namespace backend.
package blockfs

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/Cyclone1070/nsh/internal/vfs"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// Options configures a block mount.
type Options struct {
	// Root is a host directory to serve. Empty selects an in-memory filesystem.
	Root string `mapstructure:"root"`
	// Perm is the mode for newly created files.
	Perm uint32 `mapstructure:"perm"`
}

// DefaultOptions returns an in-memory configuration.
func DefaultOptions() Options {
	return Options{Perm: 0o644}
}

// FS is a block backend.
type FS struct {
	fs   billy.Filesystem
	perm os.FileMode
}

// New wraps an existing billy filesystem.
func New(fs billy.Filesystem, perm os.FileMode) *FS {
	if fs == nil {
		panic("filesystem is required")
	}
	return &FS{fs: fs, perm: perm}
}

// Open builds a backend from options.
func Open(opts Options) *FS {
	if opts.Root == "" {
		return New(memfs.New(), os.FileMode(opts.Perm))
	}
	return New(osfs.New(opts.Root), os.FileMode(opts.Perm))
}

// Open implements vfs.Backend.
func (b *FS) Open(_ context.Context, path string, flags vfs.Flags) (vfs.Session, error) {
	f, err := b.fs.OpenFile(name(path), osFlags(flags), b.perm)
	if err != nil {
		return nil, err
	}
	return &session{file: f, sync: flags.Has(vfs.FlagSync)}, nil
}

// List implements vfs.Lister.
func (b *FS) List(_ context.Context, dir string) ([]vfs.DirEntry, error) {
	infos, err := b.fs.ReadDir(name(dir))
	if err != nil {
		if name(dir) == "/" && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	entries := make([]vfs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, vfs.DirEntry{
			Name:  info.Name(),
			IsDir: info.IsDir(),
			Size:  info.Size(),
		})
	}
	return entries, nil
}

// MkdirAll creates a directory and its parents.
func (b *FS) MkdirAll(dir string) error {
	return b.fs.MkdirAll(name(dir), 0o755)
}

// name roots path so memfs keys and chroot joins agree.
func name(path string) string {
	return "/" + strings.Trim(path, "/")
}

func osFlags(flags vfs.Flags) int {
	var flag int
	switch {
	case flags.Readable() && flags.Writable():
		flag = os.O_RDWR
	case flags.Writable():
		flag = os.O_WRONLY
	default:
		flag = os.O_RDONLY
	}
	if flags.Has(vfs.FlagAppend) {
		flag |= os.O_APPEND
	}
	if flags.Has(vfs.FlagCreate) {
		flag |= os.O_CREATE
	}
	if flags.Has(vfs.FlagExclusive) {
		flag |= os.O_EXCL
	}
	if flags.Has(vfs.FlagTruncate) {
		flag |= os.O_TRUNC
	}
	return flag
}

type syncer interface {
	Sync() error
}

type session struct {
	file billy.File
	sync bool
}

func (s *session) Read(p []byte) (int, error) {
	return s.file.Read(p)
}

func (s *session) Write(p []byte) (int, error) {
	n, err := s.file.Write(p)
	if err != nil || !s.sync {
		return n, err
	}
	if f, ok := s.file.(syncer); ok {
		if err := f.Sync(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (s *session) Seek(offset int64, whence int) (int64, error) {
	return s.file.Seek(offset, whence)
}

func (s *session) Tell() (int64, error) {
	return s.file.Seek(0, io.SeekCurrent)
}

func (s *session) Close() error {
	return s.file.Close()
}

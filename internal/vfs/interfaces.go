package vfs

import (
	"context"
	"io"
)

// Kind names a backing filesystem implementation.
type Kind string

const (
	KindBlock Kind = "block"
	KindLog   Kind = "log"
)

// Backend is a mounted filesystem. Paths passed to Open are relative to the
// mount point and carry no leading slash. Existence and permission errors are
// returned unchanged to the caller of Table.Open.
type Backend interface {
	Open(ctx context.Context, path string, flags Flags) (Session, error)
}

// Session is one open file inside a backend.
type Session interface {
	io.Reader
	io.Writer
	Seek(offset int64, whence int) (int64, error)
	Tell() (int64, error)
	Close() error
}

// LineReader is implemented by sessions that read lines natively.
type LineReader interface {
	ReadLine(dst []byte) (int, error)
}

// Lister is implemented by backends that can enumerate a directory.
type Lister interface {
	List(ctx context.Context, dir string) ([]DirEntry, error)
}

// DirEntry describes one name inside a directory.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

package mocks

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Cyclone1070/nsh/internal/vfs"
)

// OpenCall records one Open request.
type OpenCall struct {
	Path  string
	Flags vfs.Flags
}

// MockBackend implements vfs.Backend and vfs.Lister with in-memory storage.
// Paths are mount-relative without a leading slash, as the table passes them.
type MockBackend struct {
	Mu       sync.Mutex
	Files    map[string][]byte // path -> content
	Errors   map[string]error  // path -> error returned by Open
	OpErrors map[string]error  // operation -> error to return
	Opens    []OpenCall
}

// NewMockBackend creates an empty mock backend
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Files:    make(map[string][]byte),
		Errors:   make(map[string]error),
		OpErrors: make(map[string]error),
	}
}

// CreateFile stores a file with content
func (b *MockBackend) CreateFile(p string, content string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.Files[p] = []byte(content)
}

// Content returns the stored content of p.
func (b *MockBackend) Content(p string) (string, bool) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	data, ok := b.Files[p]
	return string(data), ok
}

// SetError sets an error for Open of a specific path
func (b *MockBackend) SetError(p string, err error) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.Errors[p] = err
}

// SetOperationError sets an error to return for a specific operation:
// Open, List, Read, Write, Seek or Close.
func (b *MockBackend) SetOperationError(operation string, err error) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	b.OpErrors[operation] = err
}

func (b *MockBackend) Open(_ context.Context, p string, flags vfs.Flags) (vfs.Session, error) {
	b.Mu.Lock()
	defer b.Mu.Unlock()

	b.Opens = append(b.Opens, OpenCall{Path: p, Flags: flags})
	if err, ok := b.OpErrors["Open"]; ok {
		return nil, err
	}
	if err, ok := b.Errors[p]; ok {
		return nil, err
	}

	_, exists := b.Files[p]
	switch {
	case !exists && !flags.Has(vfs.FlagCreate):
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	case exists && flags.Has(vfs.FlagExclusive):
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrExist}
	case !exists || flags.Has(vfs.FlagTruncate):
		b.Files[p] = nil
	}

	s := &MockSession{backend: b, path: p, flags: flags}
	if flags.Has(vfs.FlagAppend) {
		s.offset = int64(len(b.Files[p]))
	}
	return s, nil
}

// List returns the direct children of dir. Nested files imply directories.
func (b *MockBackend) List(_ context.Context, dir string) ([]vfs.DirEntry, error) {
	b.Mu.Lock()
	defer b.Mu.Unlock()

	if err, ok := b.OpErrors["List"]; ok {
		return nil, err
	}
	prefix := strings.TrimSuffix(path.Clean("/"+dir), "/") + "/"
	seen := make(map[string]int)
	var entries []vfs.DirEntry
	for p, data := range b.Files {
		rest, ok := strings.CutPrefix(path.Clean("/"+p), prefix)
		if !ok || rest == "" {
			continue
		}
		name, _, nested := strings.Cut(rest, "/")
		if i, ok := seen[name]; ok {
			entries[i].IsDir = entries[i].IsDir || nested
			continue
		}
		seen[name] = len(entries)
		e := vfs.DirEntry{Name: name, IsDir: nested}
		if !nested {
			e.Size = int64(len(data))
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b vfs.DirEntry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

// MockSession is an open file of a MockBackend.
type MockSession struct {
	backend *MockBackend
	path    string
	flags   vfs.Flags
	offset  int64
	Closed  bool
}

func (s *MockSession) opError(operation string) error {
	if err, ok := s.backend.OpErrors[operation]; ok {
		return err
	}
	if s.Closed {
		return fmt.Errorf("%s: file is closed", operation)
	}
	return nil
}

func (s *MockSession) Read(p []byte) (int, error) {
	s.backend.Mu.Lock()
	defer s.backend.Mu.Unlock()

	if err := s.opError("Read"); err != nil {
		return 0, err
	}
	data := s.backend.Files[s.path]
	if s.offset >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[s.offset:])
	s.offset += int64(n)
	return n, nil
}

func (s *MockSession) Write(p []byte) (int, error) {
	s.backend.Mu.Lock()
	defer s.backend.Mu.Unlock()

	if err := s.opError("Write"); err != nil {
		return 0, err
	}
	data := s.backend.Files[s.path]
	if s.flags.Has(vfs.FlagAppend) {
		s.offset = int64(len(data))
	}
	if end := s.offset + int64(len(p)); end > int64(len(data)) {
		data = append(data, make([]byte, end-int64(len(data)))...)
	}
	copy(data[s.offset:], p)
	s.backend.Files[s.path] = data
	s.offset += int64(len(p))
	return len(p), nil
}

func (s *MockSession) Seek(offset int64, whence int) (int64, error) {
	s.backend.Mu.Lock()
	defer s.backend.Mu.Unlock()

	if err := s.opError("Seek"); err != nil {
		return 0, err
	}
	var base int64
	switch whence {
	case io.SeekCurrent:
		base = s.offset
	case io.SeekEnd:
		base = int64(len(s.backend.Files[s.path]))
	}
	if base+offset < 0 {
		return 0, fmt.Errorf("seek: negative position")
	}
	s.offset = base + offset
	return s.offset, nil
}

func (s *MockSession) Tell() (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}

func (s *MockSession) Close() error {
	s.backend.Mu.Lock()
	defer s.backend.Mu.Unlock()

	if err := s.opError("Close"); err != nil {
		return err
	}
	s.Closed = true
	return nil
}

// Package vfs routes path based file operations to the backing filesystem
// mounted at the longest matching prefix.
package vfs

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Cyclone1070/nsh/internal/pathutil"
)

// Mount binds a backend to an absolute path prefix.
type Mount struct {
	name    string
	kind    Kind
	backend Backend
	next    *Mount
}

func (m *Mount) Name() string     { return m.name }
func (m *Mount) Kind() Kind       { return m.kind }
func (m *Mount) Backend() Backend { return m.backend }

// Table is the set of mounted filesystems.
type Table struct {
	mu     sync.RWMutex
	head   *Mount
	logger *slog.Logger
}

// NewTable creates an empty mount table. A nil logger discards output.
func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Table{logger: logger}
}

// Mount attaches backend at name, which must be an absolute path.
func (t *Table) Mount(name string, kind Kind, backend Backend) error {
	if backend == nil {
		panic("backend is required")
	}
	if err := pathutil.Validate(name); err != nil {
		return err
	}
	if !pathutil.IsAbs(name) {
		return &pathutil.MalformedPathError{Path: name, Reason: "mount point must be absolute"}
	}
	name = pathutil.Clean(name)

	t.mu.Lock()
	defer t.mu.Unlock()
	for m := t.head; m != nil; m = m.next {
		if m.name == name {
			return &AlreadyMountedError{Name: name}
		}
	}
	t.head = &Mount{name: name, kind: kind, backend: backend, next: t.head}
	t.logger.Info("mounted filesystem", "name", name, "kind", kind)
	return nil
}

// Unmount detaches the mount called name.
func (t *Table) Unmount(name string) error {
	name = pathutil.Clean(name)

	t.mu.Lock()
	defer t.mu.Unlock()
	for p := &t.head; *p != nil; p = &(*p).next {
		if (*p).name == name {
			*p = (*p).next
			t.logger.Info("unmounted filesystem", "name", name)
			return nil
		}
	}
	return ErrNotFound
}

// Mounts returns the mounts in the order they were attached.
func (t *Table) Mounts() []*Mount {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []*Mount
	for m := t.head; m != nil; m = m.next {
		out = append(out, m)
	}
	slices.Reverse(out)
	return out
}

// Resolve finds the mount whose name is the longest whole-segment prefix of
// path and returns it with the remainder of path, which has no leading slash.
func (t *Table) Resolve(path string) (*Mount, string, error) {
	if err := pathutil.Validate(path); err != nil {
		return nil, "", &NoSuchMountError{Path: path, Cause: err}
	}
	if !pathutil.IsAbs(path) {
		return nil, "", &NoSuchMountError{Path: path}
	}
	path = pathutil.Clean(path)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var (
		best *Mount
		rest string
	)
	for m := t.head; m != nil; m = m.next {
		r, ok := pathutil.TrimPrefix(path, m.name)
		if !ok {
			continue
		}
		if best == nil || len(m.name) > len(best.name) {
			best, rest = m, r
		}
	}
	if best == nil {
		return nil, "", &NoSuchMountError{Path: path}
	}
	return best, rest, nil
}

// Open validates flags, resolves path against the current directory in ctx
// and opens it on the owning backend.
func (t *Table) Open(ctx context.Context, path string, flags Flags) (*File, error) {
	if err := flags.Validate(); err != nil {
		return nil, err
	}
	abs, err := pathutil.Resolve(pathutil.Cwd(ctx), path)
	if err != nil {
		return nil, &NoSuchMountError{Path: path, Cause: err}
	}
	m, rest, err := t.Resolve(abs)
	if err != nil {
		return nil, err
	}

	session, err := m.backend.Open(ctx, rest, flags)
	if err != nil {
		return nil, err
	}
	t.logger.Debug("opened file", "path", abs, "mount", m.name, "flags", flags)
	return &File{mount: m, session: session, path: abs, flags: flags}, nil
}

// List enumerates dir. Entries come from the owning backend when it is a
// Lister, plus any mount points directly beneath dir.
func (t *Table) List(ctx context.Context, dir string) ([]DirEntry, error) {
	abs, err := pathutil.Resolve(pathutil.Cwd(ctx), dir)
	if err != nil {
		return nil, &NoSuchMountError{Path: dir, Cause: err}
	}

	var (
		entries []DirEntry
		found   bool
	)
	if m, rest, err := t.Resolve(abs); err == nil {
		found = true
		if lister, ok := m.backend.(Lister); ok {
			listed, err := lister.List(ctx, rest)
			if err != nil {
				return nil, err
			}
			entries = append(entries, listed...)
		}
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.Name] = true
	}
	for _, m := range t.Mounts() {
		rest, ok := pathutil.TrimPrefix(m.name, abs)
		if !ok || rest == "" {
			continue
		}
		found = true
		name, _, _ := strings.Cut(rest, "/")
		if !seen[name] {
			seen[name] = true
			entries = append(entries, DirEntry{Name: name, IsDir: true})
		}
	}

	if !found {
		return nil, &NoSuchMountError{Path: abs}
	}
	slices.SortFunc(entries, func(a, b DirEntry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

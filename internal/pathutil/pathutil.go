// Package pathutil normalizes slash separated namespace paths and carries the
// current directory through a context.
package pathutil

import (
	"context"
	"path"
	"strings"
)

// Root is the top of the namespace.
const Root = "/"

// Validate rejects paths the namespace cannot represent.
func Validate(p string) error {
	if p == "" {
		return &MalformedPathError{Path: p, Reason: "empty"}
	}
	if strings.IndexByte(p, 0) >= 0 {
		return &MalformedPathError{Path: p, Reason: "contains NUL"}
	}
	return nil
}

// IsAbs reports whether p starts at the root.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, "/")
}

// Clean returns the absolute form of p with "." segments dropped and ".."
// folded. ".." at the root stays at the root.
func Clean(p string) string {
	return path.Clean("/" + p)
}

// Resolve interprets p relative to cwd unless it is absolute.
func Resolve(cwd, p string) (string, error) {
	if err := Validate(p); err != nil {
		return "", err
	}
	if IsAbs(p) {
		return Clean(p), nil
	}
	if cwd == "" {
		cwd = Root
	}
	return Clean(cwd + "/" + p), nil
}

// Join appends name to a clean directory path.
func Join(dir, name string) string {
	return Clean(dir + "/" + name)
}

// TrimPrefix strips prefix from p when prefix covers whole segments of p.
// Both paths must be clean. The remainder has no leading slash and is empty
// when p equals prefix.
func TrimPrefix(p, prefix string) (string, bool) {
	switch {
	case prefix == Root:
		return strings.TrimPrefix(p, "/"), IsAbs(p)
	case p == prefix:
		return "", true
	case strings.HasPrefix(p, prefix) && p[len(prefix)] == '/':
		return p[len(prefix)+1:], true
	}
	return "", false
}

// Segments splits a clean path into its non-empty segments.
func Segments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

type cwdKey struct{}

// WithCwd returns a context carrying dir as the current directory.
func WithCwd(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, cwdKey{}, dir)
}

// Cwd returns the current directory carried by ctx, or Root.
func Cwd(ctx context.Context) string {
	if dir, ok := ctx.Value(cwdKey{}).(string); ok && dir != "" {
		return dir
	}
	return Root
}

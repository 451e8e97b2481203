// Package logfs is an append-only backend. Every mutation is written as a
// CBOR record to an in-memory log, and the log image can be replayed to
// rebuild the file contents. Payloads are compressed per record and carry a
// BLAKE3 checksum that is verified on replay.
package logfs

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/Cyclone1070/nsh/internal/vfs"
	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// Options configures a log mount.
type Options struct {
	Compression string `mapstructure:"compression"`
	// MaxFileSize bounds the size of a single file in bytes. Zero disables
	// the limit.
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

// DefaultOptions returns lz4 compression and a 1 MiB file limit.
func DefaultOptions() Options {
	return Options{Compression: "lz4", MaxFileSize: 1 << 20}
}

type op uint8

const (
	opCreate   op = 1
	opTruncate op = 2
	opWrite    op = 3
)

func (o op) String() string {
	switch o {
	case opCreate:
		return "create"
	case opTruncate:
		return "truncate"
	case opWrite:
		return "write"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

type record struct {
	Seq         uint64      `cbor:"1,keyasint"`
	Op          op          `cbor:"2,keyasint"`
	Name        string      `cbor:"3,keyasint"`
	Offset      int64       `cbor:"4,keyasint,omitempty"`
	Size        int         `cbor:"5,keyasint,omitempty"`
	Compression Compression `cbor:"6,keyasint,omitempty"`
	Data        []byte      `cbor:"7,keyasint,omitempty"`
	Sum         []byte      `cbor:"8,keyasint"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("logfs: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("logfs: CBOR decoder initialization failed: " + err.Error())
	}
}

// FS is a log backend. It is safe for concurrent use.
type FS struct {
	mu          sync.Mutex
	compression Compression
	maxFileSize int64

	log   bytes.Buffer
	enc   *cbor.Encoder
	seq   uint64
	files map[string][]byte
}

// New creates an empty log.
func New(opts Options) (*FS, error) {
	c, err := ParseCompression(opts.Compression)
	if err != nil {
		return nil, err
	}
	if opts.MaxFileSize < 0 {
		return nil, fmt.Errorf("max_file_size must not be negative, got %d", opts.MaxFileSize)
	}
	fs := &FS{
		compression: c,
		maxFileSize: opts.MaxFileSize,
		files:       make(map[string][]byte),
	}
	fs.enc = encMode.NewEncoder(&fs.log)
	return fs, nil
}

// Load rebuilds a log from an image produced by Image. New records are
// appended after the replayed ones.
func Load(image []byte, opts Options) (*FS, error) {
	fs, err := New(opts)
	if err != nil {
		return nil, err
	}

	dec := decMode.NewDecoder(bytes.NewReader(image))
	for {
		var r record
		if err := dec.Decode(&r); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &CorruptRecordError{Seq: fs.seq + 1, Reason: "undecodable", Cause: err}
		}
		if r.Seq != fs.seq+1 {
			return nil, &CorruptRecordError{Seq: r.Seq, Reason: fmt.Sprintf("out of sequence after %d", fs.seq)}
		}
		if reason := fs.check(r); reason != "" {
			return nil, &CorruptRecordError{Seq: r.Seq, Reason: reason}
		}
		raw, err := decompress(r.Data, r.Compression, r.Size)
		if err != nil {
			return nil, &CorruptRecordError{Seq: r.Seq, Reason: "bad payload", Cause: err}
		}
		if !bytes.Equal(r.Sum, checksum(r.Op, r.Name, r.Offset, raw)) {
			return nil, &CorruptRecordError{Seq: r.Seq, Reason: "checksum mismatch"}
		}
		fs.apply(r, raw)
		fs.seq = r.Seq
	}

	fs.log.Write(image)
	return fs, nil
}

// check validates the fields of a replayed record before they are used to
// size or index file contents.
func (fs *FS) check(r record) string {
	switch r.Op {
	case opCreate, opTruncate:
		if r.Offset != 0 || r.Size != 0 || len(r.Data) != 0 {
			return fmt.Sprintf("unexpected payload on %s record", r.Op)
		}
	case opWrite:
		if r.Size < 0 {
			return fmt.Sprintf("negative size %d", r.Size)
		}
		if r.Offset < 0 {
			return fmt.Sprintf("negative offset %d", r.Offset)
		}
		if r.Offset > math.MaxInt-int64(r.Size) {
			return fmt.Sprintf("offset %d overflows", r.Offset)
		}
		if fs.maxFileSize > 0 && r.Offset+int64(r.Size) > fs.maxFileSize {
			return fmt.Sprintf("write ends at %d past limit %d", r.Offset+int64(r.Size), fs.maxFileSize)
		}
	default:
		return fmt.Sprintf("unknown op %d", r.Op)
	}
	if r.Name == "" {
		return "empty name"
	}
	return ""
}

// Image returns a copy of the encoded log.
func (fs *FS) Image() []byte {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return bytes.Clone(fs.log.Bytes())
}

// Records returns the number of records written.
func (fs *FS) Records() uint64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.seq
}

// Open implements vfs.Backend.
func (fs *FS) Open(_ context.Context, path string, flags vfs.Flags) (vfs.Session, error) {
	name := strings.Trim(path, "/")
	if name == "" {
		return nil, &os.PathError{Op: "open", Path: "/", Err: ErrIsRoot}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	_, exists := fs.files[name]
	switch {
	case !exists && !flags.Has(vfs.FlagCreate):
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	case exists && flags.Has(vfs.FlagCreate|vfs.FlagExclusive):
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrExist}
	case !exists:
		if err := fs.append(opCreate, name, 0, nil); err != nil {
			return nil, err
		}
	}
	if exists && flags.Has(vfs.FlagTruncate) && flags.Writable() && len(fs.files[name]) > 0 {
		if err := fs.append(opTruncate, name, 0, nil); err != nil {
			return nil, err
		}
	}
	return &session{fs: fs, name: name, flags: flags}, nil
}

// List implements vfs.Lister. File names may contain slashes, which are
// presented as directories.
func (fs *FS) List(_ context.Context, dir string) ([]vfs.DirEntry, error) {
	prefix := strings.Trim(dir, "/")
	if prefix != "" {
		prefix += "/"
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.files[strings.TrimSuffix(prefix, "/")]; ok {
		return nil, &os.PathError{Op: "list", Path: dir, Err: vfs.ErrNotDirectory}
	}

	seen := map[string]int{}
	var entries []vfs.DirEntry
	for name, data := range fs.files {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		child, _, nested := strings.Cut(rest, "/")
		if i, dup := seen[child]; dup {
			entries[i].IsDir = entries[i].IsDir || nested
			continue
		}
		seen[child] = len(entries)
		e := vfs.DirEntry{Name: child, IsDir: nested}
		if !nested {
			e.Size = int64(len(data))
		}
		entries = append(entries, e)
	}
	if prefix != "" && len(entries) == 0 {
		return nil, &os.PathError{Op: "list", Path: dir, Err: os.ErrNotExist}
	}
	slices.SortFunc(entries, func(a, b vfs.DirEntry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

// append encodes a record and applies it. Callers hold fs.mu.
func (fs *FS) append(o op, name string, offset int64, raw []byte) error {
	r := record{
		Seq:    fs.seq + 1,
		Op:     o,
		Name:   name,
		Offset: offset,
		Size:   len(raw),
		Sum:    checksum(o, name, offset, raw),
	}
	if len(raw) > 0 {
		data, c, err := compress(raw, fs.compression)
		if err != nil {
			return err
		}
		r.Data = data
		r.Compression = c
	}
	if err := fs.enc.Encode(r); err != nil {
		return fmt.Errorf("encode record %d: %w", r.Seq, err)
	}
	fs.seq = r.Seq
	fs.apply(r, raw)
	return nil
}

func (fs *FS) apply(r record, raw []byte) {
	switch r.Op {
	case opCreate:
		if _, ok := fs.files[r.Name]; !ok {
			fs.files[r.Name] = []byte{}
		}
	case opTruncate:
		fs.files[r.Name] = []byte{}
	case opWrite:
		data := fs.files[r.Name]
		if end := int(r.Offset) + len(raw); end > len(data) {
			data = append(data, make([]byte, end-len(data))...)
		}
		copy(data[r.Offset:], raw)
		fs.files[r.Name] = data
	}
}

func checksum(o op, name string, offset int64, raw []byte) []byte {
	var header [9]byte
	header[0] = byte(o)
	binary.LittleEndian.PutUint64(header[1:], uint64(offset))

	h := blake3.New()
	h.Write(header[:])
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(raw)
	return h.Sum(nil)[:16]
}

type session struct {
	fs     *FS
	name   string
	flags  vfs.Flags
	pos    int64
	closed bool
}

func (s *session) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if !s.flags.Readable() {
		return 0, &os.PathError{Op: "read", Path: s.name, Err: os.ErrPermission}
	}

	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	data := s.fs.files[s.name]
	if s.pos >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *session) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if !s.flags.Writable() {
		return 0, &os.PathError{Op: "write", Path: s.name, Err: os.ErrPermission}
	}
	if len(p) == 0 {
		return 0, nil
	}

	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	if s.flags.Has(vfs.FlagAppend) {
		s.pos = int64(len(s.fs.files[s.name]))
	}
	if limit := s.fs.maxFileSize; limit > 0 && s.pos+int64(len(p)) > limit {
		return 0, &os.PathError{Op: "write", Path: s.name, Err: ErrFileTooLarge}
	}
	if err := s.fs.append(opWrite, s.name, s.pos, p); err != nil {
		return 0, err
	}
	s.pos += int64(len(p))
	return len(p), nil
}

func (s *session) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}

	s.fs.mu.Lock()
	size := int64(len(s.fs.files[s.name]))
	s.fs.mu.Unlock()

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = s.pos + offset
	case io.SeekEnd:
		pos = size + offset
	default:
		return 0, &os.PathError{Op: "seek", Path: s.name, Err: fmt.Errorf("%w: whence %d", os.ErrInvalid, whence)}
	}
	if pos < 0 {
		return 0, &os.PathError{Op: "seek", Path: s.name, Err: fmt.Errorf("%w: negative position %d", os.ErrInvalid, pos)}
	}
	s.pos = pos
	return pos, nil
}

func (s *session) Tell() (int64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.pos, nil
}

func (s *session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}

package vfs

import (
	"errors"
	"fmt"
	"io"
)

// File is an open handle returned by Table.Open. Every operation dispatches
// to the backend session that produced it.
type File struct {
	mount   *Mount
	session Session
	path    string
	flags   Flags
	closed  bool
}

func (f *File) Path() string  { return f.path }
func (f *File) Mount() *Mount { return f.mount }
func (f *File) Flags() Flags  { return f.flags }

func (f *File) check() error {
	if f == nil || f.session == nil {
		return ErrBadHandle
	}
	if f.closed {
		return fmt.Errorf("%w: %s is closed", ErrBadHandle, f.path)
	}
	return nil
}

func (f *File) Read(p []byte) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	return f.session.Read(p)
}

func (f *File) Write(p []byte) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	return f.session.Write(p)
}

// Seek moves the file position. whence is SeekSet, SeekCur or SeekEnd.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	return f.session.Seek(offset, whence)
}

// Tell returns the current file position.
func (f *File) Tell() (int64, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	return f.session.Tell()
}

// Close releases the session. The handle is unusable afterwards.
func (f *File) Close() error {
	if err := f.check(); err != nil {
		return err
	}
	f.closed = true
	return f.session.Close()
}

// ReadLine reads up to the next newline into dst without the newline.
//
// It returns (n, nil) when a whole line was read, (len(dst), ErrBufferFull)
// when dst filled before a newline, and (n, io.EOF) when the stream ended
// first. The newline itself is consumed but not stored.
func (f *File) ReadLine(dst []byte) (int, error) {
	if err := f.check(); err != nil {
		return 0, err
	}
	if lr, ok := f.session.(LineReader); ok {
		return lr.ReadLine(dst)
	}
	return ReadLine(f.session, dst)
}

// ReadLine implements the File.ReadLine contract on any reader, one byte at a
// time so nothing past the newline is consumed.
func ReadLine(r io.Reader, dst []byte) (int, error) {
	var one [1]byte
	n := 0
	for n < len(dst) {
		m, err := r.Read(one[:])
		if m > 0 {
			if one[0] == '\n' {
				return n, nil
			}
			dst[n] = one[0]
			n++
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, io.EOF
			}
			return n, err
		}
	}
	return n, ErrBufferFull
}

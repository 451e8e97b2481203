package vfs

import (
	"fmt"
	"io"
	"strings"
)

// Flags selects the access mode and creation behavior of Open.
type Flags uint8

const (
	FlagRead      Flags = 0x01
	FlagWrite     Flags = 0x02
	FlagAppend    Flags = 0x04
	FlagSync      Flags = 0x08
	FlagCreate    Flags = 0x10
	FlagExclusive Flags = 0x20
	FlagTruncate  Flags = 0x40

	FlagReadWrite = FlagRead | FlagWrite

	flagMask = 0x7f
)

// Seek origins, numerically equal to io.SeekStart, io.SeekCurrent and io.SeekEnd.
const (
	SeekSet = io.SeekStart
	SeekCur = io.SeekCurrent
	SeekEnd = io.SeekEnd
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagRead, "read"},
	{FlagWrite, "write"},
	{FlagAppend, "append"},
	{FlagSync, "sync"},
	{FlagCreate, "create"},
	{FlagExclusive, "exclusive"},
	{FlagTruncate, "truncate"},
}

// Has reports whether all bits of x are set.
func (f Flags) Has(x Flags) bool { return f&x == x }

// Writable reports whether the flags allow writing.
func (f Flags) Writable() bool { return f&(FlagWrite|FlagAppend) != 0 }

// Readable reports whether the flags allow reading.
func (f Flags) Readable() bool { return f.Has(FlagRead) }

// Validate rejects unknown bits and exclusive without create.
func (f Flags) Validate() error {
	if f&^flagMask != 0 {
		return &InvalidFlagsError{Flags: f, Reason: "unknown bits set"}
	}
	if f.Has(FlagExclusive) && !f.Has(FlagCreate) {
		return &InvalidFlagsError{Flags: f, Reason: "exclusive requires create"}
	}
	return nil
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			parts = append(parts, fn.name)
		}
	}
	if rest := f &^ flagMask; rest != 0 {
		parts = append(parts, fmt.Sprintf("%#02x", uint8(rest)))
	}
	return strings.Join(parts, "|")
}


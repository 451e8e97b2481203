package registry

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
)

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// NewIntParameter creates a parameter backed by a signed integer. Values
// accept decimal, 0x hex, 0o octal and 0b binary notation.
func NewIntParameter[T signed](path string, value *T) *Parameter {
	return NewParameter(path, setInt[T], printInt[T], value)
}

// NewUintParameter creates a parameter backed by an unsigned integer.
func NewUintParameter[T unsigned](path string, value *T) *Parameter {
	return NewParameter(path, setUint[T], printUint[T], value)
}

// NewBoolParameter creates a parameter backed by a bool.
func NewBoolParameter(path string, value *bool) *Parameter {
	return NewParameter(path, setBool, printBool, value)
}

// NewStringParameter creates a parameter backed by a string.
func NewStringParameter(path string, value *string) *Parameter {
	return NewParameter(path, setString, printString, value)
}

func storage[T any](value any) (*T, error) {
	ptr, ok := value.(*T)
	if !ok || ptr == nil {
		return nil, fmt.Errorf("parameter storage is %T, want %T", value, ptr)
	}
	return ptr, nil
}

func setInt[T signed](value any, text string) error {
	ptr, err := storage[T](value)
	if err != nil {
		return err
	}
	t := reflect.TypeFor[T]()
	n, err := strconv.ParseInt(strings.TrimSpace(text), 0, t.Bits())
	if err != nil {
		return &InvalidFormatError{Input: text, Type: t.String(), Cause: err}
	}
	*ptr = T(n)
	return nil
}

func printInt[T signed](w io.Writer, value any) error {
	ptr, err := storage[T](value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d\n", int64(*ptr))
	return err
}

func setUint[T unsigned](value any, text string) error {
	ptr, err := storage[T](value)
	if err != nil {
		return err
	}
	t := reflect.TypeFor[T]()
	n, err := strconv.ParseUint(strings.TrimSpace(text), 0, t.Bits())
	if err != nil {
		return &InvalidFormatError{Input: text, Type: t.String(), Cause: err}
	}
	*ptr = T(n)
	return nil
}

func printUint[T unsigned](w io.Writer, value any) error {
	ptr, err := storage[T](value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%d\n", uint64(*ptr))
	return err
}

func setBool(value any, text string) error {
	ptr, err := storage[bool](value)
	if err != nil {
		return err
	}
	b, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return &InvalidFormatError{Input: text, Type: "bool", Cause: err}
	}
	*ptr = b
	return nil
}

func printBool(w io.Writer, value any) error {
	ptr, err := storage[bool](value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%t\n", *ptr)
	return err
}

func setString(value any, text string) error {
	ptr, err := storage[string](value)
	if err != nil {
		return err
	}
	*ptr = text
	return nil
}

func printString(w io.Writer, value any) error {
	ptr, err := storage[string](value)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, *ptr)
	return err
}

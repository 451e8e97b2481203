// Package backing builds namespace backends from mount configuration.
package backing

import (
	"errors"
	"fmt"

	"github.com/Cyclone1070/nsh/internal/backing/blockfs"
	"github.com/Cyclone1070/nsh/internal/backing/logfs"
	"github.com/Cyclone1070/nsh/internal/vfs"
	"github.com/mitchellh/mapstructure"
)

// -- Errors --

// OptionsError is returned when mount options do not decode.
type OptionsError struct {
	Kind  vfs.Kind
	Cause error
}

func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid %s mount options: %v", e.Kind, e.Cause)
}
func (e *OptionsError) Unwrap() error { return e.Cause }

var ErrUnknownKind = errors.New("unknown filesystem kind")

// New creates the backend for kind, decoding options over the kind's defaults.
// Unknown option keys are rejected.
func New(kind vfs.Kind, options map[string]any) (vfs.Backend, error) {
	switch kind {
	case vfs.KindBlock:
		opts := blockfs.DefaultOptions()
		if err := decode(options, &opts); err != nil {
			return nil, &OptionsError{Kind: kind, Cause: err}
		}
		return blockfs.Open(opts), nil
	case vfs.KindLog:
		opts := logfs.DefaultOptions()
		if err := decode(options, &opts); err != nil {
			return nil, &OptionsError{Kind: kind, Cause: err}
		}
		fs, err := logfs.New(opts)
		if err != nil {
			return nil, &OptionsError{Kind: kind, Cause: err}
		}
		return fs, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Mount creates a backend and attaches it to table.
func Mount(table *vfs.Table, name string, kind vfs.Kind, options map[string]any) error {
	backend, err := New(kind, options)
	if err != nil {
		return fmt.Errorf("mount %s: %w", name, err)
	}
	return table.Mount(name, kind, backend)
}

func decode(input map[string]any, out any) error {
	if len(input) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Package logging routes leveled log records from named objects to a chain
// of output handlers, and bridges the process slog.Logger onto the same chain.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// DefaultObject names the object every Module starts with.
const DefaultObject = "log"

// Handler is an output in the handler chain.
type Handler struct {
	w      io.Writer
	next   *Handler
	linked bool
}

// NewHandler creates a handler writing to w.
func NewHandler(w io.Writer) *Handler {
	if w == nil {
		panic("w is required")
	}
	return &Handler{w: w}
}

// Object is a named log source with its own level mask.
type Object struct {
	name   string
	mask   Mask
	module *Module
	next   *Object
	linked bool
}

// NewObject creates an object. It logs nothing while it is not added to a Module.
func NewObject(name string, mask Mask) *Object {
	if name == "" {
		panic("name is required")
	}
	return &Object{name: name, mask: mask & MaskAll}
}

func (o *Object) Name() string { return o.name }

// Mask returns the current mask.
func (o *Object) Mask() Mask {
	if o.module == nil {
		return o.mask
	}
	o.module.mu.Lock()
	defer o.module.mu.Unlock()
	return o.mask
}

// Print logs a formatted message at level. It returns the number of
// handlers written, which is zero when the level is masked out.
func (o *Object) Print(level Level, format string, args ...any) int {
	if o.module == nil {
		return 0
	}
	return o.module.Print(o, level, format, args...)
}

// Module owns a handler chain and an object chain. The head of each chain is
// built in: a handler for the module output and the object named DefaultObject.
type Module struct {
	mu          sync.Mutex
	handler     Handler
	object      Object
	defaultMask Mask
	start       time.Time
	now         func() time.Time
}

// New creates a module writing to w with the default object masked up to info.
func New(w io.Writer) *Module {
	if w == nil {
		panic("w is required")
	}
	m := &Module{
		handler:     Handler{w: w, linked: true},
		object:      Object{name: DefaultObject, mask: UpTo(LevelInfo), linked: true},
		defaultMask: UpTo(LevelInfo),
		now:         time.Now,
	}
	m.object.module = m
	m.start = m.now()
	return m
}

// SetOutput replaces the writer of the built-in handler.
func (m *Module) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler.w = w
}

// SetDefaultMask sets the mask used by Print with a nil object.
func (m *Module) SetDefaultMask(mask Mask) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultMask = mask & MaskAll
}

// Default returns the built-in object.
func (m *Module) Default() *Object { return &m.object }

// -- Handlers --

// AddHandler inserts h after the built-in handler.
func (m *Module) AddHandler(h *Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h.linked {
		return ErrAlreadyAdded
	}
	h.next = m.handler.next
	m.handler.next = h
	h.linked = true
	return nil
}

// RemoveHandler unlinks h. The built-in handler cannot be removed.
func (m *Module) RemoveHandler(h *Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for prev := &m.handler; prev.next != nil; prev = prev.next {
		if prev.next == h {
			prev.next = h.next
			h.next = nil
			h.linked = false
			return nil
		}
	}
	return ErrNotFound
}

// -- Objects --

// AddObject inserts o after the built-in object. Names are unique.
func (m *Module) AddObject(o *Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o.linked {
		return ErrAlreadyAdded
	}
	if m.find(o.name) != nil {
		return &ObjectExistsError{Name: o.name}
	}
	o.next = m.object.next
	m.object.next = o
	o.module = m
	o.linked = true
	return nil
}

// RemoveObject unlinks o. The built-in object cannot be removed.
func (m *Module) RemoveObject(o *Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for prev := &m.object; prev.next != nil; prev = prev.next {
		if prev.next == o {
			prev.next = o.next
			o.next = nil
			o.linked = false
			return nil
		}
	}
	return ErrNotFound
}

// Object returns the object called name, or nil.
func (m *Module) Object(name string) *Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(name)
}

// Objects returns the object chain, built-in object first.
func (m *Module) Objects() []*Object {
	m.mu.Lock()
	defer m.mu.Unlock()

	var objects []*Object
	for o := &m.object; o != nil; o = o.next {
		objects = append(objects, o)
	}
	return objects
}

// SetMask sets the mask of the object called name.
func (m *Module) SetMask(name string, mask Mask) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o := m.find(name)
	if o == nil {
		return fmt.Errorf("log object %q: %w", name, ErrNotFound)
	}
	o.mask = mask & MaskAll
	return nil
}

func (m *Module) find(name string) *Object {
	for o := &m.object; o != nil; o = o.next {
		if o.name == name {
			return o
		}
	}
	return nil
}

// -- Printing --

// Print logs for o, or for the anonymous "default" source with the default
// mask when o is nil. A removed object prints nothing. Each handler receives
// "seconds:level:object: message".
func (m *Module) Print(o *Object, level Level, format string, args ...any) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	name, mask := "default", m.defaultMask
	if o != nil {
		if !o.linked {
			return 0
		}
		name, mask = o.name, o.mask
	}
	if !mask.Has(level) {
		return 0
	}
	return m.emit(name, level, fmt.Sprintf(format, args...))
}

// emit writes one entry to every handler. Caller holds mu.
func (m *Module) emit(name string, level Level, msg string) int {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	line := fmt.Sprintf("%d:%s:%s: %s", int64(m.now().Sub(m.start)/time.Second), level, name, msg)

	count := 0
	for h := &m.handler; h != nil; h = h.next {
		if h.w == nil {
			continue
		}
		if _, err := io.WriteString(h.w, line); err == nil {
			count++
		}
	}
	return count
}

// Package registry holds the commands, counters and parameters published in
// the namespace. Each kind lives in a registration-ordered chain plus an index
// keyed by the path hash, both guarded by a single mutex.
package registry

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/Cyclone1070/nsh/internal/index"
)

// Registry is safe for concurrent use. Parameter set and print functions run
// with the registry lock held and must not call back into the registry.
type Registry struct {
	mu sync.Mutex

	commands   *Command
	counters   *Counter
	parameters *Parameter

	commandIndex   *index.Tree[*Command]
	counterIndex   *index.Tree[*Counter]
	parameterIndex *index.Tree[*Parameter]

	logger *slog.Logger
}

// New creates an empty registry. A nil logger discards output.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		commandIndex:   index.New[*Command](),
		counterIndex:   index.New[*Counter](),
		parameterIndex: index.New[*Parameter](),
		logger:         logger,
	}
}

// -- Commands --

// RegisterCommand publishes c under its path. On failure nothing changes.
func (r *Registry) RegisterCommand(c *Command) error {
	if c.path == "" {
		return ErrEmptyPath
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.state == stateRegistered {
		return &AlreadyRegisteredError{Kind: KindCommand, Path: c.path}
	}
	push(&r.commands, c, commandNext)
	if err := r.commandIndex.Insert(Key(c.path), &c.node); err != nil {
		unlink(&r.commands, c, commandNext)
		return &AlreadyRegisteredError{Kind: KindCommand, Path: c.path}
	}
	c.state = stateRegistered
	r.logger.Debug("registered command", "path", c.path)
	return nil
}

// DeregisterCommand removes c. The command cannot be found afterwards.
func (r *Registry) DeregisterCommand(c *Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.state != stateRegistered || !unlink(&r.commands, c, commandNext) {
		return &NotFoundError{Kind: KindCommand, Path: c.path}
	}
	mustDelete(r.commandIndex, c.path)
	c.state = stateRetired
	r.logger.Debug("deregistered command", "path", c.path)
	return nil
}

// LookupCommand returns the command registered at path, or nil.
func (r *Registry) LookupCommand(path string) *Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.commandIndex.Search(Key(path))
	if n == nil || n.Value.path != path {
		return nil
	}
	return n.Value
}

// Commands returns the registered commands, most recently registered first.
func (r *Registry) Commands() []*Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return chain(r.commands, commandNext)
}

// -- Counters --

// RegisterCounter publishes c under its path. On failure nothing changes.
func (r *Registry) RegisterCounter(c *Counter) error {
	if c.path == "" {
		return ErrEmptyPath
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.state == stateRegistered {
		return &AlreadyRegisteredError{Kind: KindCounter, Path: c.path}
	}
	push(&r.counters, c, counterNext)
	if err := r.counterIndex.Insert(Key(c.path), &c.node); err != nil {
		unlink(&r.counters, c, counterNext)
		return &AlreadyRegisteredError{Kind: KindCounter, Path: c.path}
	}
	c.state = stateRegistered
	r.logger.Debug("registered counter", "path", c.path)
	return nil
}

// DeregisterCounter removes c and poisons it: later updates fail with
// ErrRetired until it is registered again.
func (r *Registry) DeregisterCounter(c *Counter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.state != stateRegistered || !unlink(&r.counters, c, counterNext) {
		return &NotFoundError{Kind: KindCounter, Path: c.path}
	}
	mustDelete(r.counterIndex, c.path)
	c.state = stateRetired
	r.logger.Debug("deregistered counter", "path", c.path)
	return nil
}

// LookupCounter returns the counter registered at path, or nil.
func (r *Registry) LookupCounter(path string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.counterIndex.Search(Key(path))
	if n == nil || n.Value.path != path {
		return nil
	}
	return n.Value
}

// Counters returns the registered counters, most recently registered first.
func (r *Registry) Counters() []*Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return chain(r.counters, counterNext)
}

// Increment adds delta to c, saturating at the maximum value.
func (r *Registry) Increment(c *Counter, delta uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.state == stateRetired {
		return &RetiredError{Kind: KindCounter, Path: c.path}
	}
	if delta > math.MaxUint64-c.value {
		c.value = math.MaxUint64
	} else {
		c.value += delta
	}
	return nil
}

// Reset sets c back to zero.
func (r *Registry) Reset(c *Counter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.state == stateRetired {
		return &RetiredError{Kind: KindCounter, Path: c.path}
	}
	c.value = 0
	return nil
}

// Value returns the current value of c.
func (r *Registry) Value(c *Counter) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return c.value
}

// -- Parameters --

// RegisterParameter publishes p under its path. On failure nothing changes.
func (r *Registry) RegisterParameter(p *Parameter) error {
	if p.path == "" {
		return ErrEmptyPath
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.state == stateRegistered {
		return &AlreadyRegisteredError{Kind: KindParameter, Path: p.path}
	}
	push(&r.parameters, p, parameterNext)
	if err := r.parameterIndex.Insert(Key(p.path), &p.node); err != nil {
		unlink(&r.parameters, p, parameterNext)
		return &AlreadyRegisteredError{Kind: KindParameter, Path: p.path}
	}
	p.state = stateRegistered
	r.logger.Debug("registered parameter", "path", p.path)
	return nil
}

// DeregisterParameter removes p and poisons it.
func (r *Registry) DeregisterParameter(p *Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.state != stateRegistered || !unlink(&r.parameters, p, parameterNext) {
		return &NotFoundError{Kind: KindParameter, Path: p.path}
	}
	mustDelete(r.parameterIndex, p.path)
	p.state = stateRetired
	r.logger.Debug("deregistered parameter", "path", p.path)
	return nil
}

// LookupParameter returns the parameter registered at path, or nil.
func (r *Registry) LookupParameter(path string) *Parameter {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.parameterIndex.Search(Key(path))
	if n == nil || n.Value.path != path {
		return nil
	}
	return n.Value
}

// Parameters returns the registered parameters, most recently registered first.
func (r *Registry) Parameters() []*Parameter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return chain(r.parameters, parameterNext)
}

// SetParameter parses text into p. A parse failure leaves the value unchanged.
func (r *Registry) SetParameter(p *Parameter, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.state == stateRetired {
		return &RetiredError{Kind: KindParameter, Path: p.path}
	}
	if err := p.set(p.value, text); err != nil {
		return err
	}
	r.logger.Debug("parameter set", "path", p.path, "value", text)
	return nil
}

// PrintParameter writes the formatted value of p to w.
func (r *Registry) PrintParameter(p *Parameter, w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.state == stateRetired {
		return &RetiredError{Kind: KindParameter, Path: p.path}
	}
	return p.format(w, p.value)
}

// ParameterValue returns the value behind p when its storage is a *T.
func ParameterValue[T any](r *Registry, p *Parameter) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ptr, ok := p.value.(*T)
	if !ok || ptr == nil {
		var zero T
		return zero, false
	}
	return *ptr, true
}

// -- Diagnostics --

// PrintIndex writes the shape of one kind's index to w.
func (r *Registry) PrintIndex(kind Kind, w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch kind {
	case KindCommand:
		return r.commandIndex.Print(w, (*Command).Path)
	case KindCounter:
		return r.counterIndex.Print(w, (*Counter).Path)
	case KindParameter:
		return r.parameterIndex.Print(w, (*Parameter).Path)
	}
	return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// mustDelete removes path from an index that is known to hold it. A miss means
// the chain and index disagree, which cannot be recovered from.
func mustDelete[V any](tree *index.Tree[V], path string) {
	if _, err := tree.Delete(Key(path)); err != nil {
		panic(fmt.Sprintf("registry: index out of sync for %s: %v", path, err))
	}
}

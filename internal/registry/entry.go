package registry

import (
	"context"
	"io"

	"github.com/Cyclone1070/nsh/internal/index"
)

// Call carries one invocation of a command callback.
type Call struct {
	Ctx context.Context
	// Args holds the tokenized command line. Args[0] is the command as typed.
	Args []string
	In   io.Reader
	Out  io.Writer
	// Arg is the value bound when the command was created.
	Arg any
	// CallArg is the value supplied by the caller of the interpreter.
	CallArg any
}

// Callback implements a command. It returns ResultOK or a negative result code.
type Callback func(call *Call) int

// Command is a named callback in the namespace.
type Command struct {
	path     string
	callback Callback
	arg      any

	node  index.Node[*Command]
	next  *Command
	state state
}

// NewCommand creates an unregistered command.
func NewCommand(path string, callback Callback, arg any) *Command {
	if callback == nil {
		panic("callback is required")
	}
	c := &Command{path: path, callback: callback, arg: arg}
	c.node.Value = c
	return c
}

func (c *Command) Path() string { return c.path }

// Invoke runs the callback with the command's bound argument.
func (c *Command) Invoke(call *Call) int {
	call.Arg = c.arg
	return c.callback(call)
}

// Counter is a named saturating 64-bit counter. Its value is read and
// modified through the Registry that owns it.
type Counter struct {
	path  string
	value uint64

	node  index.Node[*Counter]
	next  *Counter
	state state
}

// NewCounter creates an unregistered counter.
func NewCounter(path string, initial uint64) *Counter {
	c := &Counter{path: path, value: initial}
	c.node.Value = c
	return c
}

func (c *Counter) Path() string { return c.path }

// SetFunc parses text into the parameter's storage.
type SetFunc func(value any, text string) error

// PrintFunc formats the parameter's storage.
type PrintFunc func(w io.Writer, value any) error

// Parameter is a named value with caller supplied parse and format functions.
type Parameter struct {
	path   string
	set    SetFunc
	format PrintFunc
	value  any

	node  index.Node[*Parameter]
	next  *Parameter
	state state
}

// NewParameter creates an unregistered parameter. value is handed to set and
// print unchanged and is normally a pointer to the backing variable.
func NewParameter(path string, set SetFunc, format PrintFunc, value any) *Parameter {
	if set == nil {
		panic("set is required")
	}
	if format == nil {
		panic("format is required")
	}
	p := &Parameter{path: path, set: set, format: format, value: value}
	p.node.Value = p
	return p
}

func (p *Parameter) Path() string { return p.path }

func commandNext(c *Command) **Command       { return &c.next }
func counterNext(c *Counter) **Counter       { return &c.next }
func parameterNext(p *Parameter) **Parameter { return &p.next }

// push links e at the head of a chain.
func push[T any](head **T, e *T, next func(*T) **T) {
	*next(e) = *head
	*head = e
}

// unlink removes target from a chain and reports whether it was found.
func unlink[T any](head **T, target *T, next func(*T) **T) bool {
	for p := head; *p != nil; p = next(*p) {
		if *p == target {
			*p = *next(target)
			*next(target) = nil
			return true
		}
	}
	return false
}

// chain collects a chain into a slice, head first.
func chain[T any](head *T, next func(*T) **T) []*T {
	var out []*T
	for e := head; e != nil; e = *next(e) {
		out = append(out, e)
	}
	return out
}

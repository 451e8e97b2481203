package logging

import (
	"errors"
	"fmt"

	"github.com/Cyclone1070/nsh/internal/registry"
)

// DefaultCommandPrefix is where the log commands are registered by default.
const DefaultCommandPrefix = "/kernel/log"

// Commands exposes a Module in the namespace: print, list and set_log_mask.
type Commands struct {
	module   *Module
	registry *registry.Registry
	commands []*registry.Command
}

// NewCommands prepares the log commands under prefix.
func NewCommands(m *Module, reg *registry.Registry, prefix string) *Commands {
	if m == nil {
		panic("m is required")
	}
	if reg == nil {
		panic("reg is required")
	}
	if prefix == "" {
		prefix = DefaultCommandPrefix
	}
	c := &Commands{module: m, registry: reg}
	c.commands = []*registry.Command{
		registry.NewCommand(prefix+"/print", c.print, nil),
		registry.NewCommand(prefix+"/list", c.list, nil),
		registry.NewCommand(prefix+"/set_log_mask", c.setLogMask, nil),
	}
	return c
}

// Register publishes the commands. Either all are registered or none are.
func (c *Commands) Register() error {
	for i, cmd := range c.commands {
		if err := c.registry.RegisterCommand(cmd); err != nil {
			for _, done := range c.commands[:i] {
				_ = c.registry.DeregisterCommand(done)
			}
			return err
		}
	}
	return nil
}

// Deregister withdraws the commands.
func (c *Commands) Deregister() error {
	var errs []error
	for _, cmd := range c.commands {
		errs = append(errs, c.registry.DeregisterCommand(cmd))
	}
	return errors.Join(errs...)
}

func (c *Commands) print(call *registry.Call) int {
	if len(call.Args) != 2 {
		fmt.Fprintf(call.Out, "usage: %s <string>\n", call.Args[0])
		return registry.ResultInvalidArgument
	}
	c.module.Default().Print(LevelInfo, "%s", call.Args[1])
	return registry.ResultOK
}

func (c *Commands) list(call *registry.Call) int {
	if len(call.Args) != 1 {
		fmt.Fprintf(call.Out, "usage: %s\n", call.Args[0])
		return registry.ResultInvalidArgument
	}
	fmt.Fprintf(call.Out, "%-16s  %s\n", "OBJECT-NAME", "MASK")
	for _, o := range c.module.Objects() {
		fmt.Fprintf(call.Out, "%-16s  0x%02x\n", o.Name(), uint8(o.Mask()))
	}
	return registry.ResultOK
}

func (c *Commands) setLogMask(call *registry.Call) int {
	if len(call.Args) != 3 {
		fmt.Fprintf(call.Out, "usage: %s <object> <mask>\n", call.Args[0])
		return registry.ResultInvalidArgument
	}
	mask, err := ParseMask(call.Args[2])
	if err != nil {
		fmt.Fprintf(call.Out, "bad mask %s\n", call.Args[2])
		return registry.ResultInvalidArgument
	}
	if err := c.module.SetMask(call.Args[1], mask); err != nil {
		fmt.Fprintf(call.Out, "warning: no log object with name %s\n", call.Args[1])
		return registry.ResultInvalidArgument
	}
	return registry.ResultOK
}

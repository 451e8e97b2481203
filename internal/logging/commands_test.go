package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/Cyclone1070/nsh/internal/registry"
	"github.com/Cyclone1070/nsh/internal/testing/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoke(t *testing.T, reg *registry.Registry, args ...string) (int, string) {
	t.Helper()
	cmd := reg.LookupCommand(args[0])
	require.NotNil(t, cmd, args[0])
	var out bytes.Buffer
	code := cmd.Invoke(&registry.Call{Ctx: context.Background(), Args: args, Out: &out})
	return code, out.String()
}

func newCommands(t *testing.T) (*Module, *bytes.Buffer, *registry.Registry) {
	t.Helper()
	m, out := newModule(t)
	reg := registry.New(testhelpers.DiscardLogger())
	require.NoError(t, NewCommands(m, reg, "").Register())
	return m, out, reg
}

func TestPrintCommand(t *testing.T) {
	_, out, reg := newCommands(t)

	code, _ := invoke(t, reg, "/kernel/log/print", "hi there")

	assert.Equal(t, registry.ResultOK, code)
	assert.Equal(t, "3:info:log: hi there\n", out.String())

	code, usage := invoke(t, reg, "/kernel/log/print")
	assert.Equal(t, registry.ResultInvalidArgument, code)
	assert.Contains(t, usage, "usage:")
}

func TestListCommand(t *testing.T) {
	m, _, reg := newCommands(t)
	require.NoError(t, m.AddObject(NewObject("vfs", UpTo(LevelError))))

	_, out := invoke(t, reg, "/kernel/log/list")

	assert.Equal(t, "OBJECT-NAME       MASK\nlog               0x0f\nvfs               0x03\n", out)
}

func TestSetLogMaskCommand(t *testing.T) {
	m, _, reg := newCommands(t)

	code, _ := invoke(t, reg, "/kernel/log/set_log_mask", "log", "0x1f")
	assert.Equal(t, registry.ResultOK, code)
	assert.Equal(t, MaskAll, m.Default().Mask())

	code, _ = invoke(t, reg, "/kernel/log/set_log_mask", "log", "error")
	assert.Equal(t, registry.ResultOK, code)
	assert.Equal(t, UpTo(LevelError), m.Default().Mask())

	code, out := invoke(t, reg, "/kernel/log/set_log_mask", "ghost", "1")
	assert.Equal(t, registry.ResultInvalidArgument, code)
	assert.Equal(t, "warning: no log object with name ghost\n", out)

	code, out = invoke(t, reg, "/kernel/log/set_log_mask", "log", "loud")
	assert.Equal(t, registry.ResultInvalidArgument, code)
	assert.Equal(t, "bad mask loud\n", out)
}

func TestCommandsRegisterAllOrNothing(t *testing.T) {
	m, _ := newModule(t)
	reg := registry.New(testhelpers.DiscardLogger())
	require.NoError(t, reg.RegisterCommand(registry.NewCommand("/x/set_log_mask", func(*registry.Call) int { return 0 }, nil)))

	err := NewCommands(m, reg, "/x").Register()

	assert.ErrorIs(t, err, registry.ErrAlreadyRegistered)
	assert.Nil(t, reg.LookupCommand("/x/print"))
}

package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModule(t *testing.T) (*Module, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	m := New(&out)
	start := m.start
	m.now = func() time.Time { return start.Add(3500 * time.Millisecond) }
	return m, &out
}

func TestUpTo(t *testing.T) {
	assert.Equal(t, Mask(0x01), UpTo(LevelFatal))
	assert.Equal(t, Mask(0x0f), UpTo(LevelInfo))
	assert.Equal(t, MaskAll, UpTo(LevelDebug))
	assert.True(t, UpTo(LevelWarning).Has(LevelError))
	assert.False(t, UpTo(LevelWarning).Has(LevelInfo))
}

func TestParseLevelAndMask(t *testing.T) {
	l, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, l)

	_, err = ParseLevel("loud")
	assert.ErrorIs(t, err, ErrUnknownLevel)

	tests := []struct {
		in   string
		want Mask
	}{
		{"0x03", 0x03},
		{"255", MaskAll},
		{"info", UpTo(LevelInfo)},
		{"all", MaskAll},
		{"none", MaskNone},
	}
	for _, tt := range tests {
		got, err := ParseMask(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err = ParseMask("0xzz")
	assert.Error(t, err)
}

func TestPrintFormat(t *testing.T) {
	m, out := newModule(t)

	n := m.Default().Print(LevelInfo, "hello %d", 7)

	assert.Equal(t, 1, n)
	assert.Equal(t, "3:info:log: hello 7\n", out.String())
}

func TestPrintRespectsMask(t *testing.T) {
	m, out := newModule(t)

	assert.Equal(t, 0, m.Default().Print(LevelDebug, "hidden"))
	assert.Empty(t, out.String())

	require.NoError(t, m.SetMask(DefaultObject, MaskAll))
	assert.Equal(t, 1, m.Default().Print(LevelDebug, "shown"))
}

func TestPrintWithoutObjectUsesDefaultMask(t *testing.T) {
	m, out := newModule(t)
	m.SetDefaultMask(UpTo(LevelError))

	assert.Equal(t, 0, m.Print(nil, LevelWarning, "x"))
	assert.Equal(t, 1, m.Print(nil, LevelError, "boom\n"))
	assert.Equal(t, "3:error:default: boom\n", out.String())
}

func TestHandlersChain(t *testing.T) {
	m, out := newModule(t)
	var extra bytes.Buffer
	h := NewHandler(&extra)

	require.NoError(t, m.AddHandler(h))
	assert.ErrorIs(t, m.AddHandler(h), ErrAlreadyAdded)
	assert.Equal(t, 2, m.Default().Print(LevelInfo, "both"))
	assert.Equal(t, out.String(), extra.String())

	require.NoError(t, m.RemoveHandler(h))
	assert.ErrorIs(t, m.RemoveHandler(h), ErrNotFound)
	assert.Equal(t, 1, m.Default().Print(LevelInfo, "one"))
	assert.NotContains(t, extra.String(), "one")
}

func TestRemoveAbsentElementsTerminates(t *testing.T) {
	m, _ := newModule(t)
	require.NoError(t, m.AddHandler(NewHandler(&bytes.Buffer{})))
	require.NoError(t, m.AddObject(NewObject("a", MaskAll)))

	assert.ErrorIs(t, m.RemoveHandler(NewHandler(&bytes.Buffer{})), ErrNotFound)
	assert.ErrorIs(t, m.RemoveObject(NewObject("b", MaskAll)), ErrNotFound)
	assert.ErrorIs(t, m.RemoveObject(m.Default()), ErrNotFound)
}

func TestObjectsChain(t *testing.T) {
	m, out := newModule(t)
	a := NewObject("a", UpTo(LevelWarning))
	b := NewObject("b", MaskAll)

	require.NoError(t, m.AddObject(a))
	require.NoError(t, m.AddObject(b))
	assert.ErrorIs(t, m.AddObject(NewObject("a", 0)), ErrObjectExists)

	var names []string
	for _, o := range m.Objects() {
		names = append(names, o.Name())
	}
	assert.Equal(t, []string{"log", "b", "a"}, names)
	assert.Same(t, a, m.Object("a"))

	a.Print(LevelWarning, "careful")
	assert.Equal(t, "3:warning:a: careful\n", out.String())

	require.NoError(t, m.RemoveObject(a))
	assert.Nil(t, m.Object("a"))
	require.NoError(t, m.AddObject(a))
}

func TestRemovedObjectPrintsNothing(t *testing.T) {
	m, out := newModule(t)
	o := NewObject("gone", MaskAll)
	require.NoError(t, m.AddObject(o))
	require.NoError(t, m.RemoveObject(o))

	assert.Equal(t, 0, o.Print(LevelFatal, "after removal"))
	assert.Equal(t, 0, m.Print(o, LevelFatal, "after removal"))
	assert.Empty(t, out.String())

	require.NoError(t, m.AddObject(o))
	assert.Equal(t, 1, o.Print(LevelInfo, "back"))
	assert.Equal(t, "3:info:gone: back\n", out.String())
}

func TestUnaddedObjectPrintsNothing(t *testing.T) {
	assert.Equal(t, 0, NewObject("lonely", MaskAll).Print(LevelFatal, "x"))
}

func TestSetMaskUnknownObject(t *testing.T) {
	m, _ := newModule(t)

	assert.ErrorIs(t, m.SetMask("nope", MaskAll), ErrNotFound)
}

func TestSetOutput(t *testing.T) {
	m, out := newModule(t)
	var other strings.Builder
	m.SetOutput(&other)

	m.Default().Print(LevelInfo, "moved")

	assert.Empty(t, out.String())
	assert.Contains(t, other.String(), "moved")
}

package channel

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueWriteThenRead(t *testing.T) {
	q := NewQueue()
	_, err := q.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, q.Len())

	buf := make([]byte, 3)
	n, err := q.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hel", string(buf[:n]))
	assert.Equal(t, 2, q.Len())
}

func TestQueueReadBlocksUntilWrite(t *testing.T) {
	q := NewQueue()
	got := make(chan string)

	go func() {
		buf := make([]byte, 16)
		n, _ := q.Read(buf)
		got <- string(buf[:n])
	}()

	select {
	case <-got:
		t.Fatal("read returned before any write")
	case <-time.After(20 * time.Millisecond):
	}

	_, err := q.Write([]byte("data"))
	require.NoError(t, err)

	select {
	case s := <-got:
		assert.Equal(t, "data", s)
	case <-time.After(time.Second):
		t.Fatal("read did not wake up")
	}
}

func TestQueueCloseDrainsThenEOF(t *testing.T) {
	q := NewQueue()
	_, err := q.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	data, err := io.ReadAll(q)
	require.NoError(t, err)
	assert.Equal(t, "tail", string(data))

	_, err = q.Write([]byte("late"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestQueuePoll(t *testing.T) {
	q := NewQueue()

	ready, err := q.Poll(0)
	require.NoError(t, err)
	assert.False(t, ready)

	ready, err = q.Poll(10 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ready)

	go func() {
		time.Sleep(10 * time.Millisecond)
		_, _ = q.Write([]byte("x"))
	}()
	ready, err = q.Poll(time.Second)
	require.NoError(t, err)
	assert.True(t, ready)
}

func TestNull(t *testing.T) {
	n, err := Null.Write([]byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = Null.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestWait(t *testing.T) {
	ready, err := Wait(strings.NewReader("x"), time.Millisecond, nil)
	require.NoError(t, err)
	assert.True(t, ready)

	q := NewQueue()
	done := make(chan struct{})
	close(done)
	ready, err = Wait(q, time.Millisecond, done)
	require.NoError(t, err)
	assert.False(t, ready)

	_, _ = q.Write([]byte("x"))
	ready, err = Wait(q, time.Millisecond, nil)
	require.NoError(t, err)
	assert.True(t, ready)
}

// Package channel provides the byte streams commands read from and write to.
package channel

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// Channel is a bidirectional byte stream.
type Channel interface {
	io.Reader
	io.Writer
}

// Poller is implemented by inputs that can wait for data with a deadline.
type Poller interface {
	// Poll reports whether a Read would return without blocking, waiting up
	// to timeout for that to become true.
	Poll(timeout time.Duration) (bool, error)
}

// Queue is an in-memory channel. Writes never block. Reads block until data
// is queued or the queue is closed, after which buffered data drains and Read
// returns io.EOF.
type Queue struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
	ready  chan struct{}
}

// NewQueue creates an empty open queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{})}
}

// wake releases every waiter. Callers hold q.mu.
func (q *Queue) wake() {
	close(q.ready)
	q.ready = make(chan struct{})
}

func (q *Queue) Write(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, io.ErrClosedPipe
	}
	n, _ := q.buf.Write(p)
	if n > 0 {
		q.wake()
	}
	return n, nil
}

func (q *Queue) Read(p []byte) (int, error) {
	for {
		q.mu.Lock()
		if q.buf.Len() > 0 {
			n, _ := q.buf.Read(p)
			q.mu.Unlock()
			return n, nil
		}
		if q.closed {
			q.mu.Unlock()
			return 0, io.EOF
		}
		ready := q.ready
		q.mu.Unlock()
		<-ready
	}
}

// Poll waits up to timeout for data or close. A non-positive timeout checks
// without waiting.
func (q *Queue) Poll(timeout time.Duration) (bool, error) {
	q.mu.Lock()
	if q.buf.Len() > 0 || q.closed {
		q.mu.Unlock()
		return true, nil
	}
	ready := q.ready
	q.mu.Unlock()

	if timeout <= 0 {
		return false, nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ready:
		return true, nil
	case <-timer.C:
		return false, nil
	}
}

// Len returns the number of buffered bytes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Len()
}

// Close marks the end of the stream. Closing twice is a no-op.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		q.wake()
	}
	return nil
}

type null struct{}

func (null) Read([]byte) (int, error)        { return 0, io.EOF }
func (null) Write(p []byte) (int, error)     { return len(p), nil }
func (null) Poll(time.Duration) (bool, error) { return true, nil }

// Null discards writes and is always at end of stream.
var Null Channel = null{}

// Wait blocks until r has data, polling in steps of timeout. Readers that are
// not Pollers are assumed ready. It returns false if done closes first.
func Wait(r io.Reader, timeout time.Duration, done <-chan struct{}) (bool, error) {
	p, ok := r.(Poller)
	if !ok {
		return true, nil
	}
	for {
		ready, err := p.Poll(timeout)
		if err != nil || ready {
			return ready, err
		}
		select {
		case <-done:
			return false, nil
		default:
		}
	}
}

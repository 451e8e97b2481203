package mocks

import (
	"io"
	"time"
)

// MockChannel implements channel.Channel with configurable behaviour
type MockChannel struct {
	PollFunc  func(timeout time.Duration) (bool, error)
	ReadFunc  func(p []byte) (int, error)
	WriteFunc func(p []byte) (int, error)
	Polls     int
}

func (c *MockChannel) Poll(timeout time.Duration) (bool, error) {
	c.Polls++
	if c.PollFunc != nil {
		return c.PollFunc(timeout)
	}
	return true, nil
}

func (c *MockChannel) Read(p []byte) (int, error) {
	if c.ReadFunc != nil {
		return c.ReadFunc(p)
	}
	// Default to end of stream if no func provided
	return 0, io.EOF
}

func (c *MockChannel) Write(p []byte) (int, error) {
	if c.WriteFunc != nil {
		return c.WriteFunc(p)
	}
	return len(p), nil
}

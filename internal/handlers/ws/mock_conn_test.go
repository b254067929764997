package ws

import (
	"errors"
	"sync"
	"time"
)

// MockConn records every frame written to it. Writes can be made to fail
// to exercise the drop-on-failure path.
type MockConn struct {
	mu         sync.Mutex
	frames     []interface{}
	failWrites bool
	closed     bool
}

func (c *MockConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrites {
		return errors.New("write failed")
	}
	c.frames = append(c.frames, v)
	return nil
}

func (c *MockConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func (c *MockConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *MockConn) FailWrites(fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failWrites = fail
}

func (c *MockConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *MockConn) Frames() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interface{}(nil), c.frames...)
}

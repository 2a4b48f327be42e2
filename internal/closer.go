package internal

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Closer runs its release function at most once.
type Closer interface {
	Close() error
	Closed() bool
}

var _ Closer = (*onceCloser)(nil)

type onceCloser struct {
	once   sync.Once
	closed atomic.Bool
	fn     func() error
	err    error
}

// NewOnceCloser returns a Closer calling fn on the first Close.
// A nil fn yields a Closer that only records being closed.
func NewOnceCloser(fn func() error) Closer { return &onceCloser{fn: fn} }

func (c *onceCloser) Close() error {
	if c == nil {
		return nil
	}
	c.once.Do(func() {
		c.closed.Store(true)
		if c.fn != nil {
			c.err = c.fn()
		}
		c.fn = nil
	})
	return c.err
}

func (c *onceCloser) Closed() bool { return c != nil && c.closed.Load() }

// CloseWith closes c once obj becomes unreachable.
// obj must not carry another finalizer.
func CloseWith[T any](obj *T, c Closer) {
	if obj == nil || c == nil {
		return
	}
	runtime.SetFinalizer(obj, func(*T) { _ = c.Close() })
}

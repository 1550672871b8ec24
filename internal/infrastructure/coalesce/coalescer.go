package coalesce

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Coalescer merges concurrent calls for the same key into a single
// execution. Every caller attached to a key receives the value or error of
// that one execution. The key is released as soon as fn returns, so the
// next call for it runs fn again.
//
// The zero value is ready to use.
type Coalescer[V any] struct {
	group    singleflight.Group
	inFlight atomic.Int64
}

// New creates a Coalescer
func New[V any]() *Coalescer[V] {
	return &Coalescer[V]{}
}

// Do runs fn unless a call for key is already in flight, in which case it
// waits for that call and shares its result. shared reports whether the
// result went to more than one caller.
func (c *Coalescer[V]) Do(key string, fn func() (V, error)) (v V, err error, shared bool) {
	res, err, shared := c.group.Do(key, func() (interface{}, error) {
		c.inFlight.Add(1)
		defer c.inFlight.Add(-1)
		return fn()
	})
	if typed, ok := res.(V); ok {
		v = typed
	}
	return v, err, shared
}

// InFlight returns the number of keys with a call currently running
func (c *Coalescer[V]) InFlight() int {
	return int(c.inFlight.Load())
}

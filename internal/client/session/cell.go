package session

import "sync"

// Cell is a shared, observable value with a defined update/read contract:
// one owner writes, everyone else reads the live value at use time instead
// of capturing it when a callback was registered.
type Cell[T any] struct {
	mu        sync.RWMutex
	v         T
	nextID    int
	listeners map[int]func(T)
}

func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{v: initial, listeners: map[int]func(T){}}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

// Set stores v and notifies listeners synchronously, in unspecified order.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.v = v
	fns := make([]func(T), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Watch registers fn to run on every Set. The returned function removes the
// listener; calling it more than once is a no-op.
func (c *Cell[T]) Watch(fn func(T)) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

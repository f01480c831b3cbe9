package ditest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bronystylecrazy/diref/di"
)

// ErrNotFound is wrapped by Container.Get for unknown ids.
var ErrNotFound = errors.New("ditest: entry not found")

// Call records one Container.Get.
type Call struct {
	ID     string
	Params di.Params
}

// Container is a map-backed di.Container for tests. It records every
// lookup and caches nothing.
type Container struct {
	mu        sync.Mutex
	factories map[string]func(di.Params) (any, error)
	calls     []Call
}

var _ di.Container = (*Container)(nil)

func NewContainer() *Container {
	return &Container{factories: make(map[string]func(di.Params) (any, error))}
}

// Set registers a fixed value under id.
func (c *Container) Set(id string, value any) *Container {
	return c.Factory(id, func(di.Params) (any, error) { return value, nil })
}

// Factory registers fn under id; fn runs on every Get.
func (c *Container) Factory(id string, fn func(di.Params) (any, error)) *Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[id] = fn
	return c
}

// Fail makes Get(id) return err.
func (c *Container) Fail(id string, err error) *Container {
	return c.Factory(id, func(di.Params) (any, error) { return nil, err })
}

func (c *Container) Get(id string, params di.Params) (any, error) {
	c.mu.Lock()
	c.calls = append(c.calls, Call{ID: id, Params: params})
	fn, ok := c.factories[id]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return fn(params)
}

// Calls returns a copy of the recorded lookups.
func (c *Container) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallCount returns how many times id was looked up.
func (c *Container) CallCount(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, call := range c.calls {
		if call.ID == id {
			n++
		}
	}
	return n
}

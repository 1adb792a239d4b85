package callback

import (
	"sync"
	"sync/atomic"
)

// Completion signals a Completer exactly once. Take it at the start of an
// invocation and defer Release.
type Completion struct {
	completer Completer
	once      sync.Once
	released  atomic.Bool
}

// NewCompletion guards c.
func NewCompletion(c Completer) *Completion {
	return &Completion{completer: c}
}

// Release signals completion on the first call and does nothing after.
func (c *Completion) Release() {
	c.once.Do(func() {
		c.released.Store(true)
		if c.completer != nil {
			c.completer.CompleteRequest()
		}
	})
}

// Released reports whether Release has run.
func (c *Completion) Released() bool {
	return c.released.Load()
}

package pool

import (
	"sync"

	"github.com/jzx17/roundpool/pkg/codec"
	"github.com/jzx17/roundpool/pkg/types"
)

// taskChannel is a dedicated two-endpoint pipe for exactly one
// request/response exchange. The host side receives; the worker side
// replies at most once. Far cheaper than a worker, but owned resources
// are released promptly by closing once the exchange settles.
type taskChannel struct {
	ch chan codec.Payload

	mu      sync.Mutex
	closed  bool
	replied bool
}

func newTaskChannel() *taskChannel {
	return &taskChannel{ch: make(chan codec.Payload, 1)}
}

// reply posts the single response. A second reply, or a reply after the
// channel settled, returns an error and is otherwise dropped.
func (c *taskChannel) reply(p codec.Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return types.ErrChannelClosed
	}
	if c.replied {
		return types.ErrAlreadyReplied
	}
	c.replied = true
	c.ch <- p
	return nil
}

// receive returns the host-side endpoint. It yields the single response,
// or closes without a value when the exchange is torn down.
func (c *taskChannel) receive() <-chan codec.Payload {
	return c.ch
}

// close tears down both endpoints; idempotent
func (c *taskChannel) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

package pool

import (
	"sync"
	"time"

	"github.com/jzx17/roundpool/pkg/codec"
	"github.com/jzx17/roundpool/pkg/types"
)

// pendingTask tracks one submission from dispatch until settlement. It is
// fed by two independent event sources, the task channel and the target
// worker's exit listener, and settles exactly once with whichever fires
// first. The loser is always deregistered.
type pendingTask struct {
	result chan types.Result[codec.Payload]
	once   sync.Once
	clock  types.Clock
	start  time.Time
}

func newPendingTask(clock types.Clock) *pendingTask {
	return &pendingTask{
		result: make(chan types.Result[codec.Payload], 1),
		clock:  clock,
		start:  clock.Now(),
	}
}

// settle delivers the result; only the first caller wins
func (t *pendingTask) settle(r types.Result[codec.Payload]) bool {
	won := false
	t.once.Do(func() {
		r.Duration = t.clock.Since(t.start)
		t.result <- r
		close(t.result)
		won = true
	})
	return won
}

func (t *pendingTask) fulfill(v codec.Payload) bool {
	return t.settle(types.Result[codec.Payload]{Value: v})
}

func (t *pendingTask) reject(err error) bool {
	return t.settle(types.Result[codec.Payload]{Error: err})
}

// await receives the single response on the host endpoint, deregisters
// the exit listener and releases the channel. If the channel closes
// without a value the exit listener has already settled the task.
func (t *pendingTask) await(tc *taskChannel, w *worker, listener int64) {
	v, ok := <-tc.receive()
	if !ok {
		return
	}
	w.removeExitListener(listener)
	tc.close()
	t.fulfill(v)
}

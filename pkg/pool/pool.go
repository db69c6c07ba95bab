package pool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jzx17/roundpool/pkg/codec"
	"github.com/jzx17/roundpool/pkg/types"
)

// Pool distributes tasks across a fixed roster of workers by stateless
// round robin and repairs slots whose worker exits abnormally
type Pool struct {
	config *Config
	entry  EntryPoint

	// slots holds exactly one live worker per index; occupants are
	// replaceable, indexes are not
	slots []*worker

	// cursor grows without bound; uint64 wraparound keeps the modulus
	// correct over the pool's whole lifetime
	cursor uint64

	// state management
	state     int32 // 0: created, 1: running, 2: closed
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	// statistics
	submitted    int64
	rejected     int64
	replacements int64

	// synchronization
	mu sync.RWMutex
}

// New creates a pool with one slot per Size. Workers are launched by
// Start, replacements by the exit observer.
func New(entry EntryPoint, config *Config) (*Pool, error) {
	if entry == nil {
		return nil, fmt.Errorf("entry point cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Size <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", config.Size)
	}
	config.normalize()

	return &Pool{
		config: config,
		entry:  entry,
		slots:  make([]*worker, config.Size),
	}, nil
}

// Start launches one worker per slot and begins observing exits
func (p *Pool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.state, 0, 1) {
		if atomic.LoadInt32(&p.state) == 1 {
			return types.ErrPoolRunning
		}
		return types.ErrPoolClosed
	}

	p.ctx, p.cancel = context.WithCancel(ctx)

	p.mu.Lock()
	for i := range p.slots {
		w := startWorker(p.ctx, i, p.entry, p.config)
		p.slots[i] = w
		go p.watch(w)
	}
	p.mu.Unlock()

	p.config.Logger.WithField("size", p.config.Size).Debug("pool started")
	return nil
}

// watch is the one-shot exit observer registered for every worker
// instance at creation time. Abnormal exits repair the slot in place;
// graceful exits do not.
func (p *Pool) watch(w *worker) {
	<-w.exited
	ev := w.exit

	if p.config.GracefulExit(ev) {
		p.config.Logger.WithFields(logrus.Fields{
			"slot":       ev.Slot,
			"worker":     w.id,
			"code":       ev.Code,
			"deliberate": ev.Deliberate,
		}).Debug("worker exited gracefully")
		return
	}

	p.mu.Lock()
	if atomic.LoadInt32(&p.state) != 1 || p.slots[ev.Slot] != w {
		p.mu.Unlock()
		return
	}
	replacement := startWorker(p.ctx, ev.Slot, p.entry, p.config)
	p.slots[ev.Slot] = replacement
	p.mu.Unlock()

	atomic.AddInt64(&p.replacements, 1)
	p.config.Logger.WithFields(logrus.Fields{
		"slot":        ev.Slot,
		"worker":      w.id,
		"code":        ev.Code,
		"replacement": replacement.id,
	}).Warn("worker exited abnormally, slot repaired")

	go p.watch(replacement)
}

// SubmitAsync routes the payload to the next round-robin slot and
// returns a one-shot channel that settles exactly once: with the
// worker's single response, or with a WorkerExitError if the target
// worker exits first. A task lost to a crash is never resubmitted.
func (p *Pool) SubmitAsync(payload interface{}) (<-chan types.Result[codec.Payload], error) {
	if state := atomic.LoadInt32(&p.state); state != 1 {
		if state == 0 {
			return nil, types.ErrPoolNotStarted
		}
		return nil, types.ErrPoolClosed
	}
	if payload == nil {
		return nil, types.ErrNilPayload
	}

	data, err := p.config.Codec.Marshal(payload)
	if err != nil {
		return nil, err
	}

	// pure round robin: no health-awareness, no affinity
	seq := atomic.AddUint64(&p.cursor, 1) - 1
	slot := int(seq % uint64(len(p.slots)))

	p.mu.RLock()
	w := p.slots[slot]
	p.mu.RUnlock()

	atomic.AddInt64(&p.submitted, 1)

	tc := newTaskChannel()
	task := newPendingTask(p.config.Clock)

	// register the exit listener before sending so a crash occurring
	// before any response still settles the task
	listener := w.addExitListener(func(ev ExitEvent) {
		tc.close()
		if task.reject(types.NewWorkerExitError(ev.Slot, ev.Code)) {
			atomic.AddInt64(&p.rejected, 1)
		}
	})

	msg := newMessage(data, &ReplyPort{tc: tc, codec: p.config.Codec})
	if err := w.send(msg); err == nil {
		go task.await(tc, w, listener)
	}
	// a failed send means the worker already exited, so the exit
	// listener has settled the task

	return task.result, nil
}

// Submit dispatches the payload and waits for settlement. ctx abandons
// the wait only: a dispatched task cannot be canceled and has no
// timeout.
func (p *Pool) Submit(ctx context.Context, payload interface{}) (codec.Payload, error) {
	result, err := p.SubmitAsync(payload)
	if err != nil {
		return nil, err
	}

	select {
	case r := <-result:
		return r.Value, r.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Broadcast sends the payload to the current occupant of every slot,
// fire-and-forget: no response is awaited and no delivery failure is
// surfaced. Broadcast never blocks the caller.
func (p *Pool) Broadcast(payload interface{}) error {
	if state := atomic.LoadInt32(&p.state); state != 1 {
		if state == 0 {
			return types.ErrPoolNotStarted
		}
		return types.ErrPoolClosed
	}
	if payload == nil {
		return types.ErrNilPayload
	}

	data, err := p.config.Codec.Marshal(payload)
	if err != nil {
		return err
	}

	p.mu.RLock()
	targets := make([]*worker, len(p.slots))
	copy(targets, p.slots)
	p.mu.RUnlock()

	for _, w := range targets {
		msg := newMessage(data, nil)
		go func(w *worker, msg Message) {
			_ = w.send(msg)
		}(w, msg)
	}

	return nil
}

// Close terminates every current worker and waits for them to exit,
// bounded by CloseTimeout per worker. The pool becomes permanently
// closed; subsequent Submit and Broadcast calls return ErrPoolClosed.
func (p *Pool) Close() error {
	var closeErr error

	p.closeOnce.Do(func() {
		started := atomic.SwapInt32(&p.state, 2) == 1
		if !started {
			return
		}

		p.mu.RLock()
		targets := make([]*worker, 0, len(p.slots))
		for _, w := range p.slots {
			if w != nil {
				targets = append(targets, w)
			}
		}
		p.mu.RUnlock()

		for _, w := range targets {
			w.terminate()
		}

		var g errgroup.Group
		for _, w := range targets {
			w := w
			g.Go(func() error {
				timer := p.config.Clock.NewTimer(p.config.CloseTimeout)
				defer timer.Stop()

				select {
				case <-w.exited:
					return nil
				case <-timer.C():
					return fmt.Errorf("timeout waiting for worker at slot %d to exit", w.slot)
				}
			})
		}
		closeErr = g.Wait()

		if p.cancel != nil {
			p.cancel()
		}
		p.config.Logger.Debug("pool closed")
	})

	return closeErr
}

// Size returns the fixed number of slots
func (p *Pool) Size() int {
	return p.config.Size
}

// IsRunning checks if the pool is running
func (p *Pool) IsRunning() bool {
	return atomic.LoadInt32(&p.state) == 1
}

// IsClosed checks if the pool is closed
func (p *Pool) IsClosed() bool {
	return atomic.LoadInt32(&p.state) == 2
}

package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/jzx17/roundpool/pkg/types"
)

// WorkerState defines the state of a worker instance
type WorkerState int32

const (
	// WorkerStateStarting represents a worker whose goroutine is launching
	WorkerStateStarting WorkerState = iota
	// WorkerStateRunning represents a running worker
	WorkerStateRunning
	// WorkerStateExitingGraceful represents a deliberate or clean exit in progress
	WorkerStateExitingGraceful
	// WorkerStateExitingAbnormal represents a crash exit in progress
	WorkerStateExitingAbnormal
	// WorkerStateTerminated is final; a terminated instance is never revived
	WorkerStateTerminated
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateStarting:
		return "starting"
	case WorkerStateRunning:
		return "running"
	case WorkerStateExitingGraceful:
		return "exiting-graceful"
	case WorkerStateExitingAbnormal:
		return "exiting-abnormal"
	case WorkerStateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// PanicExitCode is the exit code reported when an entry point panics
const PanicExitCode = 2

// EntryPoint is the fixed function every worker in a pool runs. It
// consumes messages from its inbox until the inbox drains and ctx is
// done, then returns its exit code. For every message carrying a Reply
// endpoint the entry point must eventually post exactly one response;
// posting none leaves the task pending until the worker exits.
type EntryPoint func(ctx context.Context, slot int, inbox <-chan Message) int

// ExitEvent describes the termination of one worker instance
type ExitEvent struct {
	// Slot is the index the instance occupied
	Slot int

	// Code is the exit code returned by the entry point, or
	// PanicExitCode if it panicked
	Code int

	// Deliberate marks pool-initiated termination
	Deliberate bool
}

// ExitListener observes a single worker exit. Listeners are one-shot:
// they are cleared when the worker exits or when removed.
type ExitListener func(ExitEvent)

// worker is one isolated background execution unit occupying a slot.
// The instance is replaceable; the slot index is not.
type worker struct {
	id     string
	slot   int
	inbox  chan Message
	cancel context.CancelFunc
	exited chan struct{}
	exit   ExitEvent // valid once exited is closed

	state    int32 // atomic WorkerState
	graceful func(ExitEvent) bool
	log      *logrus.Logger

	mu         sync.Mutex
	listeners  map[int64]ExitListener
	nextListen int64
	terminated bool
}

// startWorker launches a new instance at the given slot. Messages may be
// sent before the entry point starts consuming; the inbox buffers them.
func startWorker(ctx context.Context, slot int, entry EntryPoint, config *Config) *worker {
	wctx, cancel := context.WithCancel(ctx)
	w := &worker{
		id:        ulid.Make().String(),
		slot:      slot,
		inbox:     make(chan Message, config.MailboxSize),
		cancel:    cancel,
		exited:    make(chan struct{}),
		state:     int32(WorkerStateStarting),
		graceful:  config.GracefulExit,
		log:       config.Logger,
		listeners: make(map[int64]ExitListener),
	}

	go w.run(wctx, entry)

	w.log.WithFields(logrus.Fields{
		"slot":   slot,
		"worker": w.id,
	}).Debug("worker started")

	return w
}

func (w *worker) run(ctx context.Context, entry EntryPoint) {
	atomic.StoreInt32(&w.state, int32(WorkerStateRunning))
	w.finish(w.invoke(ctx, entry))
}

// invoke runs the entry point with panic recovery; a panic becomes an
// abnormal exit rather than crashing the host process
func (w *worker) invoke(ctx context.Context, entry EntryPoint) (code int) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)

			w.log.WithFields(logrus.Fields{
				"slot":   w.slot,
				"worker": w.id,
				"panic":  fmt.Sprint(r),
				"stack":  string(buf[:n]),
			}).Error("worker panicked")

			code = PanicExitCode
		}
	}()

	return entry(ctx, w.slot, w.inbox)
}

// finish records the exit event and clears the listener registry.
// Listeners fire only on an abnormal exit: a graceful or deliberate exit
// synthesizes no rejection. Terminated is final for this instance.
func (w *worker) finish(code int) {
	w.mu.Lock()
	ev := ExitEvent{Slot: w.slot, Code: code, Deliberate: w.terminated}
	w.exit = ev
	listeners := w.listeners
	w.listeners = nil
	w.mu.Unlock()

	exiting := WorkerStateExitingAbnormal
	if w.graceful(ev) {
		exiting = WorkerStateExitingGraceful
	}
	atomic.StoreInt32(&w.state, int32(exiting))

	if exiting == WorkerStateExitingAbnormal {
		for _, fn := range listeners {
			fn(ev)
		}
	}

	atomic.StoreInt32(&w.state, int32(WorkerStateTerminated))
	close(w.exited)
}

// addExitListener registers a one-shot exit observer. If the worker has
// already exited abnormally the listener fires immediately; id 0 is
// returned whenever nothing was registered.
func (w *worker) addExitListener(fn ExitListener) int64 {
	w.mu.Lock()
	if w.listeners == nil {
		ev := w.exit
		w.mu.Unlock()
		if !w.graceful(ev) {
			fn(ev)
		}
		return 0
	}
	w.nextListen++
	id := w.nextListen
	w.listeners[id] = fn
	w.mu.Unlock()
	return id
}

// removeExitListener deregisters a listener so a settled task leaks
// nothing on its target worker
func (w *worker) removeExitListener(id int64) {
	if id == 0 {
		return
	}
	w.mu.Lock()
	if w.listeners != nil {
		delete(w.listeners, id)
	}
	w.mu.Unlock()
}

// send delivers a message to the worker inbox in send order
func (w *worker) send(msg Message) error {
	select {
	case <-w.exited:
		return types.ErrWorkerExited
	default:
	}

	select {
	case w.inbox <- msg:
		return nil
	case <-w.exited:
		return types.ErrWorkerExited
	}
}

// terminate marks the exit deliberate and asks the entry point to return.
// The entry point contract requires returning promptly once ctx is done.
func (w *worker) terminate() {
	w.mu.Lock()
	w.terminated = true
	w.mu.Unlock()
	w.cancel()
}

// State returns the current worker state
func (w *worker) State() WorkerState {
	return WorkerState(atomic.LoadInt32(&w.state))
}

/*
Package pool provides a fixed-size pool of isolated background workers with
round-robin dispatch and automatic crash recovery.

# Overview

A Pool owns a fixed roster of slots, each occupied by exactly one worker
instance running the pool's entry point. Submissions are routed by stateless
round robin: submission i lands on slot i mod size, with no awareness of
worker load or health. Each submission opens a dedicated task channel that
carries the payload to the worker and exactly one response back.

# Failure recovery

Every worker instance carries a one-shot exit observer registered at
creation. When an instance exits abnormally the slot is repaired in place
with a fresh instance, and every task still outstanding on the old instance
is rejected with an error naming the exit code. Rejected tasks are never
resubmitted: losing in-flight work on a crash is preferred over risking
duplicate execution. Graceful exits (pool-initiated termination, or whatever
Config.GracefulExit classifies as such) trigger neither repair nor
rejection.

# What the pool does not do

There is no priority or fairness scheduling beyond round robin, no
queueing or backpressure when workers are busy, no automatic retry, and no
timeout or cancellation of a dispatched task. Submit's context only abandons
the caller's wait.

# Usage

	entry := func(ctx context.Context, slot int, inbox <-chan pool.Message) int {
		for {
			select {
			case msg := <-inbox:
				var req string
				if err := msg.Payload.Decode(&req); err != nil {
					return 1
				}
				if msg.Reply != nil {
					_ = msg.Reply.Reply("echo: " + req)
				}
			case <-ctx.Done():
				return 0
			}
		}
	}

	p, err := pool.New(entry, &pool.Config{Size: 4})
	if err != nil {
		log.Fatal(err)
	}
	if err := p.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	resp, err := p.Submit(context.Background(), "hello")

# Worker contract

The entry point runs in its own goroutine and returns its exit code; a
panic is reported as PanicExitCode. For every message carrying a Reply
endpoint it must eventually post exactly one response: zero responses leave
the task pending until the worker exits, surplus responses are dropped. It
must return promptly once its context is done.
*/
package pool

package types

import "time"

// Result defines the settlement of an asynchronous submission. Exactly one
// Result is delivered per submission, on a one-shot channel.
type Result[R any] struct {
	// Value is the response carried back on the task channel
	Value R

	// Error is set when the task was rejected instead of fulfilled
	Error error

	// Duration is the time between dispatch and settlement
	Duration time.Duration
}

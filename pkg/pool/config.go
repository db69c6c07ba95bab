package pool

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jzx17/roundpool/pkg/codec"
	"github.com/jzx17/roundpool/pkg/types"
)

// Config defines configuration for a Pool
type Config struct {
	// Size is the number of slots; fixed at construction, never resized
	Size int

	// MailboxSize is the per-worker inbox buffer. Messages sent before a
	// worker's loop starts consuming are buffered by the transport.
	MailboxSize int

	// CloseTimeout bounds how long Close waits for each worker to exit
	CloseTimeout time.Duration

	// GracefulExit classifies a worker exit. Graceful exits trigger no
	// slot repair and no task rejection beyond what the exit itself
	// caused. Defaults to DefaultGracefulExit.
	GracefulExit func(ExitEvent) bool

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Logger for lifecycle events (optional)
	Logger *logrus.Logger

	// Codec serializes payloads and responses across the worker boundary
	// (optional, defaults to MessagePack)
	Codec codec.Codec
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Size:         4,
		MailboxSize:  16,
		CloseTimeout: 5 * time.Second,
		GracefulExit: DefaultGracefulExit,
		Clock:        types.NewRealClock(),
		Codec:        codec.NewMsgpackCodec(),
	}
}

// DefaultGracefulExit treats pool-initiated termination and a clean zero
// exit code as graceful. Everything else is abnormal and repairs the slot.
// This is an explicit signal, not a numeric code threshold: a worker
// exiting on its own with a low nonzero code is still abnormal.
func DefaultGracefulExit(ev ExitEvent) bool {
	return ev.Deliberate || ev.Code == 0
}

func defaultLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return log
}

// normalize fills missing optional fields with defaults
func (c *Config) normalize() {
	if c.MailboxSize <= 0 {
		c.MailboxSize = 16
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = 5 * time.Second
	}
	if c.GracefulExit == nil {
		c.GracefulExit = DefaultGracefulExit
	}
	if c.Clock == nil {
		c.Clock = types.NewRealClock()
	}
	if c.Logger == nil {
		c.Logger = defaultLogger()
	}
	if c.Codec == nil {
		c.Codec = codec.NewMsgpackCodec()
	}
}

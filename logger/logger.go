// Package logger is a thin front-end over ring.Ring: it enqueues text
// messages from any number of producer goroutines and drains them on a
// single consumer goroutine.
//
// The queue contract (ring.Ring) is the core; this package only adds a
// retry-until-admitted loss policy on top of it and a context-driven
// shutdown signal for the drain loop, following the loss-policy choice of
// the original logger facade.
package logger

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/gubnik/multithreading/ring"
)

// DefaultCapacity is the capacity used when New is called with capacityPow2
// set to zero.
const DefaultCapacity = 16 * 1024 * 1024

// Logger queues text messages via a bounded ring.Ring[string] and drains
// them to a slog.Logger on a single consumer goroutine.
type Logger struct {
	queue *ring.Ring[string]
	sink  *slog.Logger
}

// New constructs a Logger backed by a ring of the given power-of-two
// capacity. sink receives drained messages; if nil, slog.Default() is used.
func New(capacityPow2 uint64, sink *slog.Logger) (*Logger, error) {
	if capacityPow2 == 0 {
		capacityPow2 = DefaultCapacity
	}
	q, err := ring.New[string](capacityPow2, nil)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = slog.Default()
	}
	return &Logger{queue: q, sink: sink}, nil
}

// Post queues text. Called from any number of goroutines. Retries Produce
// on lossy rejection until it is admitted — this facade's policy, not the
// ring's: the underlying queue stays lossy, but the logger guarantees every
// posted message eventually gets through.
func (l *Logger) Post(text string) {
	for !l.queue.Produce(text) {
		runtime.Gosched()
	}
}

// Run drains messages to the sink until ctx is done, then performs one
// final drain of anything still queued before returning.
func (l *Logger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.drainRemaining()
			return
		default:
			if msg, ok := l.queue.TryConsume(); ok {
				l.sink.Info(msg)
			} else {
				runtime.Gosched()
			}
		}
	}
}

func (l *Logger) drainRemaining() {
	for {
		msg, ok := l.queue.TryConsume()
		if !ok {
			return
		}
		l.sink.Info(msg)
	}
}

// Capacity returns the backing ring's capacity.
func (l *Logger) Capacity() uint64 {
	return l.queue.Capacity()
}

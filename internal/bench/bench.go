// Package bench is a timed producer/consumer harness for comparing
// ring.Ring against linked.Queue throughput, generalized from
// i5heu-GoQueueBench/internal/testbench's MPMC harness down to this
// module's contract: any number of producers, exactly one consumer.
package bench

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fastrand"
)

// Config controls one timed run.
type Config struct {
	Producers int
	Duration  time.Duration
}

// Result summarizes one timed run.
type Result struct {
	Produced   int64
	Consumed   int64
	Elapsed    time.Duration
	Throughput float64 // consumed / elapsed.Seconds()
}

// Run spawns cfg.Producers goroutines calling produce(i) in a tight loop,
// and exactly one goroutine calling consume() in a tight loop, for
// cfg.Duration. After the deadline, producers stop and the consumer drains
// whatever remains before Run returns.
//
// produce and consume are closures over the queue under test, since
// ring.Ring.Produce and linked.Queue.Produce do not share a signature (the
// ring reports lossy rejection; the linked queue never rejects).
func Run(cfg Config, produce func(i int) bool, consume func() (int, bool)) Result {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	var produced, consumed int64
	var stopped int32

	start := time.Now()

	go func() {
		<-ctx.Done()
		atomic.StoreInt32(&stopped, 1)
	}()

	var pg sync.WaitGroup
	pg.Add(cfg.Producers)
	var seq int64
	for p := 0; p < cfg.Producers; p++ {
		go func() {
			defer pg.Done()
			for atomic.LoadInt32(&stopped) == 0 {
				i := int(atomic.AddInt64(&seq, 1) - 1)
				if produce(i) {
					atomic.AddInt64(&produced, 1)
				}
				if fastrand.Uint32n(64) == 0 {
					// Occasional jitter: lets other producers interleave
					// rather than one goroutine monopolizing the ticket
					// counter for an entire scheduler quantum.
					time.Sleep(time.Nanosecond)
				}
			}
		}()
	}

	stopConsumer := make(chan struct{})
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			if _, ok := consume(); ok {
				atomic.AddInt64(&consumed, 1)
				continue
			}
			select {
			case <-stopConsumer:
				// The empty consume above may predate the stop signal, so
				// drain once more now that producers are known to be done.
				for {
					if _, ok := consume(); !ok {
						return
					}
					atomic.AddInt64(&consumed, 1)
				}
			default:
			}
		}
	}()

	<-ctx.Done()
	pg.Wait()
	// Producers have fully stopped; nothing more will be produced, so once
	// the consumer next finds the queue empty it has truly drained it.
	close(stopConsumer)
	<-drained

	elapsed := time.Since(start)
	r := Result{Produced: produced, Consumed: consumed, Elapsed: elapsed}
	if elapsed > 0 {
		r.Throughput = float64(consumed) / elapsed.Seconds()
	}
	return r
}

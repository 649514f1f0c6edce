package testbench

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paulbellamy/ratecounter"
	"github.com/remeh/sizedwaitgroup"

	"github.com/i5heu/GoUniqueQueue/internal/queue"
)

// Config describes the concurrency of a timed run.
type Config struct {
	NumProducers int
	NumConsumers int
	// KeySpace bounds the distinct values producers generate. Zero means every
	// produced value is unique; otherwise values repeat modulo KeySpace and a
	// deduplicating queue rejects the repeats that are still queued.
	KeySpace int
}

// Result holds the counters of one timed run.
type Result struct {
	Produced int64 // accepted by Offer
	Rejected int64 // refused by Offer
	Consumed int64
	PeakRate int64 // highest consumed count seen in any one-second window
	Elapsed  time.Duration
}

// drainGrace is how long consumers get to empty the queue once producers stop.
const drainGrace = 100 * time.Millisecond

// RunTimedTest spawns producers and consumers that run for the specified
// duration, measuring how many messages are actually enqueued/dequeued
// in that window. Consumers poll and yield when the queue is empty. Once the
// context expires, producers stop and, after the last producer returns,
// consumers drain any remaining messages.
func RunTimedTest[T any, Q queue.QueueValidationInterface[T]](
	q Q,
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) T,
) Result {
	return runTimed(q, cfg, testDuration, valueGenerator, func(_ context.Context, drain *int32, consumed func()) {
		for {
			if atomic.LoadInt32(drain) == 1 {
				for {
					if _, ok := q.Poll(); !ok {
						return
					}
					consumed()
				}
			}
			if _, ok := q.Poll(); ok {
				consumed()
			} else {
				runtime.Gosched()
			}
		}
	})
}

// RunTimedBlockingTest is RunTimedTest with consumers parked in Take instead
// of spinning on Poll. When production ends the consumers' context is
// cancelled; each keeps taking until the queue is empty and then returns.
func RunTimedBlockingTest[T any, Q queue.BlockingQueueValidationInterface[T]](
	q Q,
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) T,
) Result {
	return runTimed(q, cfg, testDuration, valueGenerator, func(ctx context.Context, _ *int32, consumed func()) {
		for {
			if _, err := q.Take(ctx); err != nil {
				return
			}
			consumed()
		}
	})
}

func runTimed[T any, Q queue.QueueValidationInterface[T]](
	q Q,
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) T,
	consume func(ctx context.Context, drain *int32, consumed func()),
) (res Result) {
	ctx, cancel := context.WithTimeout(context.Background(), testDuration)
	defer cancel()
	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	defer stopConsumers()

	var produced, rejected, consumed int64
	var peak int64
	rate := ratecounter.NewRateCounter(time.Second)

	start := time.Now()

	var msgIndex int64
	var productionDone, drain int32
	var prodWg, consWg sync.WaitGroup

	go func() {
		<-ctx.Done()
		atomic.StoreInt32(&productionDone, 1)
	}()

	// Sample the one-second window so short bursts show up in PeakRate.
	sampleDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if r := rate.Rate(); r > atomic.LoadInt64(&peak) {
					atomic.StoreInt64(&peak, r)
				}
			case <-sampleDone:
				return
			}
		}
	}()

	prodWg.Add(cfg.NumProducers)
	for i := 0; i < cfg.NumProducers; i++ {
		go func() {
			defer prodWg.Done()
			for atomic.LoadInt32(&productionDone) == 0 {
				idx := int(atomic.AddInt64(&msgIndex, 1) - 1)
				if cfg.KeySpace > 0 {
					idx %= cfg.KeySpace
				}
				if q.Offer(valueGenerator(idx)) {
					atomic.AddInt64(&produced, 1)
				} else {
					atomic.AddInt64(&rejected, 1)
				}
			}
		}()
	}

	onConsumed := func() {
		atomic.AddInt64(&consumed, 1)
		rate.Incr(1)
	}
	consWg.Add(cfg.NumConsumers)
	for i := 0; i < cfg.NumConsumers; i++ {
		go func() {
			defer consWg.Done()
			consume(consumerCtx, &drain, onConsumed)
		}()
	}

	<-ctx.Done()
	prodWg.Wait()
	atomic.StoreInt32(&drain, 1)

	// Give consumers a short period to drain the remaining messages.
	time.Sleep(drainGrace)
	stopConsumers()
	consWg.Wait()
	close(sampleDone)

	res.Elapsed = time.Since(start)
	res.Produced = atomic.LoadInt64(&produced)
	res.Rejected = atomic.LoadInt64(&rejected)
	res.Consumed = atomic.LoadInt64(&consumed)
	res.PeakRate = atomic.LoadInt64(&peak)
	return res
}

// RunContention starts n goroutines, at most limit at a time, that all Add the
// same value. It returns how many of those calls reported an insert.
func RunContention[T any, Q interface{ Add(T) bool }](q Q, n, limit int, v T) int {
	if limit <= 0 {
		limit = n
	}
	var inserted int64
	swg := sizedwaitgroup.New(limit)
	for i := 0; i < n; i++ {
		swg.Add()
		go func() {
			defer swg.Done()
			if q.Add(v) {
				atomic.AddInt64(&inserted, 1)
			}
		}()
	}
	swg.Wait()
	return int(inserted)
}

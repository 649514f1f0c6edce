package main

import (
	"context"
	"time"

	"github.com/enriquebris/goconcurrentqueue"

	"github.com/i5heu/GoUniqueQueue/internal/logger"
	"github.com/i5heu/GoUniqueQueue/internal/testbench"
	"github.com/i5heu/GoUniqueQueue/pkg/config"
	"github.com/i5heu/GoUniqueQueue/pkg/uniquequeue"
)

type benchQueue = interface {
	Offer(int) bool
	Poll() (int, bool)
	Size() int
}

type blockingBenchQueue = interface {
	benchQueue
	Take(context.Context) (int, error)
}

// Implementation represents a queue implementation under test.
type Implementation struct {
	name        string
	description string
	pkgName     string
	features    []string
	newQueue    func() benchQueue
}

func (impl Implementation) hasFeature(feature string) bool {
	for _, f := range impl.features {
		if f == feature {
			return true
		}
	}
	return false
}

// run drives one timed run, parking consumers in Take when the
// implementation is blocking.
func (impl Implementation) run(q benchQueue, cfg config.Config, d time.Duration) testbench.Result {
	gen := func(i int) int { return i }
	if bq, ok := q.(blockingBenchQueue); ok && impl.hasFeature("Blocking") {
		return testbench.RunTimedBlockingTest[int](bq, cfg, d, gen)
	}
	return testbench.RunTimedTest[int](q, cfg, d, gen)
}

// fifoAdapter exposes goconcurrentqueue's FIFO through the harness surface.
// It does not deduplicate, so it is the baseline cost of an unbounded
// locked FIFO without the presence index.
type fifoAdapter struct {
	q *goconcurrentqueue.FIFO
}

func (a fifoAdapter) Offer(v int) bool {
	return a.q.Enqueue(v) == nil
}

func (a fifoAdapter) Poll() (int, bool) {
	v, err := a.q.Dequeue()
	if err != nil {
		return 0, false
	}
	return v.(int), true
}

func (a fifoAdapter) Size() int {
	return a.q.GetLen()
}

// getImplementations enumerates the queue implementations we benchmark.
func getImplementations() []Implementation {
	return []Implementation{
		{
			name:        "UniqueQueue (Poll)",
			pkgName:     "uniquequeue",
			description: "Ordered-set backed deduplicating queue, consumers spin on Poll.",
			features:    []string{"MPMC", "FIFO", "Dedup", "Unbounded"},
			newQueue: func() benchQueue {
				return uniquequeue.New[int](uniquequeue.WithLogger(logger.L().Named("queue")))
			},
		},
		{
			name:        "UniqueQueue (Take)",
			pkgName:     "uniquequeue",
			description: "Ordered-set backed deduplicating queue, consumers block in Take.",
			features:    []string{"MPMC", "FIFO", "Dedup", "Unbounded", "Blocking"},
			newQueue: func() benchQueue {
				return uniquequeue.New[int](uniquequeue.WithLogger(logger.L().Named("queue")))
			},
		},
		{
			name:        "goconcurrentqueue FIFO",
			pkgName:     "goconcurrentqueue",
			description: "Slice-backed locked FIFO without deduplication.",
			features:    []string{"MPMC", "FIFO", "Unbounded"},
			newQueue: func() benchQueue {
				return fifoAdapter{q: goconcurrentqueue.NewFIFO()}
			},
		},
	}
}

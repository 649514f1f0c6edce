package testbench

import (
	"time"

	"github.com/i5heu/GoUniqueQueue/internal/queue"
)

// Operations measured by RunOpBenchmark, in report order.
var Operations = []string{"add", "contains", "remove", "poll"}

// OpResult is the steady-state timing of one operation.
type OpResult struct {
	Operation  string  `json:"operation"`
	Iterations int     `json:"iterations"`
	NsPerOp    float64 `json:"ns_per_op"`
	Hits       int     `json:"hits"` // calls that returned true
}

// Probe is the element the per-operation runs add, look up and remove.
var Probe = Employee{ID: 100, Name: "Harry"}

// Prefill adds n employees named John with ids 0..n-1.
func Prefill[Q queue.DedupQueueValidationInterface[Employee]](q Q, n int) {
	for i := 0; i < n; i++ {
		q.Add(Employee{ID: int64(i), Name: "John"})
	}
}

// RunOpBenchmark times each operation against its own freshly prefilled
// queue, calling it iterations times in a tight loop. State carries over
// between calls, so add hits once and poll drains the prefill before it starts
// hitting an empty queue.
func RunOpBenchmark[Q queue.DedupQueueValidationInterface[Employee]](
	newQueue func() Q,
	prefill int,
	iterations int,
) []OpResult {
	if iterations < 1 {
		iterations = 1
	}
	results := make([]OpResult, 0, len(Operations))
	for _, op := range Operations {
		q := newQueue()
		Prefill(q, prefill)

		call := opFunc(q, op)
		hits := 0
		start := time.Now()
		for i := 0; i < iterations; i++ {
			if call() {
				hits++
			}
		}
		elapsed := time.Since(start)

		results = append(results, OpResult{
			Operation:  op,
			Iterations: iterations,
			NsPerOp:    float64(elapsed.Nanoseconds()) / float64(iterations),
			Hits:       hits,
		})
	}
	return results
}

func opFunc[Q queue.DedupQueueValidationInterface[Employee]](q Q, op string) func() bool {
	switch op {
	case "add":
		return func() bool { return q.Add(Probe) }
	case "contains":
		return func() bool { return q.Contains(Probe) }
	case "remove":
		return func() bool { return q.RemoveValue(Probe) }
	case "poll":
		return func() bool {
			_, ok := q.Poll()
			return ok
		}
	}
	panic("testbench: unknown operation " + op)
}

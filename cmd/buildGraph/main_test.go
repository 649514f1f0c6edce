package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 2.0, median([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
}

func TestAverageOfRange(t *testing.T) {
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = float64(i)
	}
	assert.Equal(t, 2.0, averageOfRange(vals, 0, 0.05))
	assert.Equal(t, 97.0, averageOfRange(vals, 0.95, 1.0))
	// Too few samples for a 5% slice falls back to the median.
	assert.Equal(t, 2.0, averageOfRange([]float64{1, 2, 3}, 0, 0.05))
}

func TestFormatNs(t *testing.T) {
	assert.Equal(t, "512ns", formatNs(512))
	assert.Equal(t, "1.5µs", formatNs(1500))
	assert.Equal(t, "2.0ms", formatNs(2e6))
	assert.Equal(t, "3.00s", formatNs(3e9))
}

func TestGroupNsPerMsg(t *testing.T) {
	var s session
	s.SystemInfo.NumCPU = 8
	s.SystemInfo.SimulatedCPUCount = 2
	s.Benchmarks = []benchmarkResult{
		{Implementation: "A", NumProducers: 2, NumConsumers: 2, NumMessagesConsumed: 1000, ActualElapsed: "1ms"},
		{Implementation: "A", NumProducers: 2, NumConsumers: 2, NumMessagesConsumed: 0, ActualElapsed: "1ms"},
		{Implementation: "B", NumProducers: 2, NumConsumers: 2, NumMessagesConsumed: 10, ActualElapsed: "bogus"},
	}

	grouped := groupNsPerMsg([]session{s})
	require.Contains(t, grouped, 2)
	assert.Equal(t, []float64{1000}, grouped[2]["A"][4])
	assert.NotContains(t, grouped[2], "B")
}

func TestGroupOpsAndPlot(t *testing.T) {
	var s session
	s.Operations = []opResult{
		{Operation: "add", NsPerOp: 20},
		{Operation: "add", NsPerOp: 30},
		{Operation: "poll", NsPerOp: 10},
	}
	ops := groupOps([]session{s})
	assert.Equal(t, []float64{20, 30}, ops["add"])

	p, err := opsPlot(ops)
	require.NoError(t, err)
	assert.Equal(t, "UniqueQueue operation cost (median)", p.Title.Text)
}

func TestBuildStats(t *testing.T) {
	stats := buildStats(map[float64][]float64{4: {3, 1, 2}})
	require.Len(t, stats, 1)
	assert.Equal(t, 4.0, stats[0].orig)
	assert.Equal(t, 2.0, stats[0].median)
	assert.Equal(t, 2.0, stats[0].min)
	assert.Equal(t, 2.0, stats[0].max)
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/color"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// benchmarkResult is the subset of a bench run result the graphs need.
type benchmarkResult struct {
	Implementation      string `json:"implementation"`
	NumProducers        int    `json:"num_producers"`
	NumConsumers        int    `json:"num_consumers"`
	NumMessagesConsumed int64  `json:"num_messages_consumed"`
	ActualElapsed       string `json:"actual_elapsed"`
}

type opResult struct {
	Operation string  `json:"operation"`
	NsPerOp   float64 `json:"ns_per_op"`
}

type session struct {
	SystemInfo struct {
		NumCPU            int `json:"num_cpu"`
		SimulatedCPUCount int `json:"simulated_cpu_count"`
	} `json:"system_info"`
	Benchmarks []benchmarkResult `json:"benchmarks"`
	Operations []opResult        `json:"operations"`
}

// concurrencyStats holds "5%-avg-min", median, and "5%-avg-max" for one concurrency level.
type concurrencyStats struct {
	x      float64 // category index plus per-implementation offset
	orig   float64 // producers + consumers
	min    float64 // average of bottom 5%
	median float64
	max    float64 // average of top 5%
}

// statsPoints implements XYer and YErrorer so we can plot lines + error bars.
type statsPoints []concurrencyStats

func (s statsPoints) Len() int                { return len(s) }
func (s statsPoints) XY(i int) (x, y float64) { return s[i].x, s[i].median }
func (s statsPoints) YError(i int) (low, high float64) {
	return s[i].median - s[i].min, s[i].max - s[i].median
}

// categoryTicks implements a categorical X-axis: 0,1,2,... => labels.
type categoryTicks struct {
	positions []float64
	labels    []string
}

func (ct categoryTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for i, pos := range ct.positions {
		if pos >= min && pos <= max {
			ticks = append(ticks, plot.Tick{Value: pos, Label: ct.labels[i]})
		}
	}
	return ticks
}

var (
	background = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	foreground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// darkPlot returns a plot with the dark theme applied.
func darkPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.BackgroundColor = background
	p.Title.TextStyle.Color = foreground
	p.X.Label.TextStyle.Color = foreground
	p.Y.Label.TextStyle.Color = foreground
	p.X.Color = foreground
	p.Y.Color = foreground
	p.X.Tick.Label.Color = foreground
	p.Y.Tick.Label.Color = foreground
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Color = foreground
	p.Add(plotter.NewGrid())
	return p
}

// nsTicks spreads roughly one labelled tick every 30px over a 9 inch axis,
// evenly in log space.
func nsTicks(min, max float64) []plot.Tick {
	const nTicks = 648.0 / 30.0
	if min <= 0 {
		min = 1e-9
	}
	start := math.Log10(min)
	step := (math.Log10(max) - start) / nTicks

	var ticks []plot.Tick
	for i := 0.0; i <= nTicks; i++ {
		y := math.Pow(10, start+i*step)
		ticks = append(ticks, plot.Tick{Value: y, Label: formatNs(y)})
	}
	return ticks
}

func main() {
	jsonFile := flag.String("jsonfile", "test-results.json", "Path to JSON file containing test sessions")
	outputPrefix := flag.String("out", "benchmark_graph", "Output graph image filename prefix")
	flag.Parse()

	data, err := os.ReadFile(*jsonFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading JSON file: %v\n", err)
		os.Exit(1)
	}
	var sessions []session
	if err := json.Unmarshal(data, &sessions); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshalling JSON: %v\n", err)
		os.Exit(1)
	}

	for cpus, implMap := range groupNsPerMsg(sessions) {
		p := throughputPlot(cpus, implMap)
		filename := fmt.Sprintf("%s_%d.png", *outputPrefix, cpus)
		if err := p.Save(12*vg.Inch, 9*vg.Inch, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving plot for %d CPU(s): %v\n", cpus, err)
			continue
		}
		fmt.Printf("Graph for %d CPU(s) saved to %s\n", cpus, filename)
	}

	if ops := groupOps(sessions); len(ops) > 0 {
		p, err := opsPlot(ops)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating operations chart: %v\n", err)
			os.Exit(1)
		}
		filename := *outputPrefix + "_ops.png"
		if err := p.Save(8*vg.Inch, 6*vg.Inch, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving operations chart: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Operations chart saved to %s\n", filename)
	}
}

// groupNsPerMsg groups results by CPU count -> implementation -> concurrency
// -> ns/msg samples.
func groupNsPerMsg(sessions []session) map[int]map[string]map[float64][]float64 {
	out := make(map[int]map[string]map[float64][]float64)
	for _, s := range sessions {
		cpus := s.SystemInfo.SimulatedCPUCount
		if cpus == 0 {
			cpus = s.SystemInfo.NumCPU
		}
		for _, b := range s.Benchmarks {
			dur, err := time.ParseDuration(b.ActualElapsed)
			if err != nil || b.NumMessagesConsumed == 0 {
				continue
			}
			if out[cpus] == nil {
				out[cpus] = make(map[string]map[float64][]float64)
			}
			if out[cpus][b.Implementation] == nil {
				out[cpus][b.Implementation] = make(map[float64][]float64)
			}
			x := float64(b.NumProducers + b.NumConsumers)
			nsPerMsg := float64(dur.Nanoseconds()) / float64(b.NumMessagesConsumed)
			out[cpus][b.Implementation][x] = append(out[cpus][b.Implementation][x], nsPerMsg)
		}
	}
	return out
}

// groupOps collects ns/op samples per operation across all sessions.
func groupOps(sessions []session) map[string][]float64 {
	out := make(map[string][]float64)
	for _, s := range sessions {
		for _, op := range s.Operations {
			out[op.Operation] = append(out[op.Operation], op.NsPerOp)
		}
	}
	return out
}

func throughputPlot(cpus int, implMap map[string]map[float64][]float64) *plot.Plot {
	p := darkPlot(
		fmt.Sprintf("Benchmark (5%%-avg-min / Median / 5%%-avg-max) vs. Concurrency for %d CPU(s)", cpus),
		"NumProducers + NumConsumers",
		"Time per Msg (ns) [log scale]",
	)
	p.Y.Tick.Marker = plot.TickerFunc(nsTicks)

	concurrencySet := make(map[float64]struct{})
	for _, implData := range implMap {
		for conc := range implData {
			concurrencySet[conc] = struct{}{}
		}
	}
	var concValues []float64
	for v := range concurrencySet {
		concValues = append(concValues, v)
	}
	sort.Float64s(concValues)

	concIndex := make(map[float64]float64)
	var ticks categoryTicks
	for i, v := range concValues {
		concIndex[v] = float64(i)
		ticks.positions = append(ticks.positions, float64(i))
		ticks.labels = append(ticks.labels, strconv.FormatFloat(v, 'f', -1, 64))
	}
	p.X.Tick.Marker = ticks

	var implNames []string
	for name := range implMap {
		implNames = append(implNames, name)
	}
	sort.Strings(implNames)

	colors := plotutil.SoftColors
	shapes := []draw.GlyphDrawer{
		draw.CircleGlyph{},
		draw.SquareGlyph{},
		draw.TriangleGlyph{},
		draw.CrossGlyph{},
		draw.PlusGlyph{},
	}

	// Slight offset so each implementation is visually separated.
	const offsetRange = 0.4
	offsetStep := offsetRange / float64(len(implNames))
	startOffset := -offsetRange/2 + offsetStep/2

	for i, name := range implNames {
		stats := buildStats(implMap[name])
		if len(stats) == 0 {
			continue
		}
		for j := range stats {
			stats[j].x = concIndex[stats[j].orig] + startOffset + float64(i)*offsetStep
		}
		sort.Slice(stats, func(a, b int) bool { return stats[a].x < stats[b].x })
		sp := statsPoints(stats)

		line, err := plotter.NewLine(sp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating line: %v\n", err)
			continue
		}
		line.Color = colors[i%len(colors)]

		points, err := plotter.NewScatter(sp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating scatter: %v\n", err)
			continue
		}
		points.GlyphStyle.Radius = vg.Points(5)
		points.Color = colors[i%len(colors)]
		points.Shape = shapes[i%len(shapes)]

		yErrBars, err := plotter.NewYErrorBars(sp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating error bars: %v\n", err)
			continue
		}
		yErrBars.Color = colors[i%len(colors)]

		p.Add(line, points, yErrBars)
		p.Legend.Add(name, line, points)
	}
	return p
}

// opsPlot draws the median ns/op of each operation as a bar.
func opsPlot(ops map[string][]float64) (*plot.Plot, error) {
	p := darkPlot("UniqueQueue operation cost (median)", "Operation", "ns/op")

	var names []string
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(plotter.Values, len(names))
	for i, name := range names {
		vals := append([]float64(nil), ops[name]...)
		sort.Float64s(vals)
		values[i] = median(vals)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, err
	}
	bars.Color = plotutil.SoftColors[0]
	bars.LineStyle.Color = foreground
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// buildStats computes "average of bottom 5%", median, and "average of top 5%".
func buildStats(concurrencyMap map[float64][]float64) []concurrencyStats {
	var out []concurrencyStats
	for x, vals := range concurrencyMap {
		if len(vals) == 0 {
			continue
		}
		sort.Float64s(vals)
		out = append(out, concurrencyStats{
			x:      x,
			orig:   x,
			min:    averageOfRange(vals, 0.0, 0.05),
			median: median(vals),
			max:    averageOfRange(vals, 0.95, 1.0),
		})
	}
	return out
}

// averageOfRange returns the average of sortedVals in [startFrac, endFrac] of its length.
// E.g. averageOfRange(vals, 0, 0.05) is the average of the bottom 5%.
func averageOfRange(sortedVals []float64, startFrac, endFrac float64) float64 {
	n := len(sortedVals)
	if n == 0 {
		return 0
	}
	startIndex := int(float64(n) * startFrac)
	endIndex := int(float64(n) * endFrac)
	if endIndex > n {
		endIndex = n
	}
	if startIndex >= endIndex {
		// fallback to median if 5% slice is too small
		return median(sortedVals)
	}
	sum := 0.0
	for i := startIndex; i < endIndex; i++ {
		sum += sortedVals[i]
	}
	return sum / float64(endIndex-startIndex)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return 0.5 * (sorted[mid-1] + sorted[mid])
}

// formatNs nicely formats a nanoseconds value in ns, µs, ms, or s.
func formatNs(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.0fns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.1fµs", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.1fms", ns/1e6)
	default:
		return fmt.Sprintf("%.2fs", ns/1e9)
	}
}

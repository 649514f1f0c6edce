package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/i5heu/GoUniqueQueue/internal/testbench"
)

// BenchmarkResult holds results for one timed run.
type BenchmarkResult struct {
	Implementation      string  `json:"implementation"`
	NumProducers        int     `json:"num_producers"`
	NumConsumers        int     `json:"num_consumers"`
	KeySpace            int     `json:"key_space,omitempty"`
	NumMessages         int64   `json:"num_messages"`          // accepted count
	NumRejected         int64   `json:"num_rejected"`          // duplicates refused
	NumMessagesConsumed int64   `json:"num_messages_consumed"` // consumed count
	PeakRate            int64   `json:"peak_msgs_sec"`
	TestDuration        string  `json:"test_duration"`       // e.g. "5s"
	ActualElapsed       string  `json:"actual_elapsed"`      // measured time
	Throughput          float64 `json:"throughput_msgs_sec"` // based on consumed count
	Timestamp           int64   `json:"timestamp"`
	GoVersion           string  `json:"go_version"`
}

// SystemInfo holds system information.
type SystemInfo struct {
	NumCPU            int     `json:"num_cpu"`
	TrueCPU           int     `json:"true_cpu,omitempty"`
	SimulatedCPUCount int     `json:"simulated_cpu_count,omitempty"`
	CPUModel          string  `json:"cpu_model,omitempty"`
	CPUSpeedMHz       float64 `json:"cpu_speed_mhz,omitempty"`
	GOARCH            string  `json:"go_arch"`
	TotalMemory       uint64  `json:"total_memory_bytes,omitempty"`
}

// FullReport represents a complete test session.
type FullReport struct {
	SessionID   string               `json:"session_id"`
	SessionTime string               `json:"session_time"`
	SystemInfo  SystemInfo           `json:"system_info"`
	Benchmarks  []BenchmarkResult    `json:"benchmarks,omitempty"`
	Operations  []testbench.OpResult `json:"operations,omitempty"`
}

// gatherSystemInfo collects basic CPU and memory details.
func gatherSystemInfo() SystemInfo {
	var cpuModel string
	var cpuSpeed float64
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		cpuModel = infos[0].ModelName
		cpuSpeed = infos[0].Mhz
	}

	var totalMemory uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		totalMemory = vm.Total
	}

	return SystemInfo{
		NumCPU:      runtime.NumCPU(),
		CPUModel:    cpuModel,
		CPUSpeedMHz: cpuSpeed,
		GOARCH:      runtime.GOARCH,
		TotalMemory: totalMemory,
	}
}

// loadReports reads all sessions from a JSON report file. A missing or empty
// file yields no sessions.
func loadReports(filename string) ([]FullReport, error) {
	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) || (err == nil && len(data) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", filename, err)
	}
	var sessions []FullReport
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("unmarshalling %q: %w", filename, err)
	}
	return sessions, nil
}

// appendReports adds sessions to the JSON report file, keeping earlier ones.
func appendReports(filename string, sessions []FullReport) error {
	previous, err := loadReports(filename)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(append(previous, sessions...), "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing %q: %w", filename, err)
	}
	return nil
}

// writeMarkdownTable renders the last session of sessions as Markdown.
func writeMarkdownTable(w io.Writer, sessions []FullReport) error {
	if len(sessions) == 0 {
		return fmt.Errorf("no sessions found")
	}
	last := sessions[len(sessions)-1]

	implMeta := make(map[string]Implementation)
	for _, impl := range getImplementations() {
		implMeta[impl.name] = impl
	}

	if len(last.Benchmarks) > 0 {
		type tableRow struct {
			implementation string
			pkgName        string
			features       string
			throughput     float64
			rejected       int64
		}
		var rows []tableRow
		for _, bench := range last.Benchmarks {
			row := tableRow{
				implementation: bench.Implementation,
				throughput:     bench.Throughput,
				rejected:       bench.NumRejected,
			}
			if meta, ok := implMeta[bench.Implementation]; ok {
				row.pkgName = meta.pkgName
				row.features = strings.Join(meta.features, ", ")
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].throughput > rows[j].throughput
		})

		fmt.Fprintln(w, "## Last Session Benchmark Summary")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Implementation           | Package            | Features                         | Rejected   | Throughput (msgs/sec) |")
		fmt.Fprintln(w, "|--------------------------|--------------------|----------------------------------|------------|-----------------------|")
		for _, r := range rows {
			fmt.Fprintf(w, "| %-24s | %-18s | %-32s | %10d | %21.0f |\n",
				r.implementation, r.pkgName, r.features, r.rejected, r.throughput)
		}
	}

	if len(last.Operations) > 0 {
		if len(last.Benchmarks) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "## Last Session Operation Timings")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Operation  | Iterations   | ns/op      | Hits       |")
		fmt.Fprintln(w, "|------------|--------------|------------|------------|")
		for _, op := range last.Operations {
			fmt.Fprintf(w, "| %-10s | %12d | %10.1f | %10d |\n", op.Operation, op.Iterations, op.NsPerOp, op.Hits)
		}
	}
	return nil
}

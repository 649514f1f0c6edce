package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/i5heu/GoUniqueQueue/internal/logger"
	"github.com/i5heu/GoUniqueQueue/internal/testbench"
	"github.com/i5heu/GoUniqueQueue/pkg/config"
	"github.com/i5heu/GoUniqueQueue/pkg/uniquequeue"
)

const envPrefix = "UQBENCH"

// commonCPUs are the GOMAXPROCS values tried when -cpu is not set.
var commonCPUs = []int{1, 2, 3, 4, 6, 8, 12, 16, 32, 48, 56, 64, 96, 128, 192, 256, 384, 512}

// cpuSettings returns the GOMAXPROCS values to test, capped at the real CPU count.
func cpuSettings(cpuMax, trueCPUCount int) []int {
	if cpuMax > 0 {
		if cpuMax > trueCPUCount {
			cpuMax = trueCPUCount
		}
		return []int{cpuMax}
	}
	var out []int
	for _, v := range commonCPUs {
		if v <= trueCPUCount {
			out = append(out, v)
		}
	}
	return out
}

// concurrencyConfigs returns the producer/consumer pairs to test.
func concurrencyConfigs(high bool, keySpace int) []config.Config {
	cfgs := []config.Config{
		{NumProducers: 2, NumConsumers: 2},
		{NumProducers: 10, NumConsumers: 10},
		{NumProducers: 50, NumConsumers: 50},
	}
	if high {
		cfgs = append(cfgs,
			config.Config{NumProducers: 100, NumConsumers: 100},
			config.Config{NumProducers: 250, NumConsumers: 250},
			config.Config{NumProducers: 500, NumConsumers: 500},
		)
	}
	for i := range cfgs {
		cfgs[i].KeySpace = keySpace
	}
	return cfgs
}

func runCommand() *ffcli.Command {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	testIterations := fs.Int("iter", 5, "Number of test iterations per concurrency setting")
	cpuMax := fs.Int("cpu", 0, "If non-zero, test only that GOMAXPROCS value; if 0, test common CPU/vCPU values up to runtime.NumCPU()")
	testDuration := fs.Duration("duration", 5*time.Second, "Duration of each timed run")
	keySpace := fs.Int("keyspace", 0, "If non-zero, producers cycle through this many distinct values so duplicates get rejected")
	highConcurrency := fs.Bool("high-concurrency", false, "Include high concurrency configurations")
	jsonExport := fs.Bool("json", false, "Append results as JSON to -out")
	out := fs.String("out", "test-results.json", "JSON report file")
	showProgress := fs.Bool("progress", false, "Display a progress bar with ETA")

	return &ffcli.Command{
		Name:       "run",
		ShortUsage: "bench run [flags]",
		ShortHelp:  "Measure producer/consumer throughput of every implementation",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, _ []string) error {
			log := logger.L()
			trueCPUCount := runtime.NumCPU()
			cpus := cpuSettings(*cpuMax, trueCPUCount)
			cfgs := concurrencyConfigs(*highConcurrency, *keySpace)
			impls := getImplementations()

			totalTests := len(cpus) * len(cfgs) * (*testIterations) * len(impls)
			var bar *progressbar.ProgressBar
			if *showProgress {
				bar = progressbar.NewOptions(totalTests,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("benchmarking"),
					progressbar.OptionShowCount(),
					progressbar.OptionSetPredictTime(true),
					progressbar.OptionClearOnFinish(),
				)
			}

			var sessions []FullReport
			var runErr error
		cpuLoop:
			for _, n := range cpus {
				runtime.GOMAXPROCS(n)
				sysInfo := gatherSystemInfo()
				sysInfo.NumCPU = n
				sysInfo.TrueCPU = trueCPUCount
				sysInfo.SimulatedCPUCount = n

				fmt.Printf("\n=============================\n")
				fmt.Printf("GOMAXPROCS = %d\n", n)
				fmt.Printf("=============================\n")

				var results []BenchmarkResult
				for _, cfg := range cfgs {
					fmt.Printf("  [Concurrency: producers=%d, consumers=%d, keyspace=%d]\n", cfg.NumProducers, cfg.NumConsumers, cfg.KeySpace)
					for iteration := 1; iteration <= *testIterations; iteration++ {
						fmt.Printf("    iteration %d/%d\n", iteration, *testIterations)
						for _, impl := range impls {
							if err := ctx.Err(); err != nil {
								runErr = err
								sessions = append(sessions, newSession(sysInfo, results, nil))
								break cpuLoop
							}
							runtime.GC()
							q := impl.newQueue()
							time.Sleep(250 * time.Millisecond)

							res := impl.run(q, cfg, *testDuration)
							throughput := float64(res.Consumed) / res.Elapsed.Seconds()

							if bar != nil {
								bar.Describe(impl.name)
								_ = bar.Add(1)
							}
							fmt.Printf("    %s => produced=%d, rejected=%d, consumed=%d, throughput=%.0f msg/s, peak=%d msg/s, took=%v\n",
								impl.name, res.Produced, res.Rejected, res.Consumed, throughput, res.PeakRate, res.Elapsed)
							if left := q.Size(); left != 0 {
								log.Warn("queue not drained after run", zap.String("impl", impl.name), zap.Int("left", left))
							}

							results = append(results, BenchmarkResult{
								Implementation:      impl.name,
								NumProducers:        cfg.NumProducers,
								NumConsumers:        cfg.NumConsumers,
								KeySpace:            cfg.KeySpace,
								NumMessages:         res.Produced,
								NumRejected:         res.Rejected,
								NumMessagesConsumed: res.Consumed,
								PeakRate:            res.PeakRate,
								TestDuration:        testDuration.String(),
								ActualElapsed:       res.Elapsed.String(),
								Throughput:          throughput,
								Timestamp:           time.Now().Unix(),
								GoVersion:           runtime.Version(),
							})
						}
					}
				}
				sessions = append(sessions, newSession(sysInfo, results, nil))
			}

			if bar != nil {
				_ = bar.Finish()
			}
			if runErr != nil {
				log.Warn("benchmark interrupted, keeping partial results", zap.Error(runErr))
			}
			if *jsonExport {
				if err := appendReports(*out, sessions); err != nil {
					return err
				}
				log.Info("wrote results", zap.String("file", *out), zap.Int("sessions", len(sessions)))
			}
			return runErr
		},
	}
}

func opsCommand() *ffcli.Command {
	fs := flag.NewFlagSet("ops", flag.ExitOnError)
	testIterations := fs.Int("iter", 5, "Number of measurement rounds")
	calls := fs.Int("n", 1_000_000, "Calls per operation per round")
	prefill := fs.Int("prefill", 1000, "Employees added before each operation is timed")
	jsonExport := fs.Bool("json", false, "Append results as JSON to -out")
	out := fs.String("out", "test-results.json", "JSON report file")

	return &ffcli.Command{
		Name:       "ops",
		ShortUsage: "bench ops [flags]",
		ShortHelp:  "Time add, contains, remove and poll on a prefilled UniqueQueue",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(ctx context.Context, _ []string) error {
			newQueue := func() *uniquequeue.UniqueQueue[testbench.Employee] {
				return uniquequeue.New[testbench.Employee]()
			}

			// Warm-up round, discarded.
			testbench.RunOpBenchmark(newQueue, *prefill, *calls)

			var all []testbench.OpResult
			for round := 1; round <= *testIterations; round++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for _, r := range testbench.RunOpBenchmark(newQueue, *prefill, *calls) {
					fmt.Printf("  round %d: %-8s %10.1f ns/op (hits=%d)\n", round, r.Operation, r.NsPerOp, r.Hits)
					all = append(all, r)
				}
			}

			if *jsonExport {
				sessions := []FullReport{newSession(gatherSystemInfo(), nil, all)}
				if err := appendReports(*out, sessions); err != nil {
					return err
				}
				logger.L().Info("wrote results", zap.String("file", *out), zap.Int("operations", len(all)))
			}
			return nil
		},
	}
}

func markdownCommand() *ffcli.Command {
	fs := flag.NewFlagSet("markdown", flag.ExitOnError)
	jsonFile := fs.String("jsonfile", "test-results.json", "Path to JSON file for markdown table")

	return &ffcli.Command{
		Name:       "markdown",
		ShortUsage: "bench markdown [flags]",
		ShortHelp:  "Output a markdown table of the last session in the JSON report",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Exec: func(context.Context, []string) error {
			sessions, err := loadReports(*jsonFile)
			if err != nil {
				return err
			}
			return writeMarkdownTable(os.Stdout, sessions)
		},
	}
}

func listCommand() *ffcli.Command {
	return &ffcli.Command{
		Name:       "list",
		ShortUsage: "bench list",
		ShortHelp:  "List the benchmarked implementations",
		Exec: func(context.Context, []string) error {
			for _, impl := range getImplementations() {
				fmt.Printf("%-24s %-18s [%s]\n    %s\n", impl.name, impl.pkgName, strings.Join(impl.features, ", "), impl.description)
			}
			return nil
		},
	}
}

func newSession(sysInfo SystemInfo, benchmarks []BenchmarkResult, ops []testbench.OpResult) FullReport {
	return FullReport{
		SessionID:   uuid.NewString(),
		SessionTime: time.Now().Format(time.RFC3339),
		SystemInfo:  sysInfo,
		Benchmarks:  benchmarks,
		Operations:  ops,
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func run(args []string) error {
	rootFlagSet := flag.NewFlagSet("bench", flag.ExitOnError)
	debug := rootFlagSet.Bool("debug", false, "Enable debug logging")

	root := &ffcli.Command{
		ShortUsage: "bench [flags] <subcommand>",
		FlagSet:    rootFlagSet,
		Options:    []ff.Option{ff.WithEnvVarPrefix(envPrefix)},
		Subcommands: []*ffcli.Command{
			runCommand(),
			opsCommand(),
			markdownCommand(),
			listCommand(),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}

	if err := root.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if err := logger.Setup(*debug); err != nil {
		fmt.Fprintln(os.Stderr, "Error setting up logger:", err)
		return err
	}
	defer logger.Sync()

	// trap Ctrl+C and cancel the running benchmark
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.Run(ctx)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, ffcli.DefaultUsageFunc(root))
		return nil
	}
	if err != nil {
		logger.L().Error("bench failed", zap.Error(err))
	}
	return err
}

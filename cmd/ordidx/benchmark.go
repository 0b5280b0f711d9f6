package main

import (
	"encoding/csv"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/btree-query-bench/ordidx/index"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

var cmdBench = &cli.Command{
	Name:  "bench",
	Usage: "run the workload mix against one or more engines",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "keys",
			Usage:   "number of keys loaded before the workloads",
			Value:   100_000,
			EnvVars: []string{"ORDIDX_BENCH_KEYS"},
		},
		&cli.IntFlag{
			Name:    "degree",
			Usage:   "B+ tree degree",
			Value:   32,
			EnvVars: []string{"ORDIDX_BENCH_DEGREE"},
		},
		&cli.StringSliceFlag{
			Name:    "engines",
			Usage:   "engines to run",
			Value:   cli.NewStringSlice(engineNames...),
			EnvVars: []string{"ORDIDX_BENCH_ENGINES"},
		},
		&cli.StringFlag{
			Name:    "out",
			Usage:   "CSV results path",
			Value:   "ordidx_results.csv",
			EnvVars: []string{"ORDIDX_BENCH_OUT"},
		},
		&cli.StringFlag{
			Name:    "plot",
			Usage:   "optional PNG path for a latency bar chart",
			EnvVars: []string{"ORDIDX_BENCH_PLOT"},
		},
		&cli.Uint64Flag{
			Name:    "seed",
			Usage:   "workload random seed",
			Value:   1,
			EnvVars: []string{"ORDIDX_BENCH_SEED"},
		},
	},
	Action: runBench,
}

func runBench(cctx *cli.Context) error {
	n := cctx.Int("keys")
	if n < 2 {
		return errors.Wrapf(index.ErrBadArgument, "--keys must be at least 2, got %d", n)
	}
	cfg := engineConfig{degree: cctx.Int("degree")}

	f, err := os.Create(cctx.String("out"))
	if err != nil {
		return errors.Wrap(err, "bench: create results file")
	}
	defer f.Close()

	rec := newRecorder()
	suite := benchSuite{
		w:    newResultWriter(f),
		rec:  rec,
		cfg:  cfg,
		keys: n,
		seed: cctx.Uint64("seed"),
	}
	for _, name := range cctx.StringSlice("engines") {
		if err := suite.run(name); err != nil {
			return errors.Wrapf(err, "bench %s", name)
		}
	}
	suite.w.Flush()
	if err := suite.w.Error(); err != nil {
		return errors.Wrap(err, "bench: write results")
	}

	stats, err := rec.summary()
	if err != nil {
		return err
	}
	for _, st := range stats {
		slog.Info("latency", "engine", st.Engine, "op", st.Op, "count", st.Count, "mean", st.Mean)
	}
	if path := cctx.String("plot"); path != "" {
		if err := plotLatency(stats, path); err != nil {
			return err
		}
		slog.Info("wrote latency chart", "path", path)
	}
	slog.Info("benchmark complete", "results", cctx.String("out"))
	return nil
}

type benchSuite struct {
	w    *csv.Writer
	rec  *recorder
	cfg  engineConfig
	keys int
	seed uint64
}

// run loads one engine and times each workload phase.
func (s *benchSuite) run(name string) error {
	slog.Info("testing engine", "engine", name, "keys", s.keys, "degree", s.cfg.degree)
	confStr := strconv.Itoa(s.cfg.degree)
	observe := func(op string, d time.Duration) { s.rec.observe(name, op, d) }
	r := rand.New(rand.NewPCG(s.seed, 0x9e3779b97f4a7c15))

	if err := s.bulk(name, confStr); err != nil {
		return err
	}

	idx, err := openEngine(name, s.cfg)
	if err != nil {
		return err
	}
	defer idx.Close()

	// 1. Pure insert (initial load)
	start := time.Now()
	if err := LoadSequential(idx, s.keys, observe); err != nil {
		return err
	}
	insertLatency := time.Since(start).Nanoseconds() / int64(s.keys)

	stats := GetDetailedMem()
	Record(s.w, BenchResult{
		Name:      name,
		Config:    confStr,
		Operation: "Footprint_SteadyState",
		LatencyNs: insertLatency,
		MemMB:     stats.AllocMB,
		Objects:   stats.HeapObjects,
	})

	phases := []struct {
		label string
		wType WorkloadType
		ops   int
	}{
		{"Workload_OLTP", OLTP, s.keys / 2},
		{"Workload_OLAP", OLAP, s.keys / 2},
		{"Workload_Range", Reporting, 100},
		{"Workload_Churn", Churn, s.keys / 2},
	}
	for _, ph := range phases {
		start = time.Now()
		if err := ExecuteWorkload(idx, ph.wType, ph.ops, s.keys, r, observe); err != nil {
			return errors.Wrap(err, ph.label)
		}
		elapsed := time.Since(start)
		mem := GetDetailedMem()
		Record(s.w, BenchResult{name, confStr, ph.label, elapsed.Nanoseconds() / int64(ph.ops), mem.AllocMB, mem.HeapObjects})
		slog.Debug("phase done", "engine", name, "phase", ph.label, "elapsed", elapsed)
	}
	return nil
}

// bulk times a one-pass build for engines that support it.
func (s *benchSuite) bulk(name, confStr string) error {
	idx, err := openEngine(name, s.cfg)
	if err != nil {
		return err
	}
	defer idx.Close()
	bl, ok := idx.(bulkLoader)
	if !ok {
		return nil
	}
	entries := sortedEntries(s.keys)
	start := time.Now()
	if err := bl.BulkLoad(entries); err != nil {
		return errors.Wrap(err, "bulk load")
	}
	elapsed := time.Since(start)
	s.rec.observe(name, "bulk", elapsed)
	mem := GetDetailedMem()
	Record(s.w, BenchResult{name, confStr, "Load_Bulk", elapsed.Nanoseconds() / int64(s.keys), mem.AllocMB, mem.HeapObjects})
	return nil
}

func isMiss(err error) bool {
	return errors.Is(err, index.ErrKeyNotFound)
}

// ─── Results ──────────────────────────────────────────────────────────────────

type BenchResult struct {
	Name      string
	Config    string
	Operation string
	LatencyNs int64
	MemMB     uint64
	Objects   uint64
}

type MemoryStats struct {
	AllocMB      uint64
	TotalAllocMB uint64
	HeapObjects  uint64
}

// GetDetailedMem forces a GC so Alloc reflects live data.
func GetDetailedMem() MemoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemoryStats{
		AllocMB:      m.Alloc / 1024 / 1024,
		TotalAllocMB: m.TotalAlloc / 1024 / 1024,
		HeapObjects:  m.HeapObjects,
	}
}

var resultHeader = []string{"Structure", "Config", "TestType", "LatencyNs", "MemMB", "HeapObjects"}

func newResultWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Write(resultHeader)
	return cw
}

func Record(w *csv.Writer, res BenchResult) {
	w.Write([]string{
		res.Name,
		res.Config,
		res.Operation,
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatUint(res.MemMB, 10),
		strconv.FormatUint(res.Objects, 10),
	})
}

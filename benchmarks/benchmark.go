package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"nsql/pkg/database"
	"nsql/pkg/logging"
	"nsql/pkg/storage/btree"
)

// BenchmarkResult captures timing statistics for one statement.
type BenchmarkResult struct {
	Name              string        `json:"name"`
	Statement         string        `json:"statement"`
	Iterations        int           `json:"iterations"`
	TotalDuration     time.Duration `json:"total_duration_ns"`
	AvgDuration       time.Duration `json:"avg_duration_ns"`
	MinDuration       time.Duration `json:"min_duration_ns"`
	MaxDuration       time.Duration `json:"max_duration_ns"`
	MedianDuration    time.Duration `json:"median_duration_ns"`
	P95Duration       time.Duration `json:"p95_duration_ns"`
	P99Duration       time.Duration `json:"p99_duration_ns"`
	StatementsPerSec  float64       `json:"statements_per_second"`
	ConcurrentQueries int           `json:"concurrent_queries"`
	SuccessCount      int           `json:"success_count"`
	ErrorCount        int           `json:"error_count"`
}

// BenchmarkReport aggregates results from all benchmark runs.
type BenchmarkReport struct {
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	TotalDuration time.Duration     `json:"total_duration"`
	File          string            `json:"file"`
	Results       []BenchmarkResult `json:"results"`
}

// main runs the statement benchmarks against a scratch database file.
//
// Environment variables:
//   - BENCHMARK_OUTPUT: Directory for the JSON report (default: ./benchmark-results)
//   - BENCHMARK_ITERATIONS: Number of iterations per benchmark (default: 1000)
//   - BENCHMARK_CONCURRENT_QUERIES: Number of concurrent statements (default: 10)
func main() {
	logging.InitDefault()
	log := logging.WithComponent("benchmark")

	outputDir := envString("BENCHMARK_OUTPUT", "./benchmark-results")
	iterations := envInt("BENCHMARK_ITERATIONS", 1000)
	concurrent := envInt("BENCHMARK_CONCURRENT_QUERIES", 10)

	workDir, err := os.MkdirTemp("", "nsql-bench-*")
	if err != nil {
		fail(err)
	}
	defer os.RemoveAll(workDir)

	path := filepath.Join(workDir, "bench.db")
	db, err := database.Open(path)
	if err != nil {
		fail(err)
	}
	defer db.Close()

	if err := fillTable(db); err != nil {
		fail(err)
	}

	report := BenchmarkReport{StartTime: time.Now(), File: path}

	benchmarks := []struct {
		name      string
		statement string
	}{
		{"select", "select"},
		{"btree", ".btree"},
		{"constants", ".constants"},
		{"rejected insert", "insert 99 bench bench@example.com"},
	}

	for _, bench := range benchmarks {
		log.Info("running benchmark", "name", bench.name, "iterations", iterations)

		result := runBenchmark(db, bench.name, bench.statement, iterations, 1)
		report.Results = append(report.Results, result)
		printBenchmarkResult(result)

		result = runBenchmark(db, bench.name+" (concurrent)", bench.statement, iterations, concurrent)
		report.Results = append(report.Results, result)
		printBenchmarkResult(result)
	}

	report.EndTime = time.Now()
	report.TotalDuration = report.EndTime.Sub(report.StartTime)

	if err := saveJSONReport(report, outputDir); err != nil {
		fail(err)
	}
}

// fillTable inserts rows until the root leaf is full, so every read walks every cell.
func fillTable(db *database.Database) error {
	for i := 1; i <= btree.LeafNodeMaxCells; i++ {
		result, err := db.Execute(fmt.Sprintf("insert %d user%d person%d@example.com", i, i, i))
		if err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("setup insert %d failed: %v", i, result.Err)
		}
	}
	return nil
}

// runBenchmark executes one statement iterations times with at most concurrent
// executions in flight and computes percentile statistics.
func runBenchmark(db *database.Database, name, statement string, iterations, concurrent int) BenchmarkResult {
	durations := make([]time.Duration, 0, iterations)
	var mu sync.Mutex
	var wg sync.WaitGroup

	successCount := 0
	errorCount := 0
	startTime := time.Now()

	sem := make(chan struct{}, concurrent)

	for range iterations {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			start := time.Now()
			result, err := db.Execute(statement)
			duration := time.Since(start)

			mu.Lock()
			durations = append(durations, duration)
			if err != nil || result.Err != nil {
				errorCount++
			} else {
				successCount++
			}
			mu.Unlock()
		}()
	}

	wg.Wait()
	totalDuration := time.Since(startTime)

	slices.Sort(durations)

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	n := len(durations)
	return BenchmarkResult{
		Name:              name,
		Statement:         statement,
		Iterations:        iterations,
		TotalDuration:     totalDuration,
		AvgDuration:       sum / time.Duration(n),
		MinDuration:       durations[0],
		MaxDuration:       durations[n-1],
		MedianDuration:    durations[n/2],
		P95Duration:       durations[int(float64(n)*0.95)],
		P99Duration:       durations[int(float64(n)*0.99)],
		StatementsPerSec:  float64(iterations) / totalDuration.Seconds(),
		ConcurrentQueries: concurrent,
		SuccessCount:      successCount,
		ErrorCount:        errorCount,
	}
}

// formatDuration formats a duration in a human-readable way with appropriate units.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

func printBenchmarkResult(r BenchmarkResult) {
	fmt.Printf("%-28s avg %-10s p50 %-10s p95 %-10s p99 %-10s %8.0f stmt/s  ok %d err %d\n",
		r.Name,
		formatDuration(r.AvgDuration),
		formatDuration(r.MedianDuration),
		formatDuration(r.P95Duration),
		formatDuration(r.P99Duration),
		r.StatementsPerSec,
		r.SuccessCount,
		r.ErrorCount,
	)
}

// saveJSONReport writes the report to outputDir with a timestamped name.
func saveJSONReport(report BenchmarkReport, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	filename := filepath.Join(outputDir, fmt.Sprintf("benchmark_report_%s.json", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(filename, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Printf("report saved: %s\n", filename)
	return nil
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "benchmark: %v\n", err)
	os.Exit(1)
}

// Package main provides a performance benchmarking tool for the hackwatch engine.
// It measures analysis times across different synthetic timeline sizes,
// running each size multiple times, treating the first run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Usage: go run benchmark/main.go [output-csv]
//
//	output-csv: Path for the benchmark results CSV
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/hackwatch/hackwatch/core"
	"github.com/hackwatch/hackwatch/schema"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Commits  int
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Sizes    []int
	WarmRuns int
	Window   schema.HackathonWindow
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [output-csv]\n", os.Args[0])
		os.Exit(1)
	}
	outputPath := os.Args[1]

	config := BenchmarkConfig{
		Sizes:    []int{100, 1000, 10000, 50000},
		WarmRuns: 4,
		Window: schema.HackathonWindow{
			Start: time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 6, 8, 18, 0, 0, 0, time.UTC),
		},
	}

	results := make([]BenchmarkResult, 0, len(config.Sizes))
	for _, size := range config.Sizes {
		fmt.Printf("Benchmarking %d commits...\n", size)
		results = append(results, benchmarkSize(config, size))
	}

	if err := writeResults(outputPath, results); err != nil {
		fmt.Printf("Failed to write results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d results to %s\n", len(results), outputPath)
}

// benchmarkSize analyzes one synthetic submission repeatedly and reports
// the cold time plus the average of the warm runs.
func benchmarkSize(config BenchmarkConfig, size int) BenchmarkResult {
	input := syntheticSubmission(config.Window, size)
	engineCfg := schema.DefaultEngineConfig(config.Window)

	cold := timeAnalysis(input, engineCfg)

	var warmTotal time.Duration
	for range config.WarmRuns {
		warmTotal += timeAnalysis(input, engineCfg)
	}
	warm := warmTotal / time.Duration(config.WarmRuns)

	return BenchmarkResult{
		Commits:  size,
		ColdTime: cold.String(),
		WarmTime: warm.String(),
	}
}

func timeAnalysis(input *schema.SubmissionInput, engineCfg schema.EngineConfig) time.Duration {
	start := time.Now()
	if _, err := core.AnalyzeSubmission(input, engineCfg); err != nil {
		fmt.Printf("Analysis failed: %v\n", err)
		os.Exit(1)
	}
	return time.Since(start)
}

// syntheticSubmission builds a deterministic timeline spanning the window,
// with one in twenty commits landing before the window opens.
func syntheticSubmission(window schema.HackathonWindow, size int) *schema.SubmissionInput {
	rng := rand.New(rand.NewSource(int64(size)))
	span := window.Duration()
	commits := make([]schema.RawCommit, 0, size)
	prev := ""
	for i := range size {
		at := window.Start.Add(time.Duration(rng.Int63n(int64(span))))
		if i%20 == 0 {
			at = window.Start.Add(-time.Duration(rng.Int63n(int64(span))))
		}
		id := fmt.Sprintf("c%06d", i)
		var parents []string
		if prev != "" {
			parents = []string{prev}
		}
		commits = append(commits, schema.RawCommit{
			ID:           id,
			AuthoredAt:   at.Format(time.RFC3339),
			AuthorName:   fmt.Sprintf("dev%d", i%5),
			AuthorEmail:  fmt.Sprintf("dev%d@example.com", i%5),
			ParentIDs:    parents,
			LinesAdded:   rng.Intn(200),
			LinesRemoved: rng.Intn(50),
			FilesChanged: 1 + rng.Intn(8),
			Message:      fmt.Sprintf("change %d", i),
		})
		prev = id
	}

	return &schema.SubmissionInput{
		Team:    "benchmark",
		RepoURL: "https://github.com/example/benchmark",
		Commits: commits,
		Roster:  schema.Roster{"dev0", "dev1", "dev2"},
	}
}

func writeResults(outputPath string, results []BenchmarkResult) error {
	fh, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = fh.Close() }()

	writer := csv.NewWriter(fh)
	defer writer.Flush()

	if err := writer.Write([]string{"commits", "cold_time", "warm_time"}); err != nil {
		return err
	}
	for _, result := range results {
		row := []string{fmt.Sprintf("%d", result.Commits), result.ColdTime, result.WarmTime}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

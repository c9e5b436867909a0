// Package main times the ahp CLI on synthetic expert panels of increasing size.
// Every panel answers the bundled questionnaire with random Saaty-scale judgments.
// Each command runs several times; the first run is reported as cold and the
// rest are averaged as warm. Results are written to a CSV file.
//
// Prerequisites:
// - ahp binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/huangsam/ahp/schema"
)

// BenchmarkResult holds the timings of one command on one panel.
type BenchmarkResult struct {
	Panel    int
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	Runs       int
	PanelSizes []int
	Seed       uint64
}

// benchCommand is one CLI invocation measured per panel.
type benchCommand struct {
	name  string
	args  func(files []string) []string
	store string
}

var commands = []benchCommand{
	{name: "compute", store: "none", args: func(files []string) []string {
		return append([]string{"compute", "--output", "json", "--output-file", os.DevNull}, files...)
	}},
	{name: "aggregate", store: "none", args: func(files []string) []string {
		return append([]string{"aggregate", "--output", "json", "--output-file", os.DevNull}, files...)
	}},
	{name: "aggregate-from-store", store: "sqlite", args: func([]string) []string {
		return []string{"aggregate", "--from-store", "--output", "json", "--output-file", os.DevNull}
	}},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    os.Args[1],
		Timeout:    2 * time.Minute,
		Runs:       4,
		PanelSizes: []int{5, 25, 100},
		Seed:       42,
	}

	if _, err := exec.LookPath("ahp"); err != nil {
		fmt.Println("Prerequisites check failed: ahp binary not found in PATH")
		os.Exit(1)
	}

	h, err := schema.DefaultHierarchy()
	if err != nil {
		fmt.Printf("Cannot load questionnaire: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewPCG(config.Seed, config.Seed))
	var results []BenchmarkResult
	for _, size := range config.PanelSizes {
		panelDir := filepath.Join(config.WorkDir, fmt.Sprintf("panel-%d", size))
		files, err := writePanel(panelDir, h, size, rng)
		if err != nil {
			fmt.Printf("Cannot write panel of %d: %v\n", size, err)
			os.Exit(1)
		}
		results = append(results, runPanel(config, panelDir, files)...)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}
	printSummary(results)
}

// writePanel writes one complete submission file per synthetic expert.
func writePanel(dir string, h schema.Hierarchy, size int, rng *rand.Rand) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	files := make([]string, size)
	for i := range size {
		sub := map[string]any{"expert": fmt.Sprintf("expert-%03d", i+1)}
		sub["main"] = randomJudgments(h.CriteriaKeys(), rng)
		groups := make(map[string]any)
		for _, c := range h.CriteriaKeys() {
			items, _ := h.SubCriteria(c)
			if len(items) > 1 {
				groups[c] = randomJudgments(items, rng)
			}
		}
		sub["sub"] = groups

		data, err := json.Marshal(sub)
		if err != nil {
			return nil, err
		}
		files[i] = filepath.Join(dir, fmt.Sprintf("expert-%03d.json", i+1))
		if err := os.WriteFile(files[i], data, 0o644); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// randomJudgments answers every pair with a Saaty value or its reciprocal.
func randomJudgments(items []string, rng *rand.Rand) map[string]any {
	out := make(map[string]any)
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			v := float64(rng.IntN(9) + 1)
			if rng.IntN(2) == 0 {
				v = 1 / v
			}
			out[items[i]+" "+schema.PairDelimiter+" "+items[j]] = v
		}
	}
	return out
}

// runPanel measures every command against one panel with a fresh store.
func runPanel(config BenchmarkConfig, dir string, files []string) []BenchmarkResult {
	fmt.Printf("Benchmarking panel of %d experts\n", len(files))
	env := append(os.Environ(), "AHP_STORE_DB_CONNECT="+filepath.Join(dir, "bench.db"))
	_ = os.Remove(filepath.Join(dir, "bench.db"))

	// Seed the store once for the from-store command.
	seed := exec.Command("ahp", append([]string{"compute", "--save", "--store-backend", "sqlite", "--output", "json", "--output-file", os.DevNull}, files...)...)
	seed.Env = env
	if output, err := seed.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to seed store: %v\nOutput: %s\n", err, string(output))
	}

	var results []BenchmarkResult
	for _, c := range commands {
		args := append(c.args(files), "--store-backend", c.store)
		cold, warm := runBenchmark(config, env, args)
		result := BenchmarkResult{
			Panel:    len(files),
			Command:  c.name,
			ColdTime: formatSeconds(cold),
			WarmTime: formatSeconds(average(warm)),
		}
		fmt.Printf("  %-22s cold: %s, warm average: %s\n", c.name, result.ColdTime, result.WarmTime)
		results = append(results, result)
	}
	return results
}

// runBenchmark executes ahp repeatedly and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, env, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range config.Runs {
		start := time.Now()

		cmd := exec.Command("ahp", args...)
		cmd.Env = env

		done := make(chan error, 1)
		go func() {
			done <- cmd.Run()
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func formatSeconds(s float64) string {
	if s <= 0 {
		return "TIMEOUT"
	}
	return fmt.Sprintf("%.3fs", s)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("ahp_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"panel", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{strconv.Itoa(r.Panel), r.Command, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range commands {
		fmt.Printf("%s:\n", c.name)
		for _, r := range results {
			if r.Command == c.name {
				fmt.Printf("  %4d experts: Cold: %s, Warm: %s\n", r.Panel, r.ColdTime, r.WarmTime)
			}
		}
	}
}

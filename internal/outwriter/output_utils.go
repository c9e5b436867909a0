package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeBinary is writeWithFile for formats that must never go to a terminal.
func writeBinary(cfg *contract.Config, writer func(io.Writer) error, successMsg string) error {
	if cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for %s output", cfg.Output)
	}
	return writeWithFile(cfg.OutputFile, writer, successMsg)
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the common formatter closures used across multiple output types.
// fmtMetric renders undefined consistency values as "n/a".
func createFormatters(precision int) (fmtFloat func(float64) string, fmtMetric func(float64) string) {
	numFmt := "%.*f"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	fmtMetric = func(v float64) string {
		return contract.FormatMetric(v, precision)
	}
	return fmtFloat, fmtMetric
}

// consistencyLabel picks the colored or plain label depending on the config.
func consistencyLabel(c schema.Consistency, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(c, cfg.CRThreshold)
	}
	return contract.GetPlainLabel(c, cfg.CRThreshold)
}

// renderTable writes a right-aligned table in the minimal look used by every text output.
func renderTable(w io.Writer, headers []string, data [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// sortedGroupNames returns the local group names in hierarchy order when
// possible, falling back to lexical order for groups outside the main keys.
func sortedGroupNames(r schema.Result) []string {
	seen := make(map[string]bool, len(r.Local))
	names := make([]string, 0, len(r.Local))
	for _, key := range r.Main.Keys {
		if _, ok := r.Local[key]; ok {
			names = append(names, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range r.Local {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// topGlobal returns at most limit rows of a global ranking.
func topGlobal(rows []schema.GlobalRow, limit int) []schema.GlobalRow {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// getMaxLabelWidth calculates the maximum width for criterion labels in table
// output based on terminal width and the number of fixed numeric columns.
func getMaxLabelWidth(cfg *contract.Config, numericColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank column, numeric columns, borders and padding
	baseWidth := 8 + numericColumns*(cfg.Precision+5) + 10

	// Two label columns share what is left
	available := (termWidth - baseWidth) / 2
	if available < 12 {
		return 12
	}
	if available > 50 {
		return 50
	}
	return available
}

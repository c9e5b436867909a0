package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/parquet"
	"github.com/huangsam/ahp/schema"
)

// WriteConsensusResults outputs a consensus, dispatching based on the output format configured.
func WriteConsensusResults(c schema.Consensus, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtMetric := createFormatters(cfg.Precision)
	modes := modesFor(cfg.Mode)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, consensusJSON(c, cfg.Mode))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeConsensusCSV(w, c, modes, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeBinary(cfg, func(w io.Writer) error {
			var rows []parquet.GlobalWeight
			for _, mode := range modes {
				rows = append(rows, parquet.ConvertGlobalRows(string(mode), c.ResultFor(mode).Global)...)
			}
			return parquet.WriteRows(w, rows)
		}, "Wrote Parquet")
	case schema.XLSXOut:
		return writeBinary(cfg, func(w io.Writer) error {
			return writeXLSX(w, consensusSheets(c))
		}, "Wrote workbook")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := io.WriteString(w, buildConsensusReport(c, cfg))
			return err
		}, "Wrote markdown report")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := w.Write(renderHTML("AHP consensus report", buildConsensusReport(c, cfg)))
			return err
		}, "Wrote HTML report")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeConsensusTable(w, c, cfg, modes, fmtFloat, fmtMetric, duration)
		}, "Wrote table")
	}
}

// modesFor expands the configured mode into the results to show.
func modesFor(mode schema.AggregationMode) []schema.AggregationMode {
	switch mode {
	case schema.AIJMode, schema.AIPMode:
		return []schema.AggregationMode{mode}
	default:
		return []schema.AggregationMode{schema.AIJMode, schema.AIPMode}
	}
}

// modeTitle is the heading used for one aggregation mode.
func modeTitle(mode schema.AggregationMode) string {
	switch mode {
	case schema.AIJMode:
		return "AIJ (aggregated judgments)"
	case schema.AIPMode:
		return "AIP (aggregated priorities)"
	default:
		return strings.ToUpper(string(mode))
	}
}

// consensusJSON narrows the payload to one mode when a single mode is requested.
func consensusJSON(c schema.Consensus, mode schema.AggregationMode) any {
	if mode != schema.AIJMode && mode != schema.AIPMode {
		return c
	}
	return struct {
		Questionnaire string                      `json:"questionnaire"`
		ExpertCount   int                         `json:"expert_count"`
		ComputedAt    time.Time                   `json:"computed_at"`
		Mode          schema.AggregationMode      `json:"mode"`
		Result        schema.Result               `json:"result"`
		Diagnostics   schema.ConsensusDiagnostics `json:"diagnostics"`
	}{
		Questionnaire: c.Questionnaire,
		ExpertCount:   c.ExpertCount,
		ComputedAt:    c.ComputedAt,
		Mode:          mode,
		Result:        c.ResultFor(mode),
		Diagnostics:   c.Diagnostics,
	}
}

// writeConsensusTable prints each requested mode followed by per-expert consistency.
func writeConsensusTable(w io.Writer, c schema.Consensus, cfg *contract.Config, modes []schema.AggregationMode,
	fmtFloat, fmtMetric func(float64) string, duration time.Duration,
) error {
	for _, mode := range modes {
		title := modeTitle(mode)
		if cfg.UseColors {
			title = contract.HeaderColor.Sprint(title)
		}
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
		if err := writeResultTables(w, c.ResultFor(mode), cfg, fmtFloat, fmtMetric); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	d := c.Diagnostics
	var rows [][]string
	for _, e := range d.Experts {
		rows = append(rows, []string{e.Expert, fmtMetric(e.Cons.CR), consistencyLabel(e.Cons, cfg)})
	}
	if err := renderTable(w, []string{"Expert", "CR", "Label"}, rows); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Mean CR %s, median %s, max %s; %d of %d above %s; AIJ/AIP distance %s\n",
		fmtMetric(d.MeanCR), fmtMetric(d.MedianCR), fmtMetric(d.MaxCR),
		d.InconsistentExperts, d.DefinedCRCount, fmtFloat(d.CRThreshold), fmtFloat(d.ModeDistance)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Aggregated %d expert(s) in %v with %d workers. Store backend: %s\n",
		c.ExpertCount, duration, cfg.Workers, cfg.StoreBackend)
	return err
}

// writeConsensusCSV writes the global ranking of every requested mode.
func writeConsensusCSV(w io.Writer, c schema.Consensus, modes []schema.AggregationMode, fmtFloat func(float64) string) error {
	header := []string{"mode", "rank", "criterion", "sub_criterion", "local_weight", "main_weight", "global_weight"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, mode := range modes {
			for i, row := range c.ResultFor(mode).Global {
				rec := []string{
					string(mode),
					strconv.Itoa(i + 1),
					row.Criterion,
					row.SubCriterion,
					fmtFloat(row.LocalWeight),
					fmtFloat(row.MainWeight),
					fmtFloat(row.GlobalWeight),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// consensusSheets lays out the consensus workbook. Global_Combined carries
// the AIJ ranking, the one every downstream consumer treats as final.
func consensusSheets(c schema.Consensus) []sheet {
	mainSheet := func(name string, r schema.Result) sheet {
		sh := sheet{name: name, header: []string{"Kriteria", "Bobot"}}
		for i, key := range r.Main.Keys {
			sh.rows = append(sh.rows, []any{key, r.Main.Weights[i]})
		}
		return sh
	}

	combined := sheet{
		name:   "Global_Combined",
		header: []string{"Kriteria", "SubKriteria", "LocalWeight", "MainWeight", "GlobalWeight"},
	}
	for _, row := range c.AIJ.Global {
		combined.rows = append(combined.rows, []any{row.Criterion, row.SubCriterion, row.LocalWeight, row.MainWeight, row.GlobalWeight})
	}

	experts := sheet{name: "Experts", header: []string{"Expert", "lambda_max", "CI", "CR"}}
	for _, e := range c.Diagnostics.Experts {
		experts.rows = append(experts.rows, []any{e.Expert, cellMetric(e.Cons.LambdaMax), cellMetric(e.Cons.CI), cellMetric(e.Cons.CR)})
	}

	return []sheet{
		mainSheet("AIJ_Kriteria", c.AIJ),
		mainSheet("AIP_Kriteria", c.AIP),
		combined,
		experts,
	}
}

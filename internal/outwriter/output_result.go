package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/ahp/core/algo"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/parquet"
	"github.com/huangsam/ahp/schema"
)

// WriteSubmissionResults outputs evaluated submissions, dispatching based on the output format configured.
func WriteSubmissionResults(subs []schema.Submission, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtMetric := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, subs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSubmissionCSV(w, subs, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeBinary(cfg, func(w io.Writer) error {
			var rows []parquet.GlobalWeight
			for _, sub := range subs {
				rows = append(rows, parquet.ConvertGlobalRows(sub.Expert, sub.Result.Global)...)
			}
			return parquet.WriteRows(w, rows)
		}, "Wrote Parquet")
	case schema.XLSXOut:
		return writeBinary(cfg, func(w io.Writer) error {
			return writeXLSX(w, submissionSheets(subs))
		}, "Wrote workbook")
	case schema.MarkdownOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := io.WriteString(w, buildSubmissionReport(subs, cfg))
			return err
		}, "Wrote markdown report")
	case schema.HTMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := w.Write(renderHTML("AHP submission report", buildSubmissionReport(subs, cfg)))
			return err
		}, "Wrote HTML report")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			for i, sub := range subs {
				if i > 0 {
					if _, err := fmt.Fprintln(w); err != nil {
						return err
					}
				}
				if err := writeSubmissionTable(w, sub, cfg, fmtFloat, fmtMetric); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintf(w, "Evaluated %d submission(s) in %v with %d workers. Store backend: %s\n",
				len(subs), duration, cfg.Workers, cfg.StoreBackend)
			return err
		}, "Wrote table")
	}
}

// writeSubmissionTable prints the main weights, the group consistency overview and the top global rows.
func writeSubmissionTable(w io.Writer, sub schema.Submission, cfg *contract.Config, fmtFloat, fmtMetric func(float64) string) error {
	header := contract.HeaderColor.Sprintf("Expert %s", sub.Expert)
	if !cfg.UseColors {
		header = fmt.Sprintf("Expert %s", sub.Expert)
	}
	if _, err := fmt.Fprintf(w, "%s (%s, %s)\n", header, sub.Questionnaire, sub.ID); err != nil {
		return err
	}
	return writeResultTables(w, sub.Result, cfg, fmtFloat, fmtMetric)
}

// writeResultTables renders one schema.Result as three tables.
func writeResultTables(w io.Writer, r schema.Result, cfg *contract.Config, fmtFloat, fmtMetric func(float64) string) error {
	labelWidth := getMaxLabelWidth(cfg, 3)

	var mainRows [][]string
	for rank, i := range algo.RankKeys(r.Main.Weights) {
		mainRows = append(mainRows, []string{
			strconv.Itoa(rank + 1),
			contract.TruncateLabel(r.Main.Keys[i], labelWidth),
			fmtFloat(r.Main.Weights[i]),
		})
	}
	if err := renderTable(w, []string{"#", "Criterion", "Weight"}, mainRows); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "λmax=%s CI=%s CR=%s %s\n",
		fmtMetric(r.Main.Cons.LambdaMax), fmtMetric(r.Main.Cons.CI), fmtMetric(r.Main.Cons.CR),
		consistencyLabel(r.Main.Cons, cfg)); err != nil {
		return err
	}

	var groupRows [][]string
	for _, name := range sortedGroupNames(r) {
		g := r.Local[name]
		groupRows = append(groupRows, []string{
			contract.TruncateLabel(name, labelWidth),
			strconv.Itoa(len(g.Keys)),
			fmtMetric(g.Cons.LambdaMax),
			fmtMetric(g.Cons.CI),
			fmtMetric(g.Cons.CR),
			consistencyLabel(g.Cons, cfg),
		})
	}
	if len(groupRows) > 0 {
		if err := renderTable(w, []string{"Group", "Items", "λmax", "CI", "CR", "Label"}, groupRows); err != nil {
			return err
		}
	}

	global := topGlobal(r.Global, cfg.ResultLimit)
	var globalRows [][]string
	for i, row := range global {
		globalRows = append(globalRows, []string{
			strconv.Itoa(i + 1),
			contract.TruncateLabel(row.Criterion, labelWidth),
			contract.TruncateLabel(row.SubCriterion, labelWidth),
			fmtFloat(row.LocalWeight),
			fmtFloat(row.MainWeight),
			fmtFloat(row.GlobalWeight),
		})
	}
	if err := renderTable(w, []string{"Rank", "Criterion", "Sub-criterion", "Local", "Main", "Global"}, globalRows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing top %d of %d global weights (sum %s)\n", len(global), len(r.Global), fmtFloat(r.GlobalSum()))
	return err
}

// writeSubmissionCSV writes every global row of every submission, one expert per block of rows.
func writeSubmissionCSV(w io.Writer, subs []schema.Submission, fmtFloat func(float64) string) error {
	header := []string{
		"expert",
		"submission_id",
		"rank",
		"criterion",
		"sub_criterion",
		"local_weight",
		"main_weight",
		"global_weight",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, sub := range subs {
			for i, row := range sub.Result.Global {
				rec := []string{
					sub.Expert,
					sub.ID,
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

// submissionSheets lays out the single-submission workbook.
func submissionSheets(subs []schema.Submission) []sheet {
	main := sheet{
		name:   "Kriteria_Utama",
		header: []string{"Expert", "Kriteria", "Bobot", "lambda_max", "CI", "CR"},
	}
	global := sheet{
		name:   "Global_Weights",
		header: []string{"Expert", "Kriteria", "SubKriteria", "LocalWeight", "MainWeight", "GlobalWeight"},
	}
	for _, sub := range subs {
		cons := sub.Result.Main.Cons
		for i, key := range sub.Result.Main.Keys {
			main.rows = append(main.rows, []any{
				sub.Expert, key, sub.Result.Main.Weights[i],
				cellMetric(cons.LambdaMax), cellMetric(cons.CI), cellMetric(cons.CR),
			})
		}
		for _, row := range sub.Result.Global {
			global.rows = append(global.rows, []any{
				sub.Expert, row.Criterion, row.SubCriterion, row.LocalWeight, row.MainWeight, row.GlobalWeight,
			})
		}
	}
	return []sheet{main, global}
}

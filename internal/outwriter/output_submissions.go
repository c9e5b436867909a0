package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
)

// WriteSubmissionList prints stored submission summaries, newest first.
func WriteSubmissionList(summaries []schema.SubmissionSummary, cfg *contract.Config) error {
	_, fmtMetric := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if summaries == nil {
				summaries = []schema.SubmissionSummary{}
			}
			return writeJSON(w, summaries)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			header := []string{"submission_id", "expert", "questionnaire", "created_at", "main_cr", "label"}
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, s := range summaries {
					rec := []string{
						s.ID,
						s.Expert,
						s.Questionnaire,
						s.CreatedAt.UTC().Format(contract.DateTimeFormat),
						fmtMetric(s.MainCons.CR),
						contract.GetPlainLabel(s.MainCons, cfg.CRThreshold),
					}
					if err := cw.Write(rec); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			var rows [][]string
			for _, s := range summaries {
				rows = append(rows, []string{
					s.ID,
					s.Expert,
					s.Questionnaire,
					s.CreatedAt.Local().Format(contract.DateTimeFormat),
					fmtMetric(s.MainCons.CR),
					consistencyLabel(s.MainCons, cfg),
				})
			}
			if err := renderTable(w, []string{"ID", "Expert", "Questionnaire", "Created", "Main CR", "Label"}, rows); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "%d submission(s)\n", len(summaries))
			return err
		}, "Wrote submission list")
	}
}

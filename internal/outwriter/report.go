package outwriter

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
)

// renderHTML converts a markdown report into a standalone HTML page.
func renderHTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// buildSubmissionReport renders one section per expert.
func buildSubmissionReport(subs []schema.Submission, cfg *contract.Config) string {
	var b strings.Builder
	b.WriteString("# AHP submission report\n\n")
	for _, sub := range subs {
		fmt.Fprintf(&b, "## Expert %s\n\n", sub.Expert)
		fmt.Fprintf(&b, "Questionnaire `%s`, submission `%s`, created %s.\n\n",
			sub.Questionnaire, sub.ID, sub.CreatedAt.UTC().Format(contract.DateTimeFormat))
		writeResultMarkdown(&b, sub.Result, cfg)
	}
	return b.String()
}

// buildConsensusReport renders both aggregation modes and the diagnostics.
func buildConsensusReport(c schema.Consensus, cfg *contract.Config) string {
	var b strings.Builder
	fmtFloat, fmtMetric := createFormatters(cfg.Precision)

	b.WriteString("# AHP consensus report\n\n")
	fmt.Fprintf(&b, "Questionnaire `%s`, %d expert(s), computed %s.\n\n",
		c.Questionnaire, c.ExpertCount, c.ComputedAt.UTC().Format(contract.DateTimeFormat))

	for _, mode := range modesFor(cfg.Mode) {
		fmt.Fprintf(&b, "## %s\n\n", modeTitle(mode))
		writeResultMarkdown(&b, c.ResultFor(mode), cfg)
	}

	if len(modesFor(cfg.Mode)) > 1 {
		b.WriteString("## Main criteria by mode\n\n| Criterion | AIJ | AIP |\n|---|---:|---:|\n")
		for _, key := range c.AIJ.Main.Keys {
			aij, _ := c.AIJ.Main.WeightOf(key)
			aipWeight := contract.UndefinedValue
			if w, ok := c.AIP.Main.WeightOf(key); ok {
				aipWeight = fmtFloat(w)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", key, fmtFloat(aij), aipWeight)
		}
		b.WriteString("\n")
	}

	d := c.Diagnostics
	b.WriteString("## Diagnostics\n\n")
	fmt.Fprintf(&b, "- Experts with defined CR: %d\n", d.DefinedCRCount)
	fmt.Fprintf(&b, "- Mean CR: %s, median CR: %s, max CR: %s\n", fmtMetric(d.MeanCR), fmtMetric(d.MedianCR), fmtMetric(d.MaxCR))
	fmt.Fprintf(&b, "- Experts above CR %s: %d\n", fmtFloat(d.CRThreshold), d.InconsistentExperts)
	fmt.Fprintf(&b, "- AIJ/AIP distance: %s\n\n", fmtFloat(d.ModeDistance))

	b.WriteString("| Expert | CR | Label |\n|---|---:|---|\n")
	for _, e := range d.Experts {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", e.Expert, fmtMetric(e.Cons.CR), contract.GetPlainLabel(e.Cons, cfg.CRThreshold))
	}
	b.WriteString("\n")
	return b.String()
}

// writeResultMarkdown writes main weights, the consistency summary, warnings and the top global rows.
func writeResultMarkdown(b *strings.Builder, r schema.Result, cfg *contract.Config) {
	fmtFloat, fmtMetric := createFormatters(cfg.Precision)

	b.WriteString("### Main criteria\n\n| Criterion | Weight |\n|---|---:|\n")
	for i, key := range r.Main.Keys {
		fmt.Fprintf(b, "| %s | %s |\n", key, fmtFloat(r.Main.Weights[i]))
	}
	fmt.Fprintf(b, "\nλmax = %s, CI = %s, CR = %s\n\n",
		fmtMetric(r.Main.Cons.LambdaMax), fmtMetric(r.Main.Cons.CI), fmtMetric(r.Main.Cons.CR))

	var warnings []string
	if r.Main.Cons.Defined() && r.Main.Cons.CR > cfg.CRThreshold {
		warnings = append(warnings, fmt.Sprintf("Main criteria CR %s exceeds %s", fmtMetric(r.Main.Cons.CR), fmtFloat(cfg.CRThreshold)))
	}
	b.WriteString("### Consistency by group\n\n| Group | λmax | CI | CR |\n|---|---:|---:|---:|\n")
	for _, name := range sortedGroupNames(r) {
		cons := r.Local[name].Cons
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n", name, fmtMetric(cons.LambdaMax), fmtMetric(cons.CI), fmtMetric(cons.CR))
		if cons.Defined() && cons.CR > cfg.CRThreshold {
			warnings = append(warnings, fmt.Sprintf("%s CR %s exceeds %s", name, fmtMetric(cons.CR), fmtFloat(cfg.CRThreshold)))
		}
	}
	b.WriteString("\n")
	if len(warnings) > 0 {
		b.WriteString("**Warnings**\n\n")
		for _, w := range warnings {
			fmt.Fprintf(b, "- %s\n", w)
		}
		b.WriteString("\n")
	}

	global := topGlobal(r.Global, cfg.ResultLimit)
	fmt.Fprintf(b, "### Top %d global weights\n\n| Rank | Criterion | Sub-criterion | Global |\n|---:|---|---|---:|\n", len(global))
	for i, row := range global {
		fmt.Fprintf(b, "| %d | %s | %s | %s |\n", i+1, row.Criterion, row.SubCriterion, fmtFloat(row.GlobalWeight))
	}
	b.WriteString("\n")
}

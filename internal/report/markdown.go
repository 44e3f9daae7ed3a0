package report

import (
	"fmt"
	"strings"
)

// Markdown renders the report as sectioned markdown for docs or sharing.
func Markdown(doc Document) string {
	var b strings.Builder
	b.WriteString("[ANOMALY REPORT]\n")
	if doc.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", doc.Source))
	}
	if doc.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", doc.RunID))
	}
	if doc.Skipped > 0 {
		b.WriteString(fmt.Sprintf("Rows: %d (skipped %d)\n", doc.Rows, doc.Skipped))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", doc.Rows))
	}
	b.WriteString(fmt.Sprintf("Anomaly rule: |z| > %g (%s stddev)\n", doc.Threshold, doc.StdDev))
	b.WriteString(fmt.Sprintf("Significance: |Δ| >= %g%%\n", doc.Significance))
	b.WriteString(fmt.Sprintf("Order: %s\n\n", doc.Order))

	b.WriteString("[CATEGORIES]\n")
	for _, c := range doc.Categories {
		b.WriteString(fmt.Sprintf("- %s: n=%d, mean %.1f kcal, std %.1f", mdEscape(c.Name), c.Count, c.Mean, c.StdDev))
		if !c.Scored {
			b.WriteString(" (not scored)")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("[ANOMALIES]\n")
	if len(doc.Blocks) == 0 {
		b.WriteString("None.\n")
	}
	for _, blk := range doc.Blocks {
		b.WriteString(fmt.Sprintf("\n### %s: %s\n", mdEscape(blk.Category), mdEscape(blk.Food)))
		b.WriteString(fmt.Sprintf("Calories: %.1f (z=%.2f, %d foods in category)\n\n", blk.Calories, blk.Score, blk.GroupSize))
		b.WriteString("| Nutrient | Value | Category avg | Δ | Significant |\n")
		b.WriteString("|---|---:|---:|---:|:---:|\n")
		for _, l := range blk.Lines {
			sig := ""
			if l.Significant {
				sig = "yes"
			}
			b.WriteString(fmt.Sprintf("| %s | %.1f | %.1f | %s | %s |\n", l.Label, l.Value, l.Average, formatPercent(l.Percent), sig))
		}
	}

	if len(doc.Warnings) > 0 {
		b.WriteString("\n[WARNINGS]\n")
		for _, w := range doc.Warnings {
			b.WriteString("- " + mdEscape(w) + "\n")
		}
	}
	return b.String()
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

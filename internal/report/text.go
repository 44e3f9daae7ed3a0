package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	textHeader        = "--- Anomaly Analysis: Nutrient Deviation per Category ---"
	significantMarker = " <== significant"
)

// Separator is printed after every block.
var Separator = strings.Repeat("-", 60)

type textStyles struct {
	title, category, food, marker lipgloss.Style
}

func newTextStyles(w io.Writer, color bool) textStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return textStyles{plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")),
		category: r.NewStyle().Bold(true),
		food:     r.NewStyle().Foreground(lipgloss.Color("#4ECDC4")),
		marker:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFE66D")),
	}
}

// Text renders the console report without color.
func Text(doc Document) string {
	var b strings.Builder
	_ = writeText(&b, doc, false)
	return b.String()
}

func writeText(w io.Writer, doc Document, color bool) error {
	st := newTextStyles(w, color)
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n%s\n\n", st.title.Render(textHeader))
	if len(doc.Blocks) == 0 {
		fmt.Fprintln(bw, "No anomalies found.")
	}
	for _, blk := range doc.Blocks {
		fmt.Fprintf(bw, "Category: %s\n", st.category.Render(blk.Category))
		fmt.Fprintf(bw, "Anomalous Food: %s\n", st.food.Render(blk.Food))
		fmt.Fprintf(bw, "Calories: %.1f\n", blk.Calories)
		fmt.Fprintln(bw, "Nutrient differences:")
		for _, l := range blk.Lines {
			fmt.Fprintf(bw, "  %s: %.1f (avg: %.1f, Δ = %s)", l.Label, l.Value, l.Average, formatPercent(l.Percent))
			if l.Significant {
				fmt.Fprint(bw, st.marker.Render(significantMarker))
			}
			fmt.Fprintln(bw)
		}
		fmt.Fprintln(bw, Separator)
	}
	return bw.Flush()
}

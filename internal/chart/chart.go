// Package chart draws the per-category calorie bar chart in the terminal.
package chart

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/KaramelBytes/nutriscan-cli/internal/anomaly"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultWidth is the length of the longest bar in cells.
const DefaultWidth = 48

const (
	DefaultTitle = "Average Calories per Category (anomalies annotated)"
	barCell      = "█"
	markGlyph    = "◆"
)

// gradient runs green to red, low means first.
var gradient = []string{"#1a9850", "#91cf60", "#fee08b", "#fc8d59", "#d73027"}

// Options control chart rendering.
type Options struct {
	Width int
	Title string
	Color bool
}

// Render writes the chart for cd to w. Bars keep the order of cd.Bars.
func Render(w io.Writer, cd anomaly.ChartData, opt Options) error {
	if opt.Width <= 0 {
		opt.Width = DefaultWidth
	}
	if opt.Title == "" {
		opt.Title = DefaultTitle
	}
	var r *lipgloss.Renderer
	if opt.Color {
		r = lipgloss.NewRenderer(w)
	}
	style := func() lipgloss.Style {
		if r == nil {
			return lipgloss.NewStyle()
		}
		return r.NewStyle()
	}

	marks := make(map[string]anomaly.Mark, len(cd.Marks))
	for _, m := range cd.Marks {
		marks[m.Category] = m
	}
	labelWidth, maxMean := 0, 0.0
	for _, b := range cd.Bars {
		labelWidth = max(labelWidth, lipgloss.Width(b.Category))
		maxMean = math.Max(maxMean, b.Mean)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, style().Bold(opt.Color).Render(opt.Title))
	if len(cd.Bars) == 0 {
		fmt.Fprintln(bw, "(no data)")
		return bw.Flush()
	}
	for i, b := range cd.Bars {
		n := BarLength(b.Mean, maxMean, opt.Width)
		bar := strings.Repeat(barCell, n)
		if opt.Color {
			bar = style().Foreground(lipgloss.Color(RankColor(i, len(cd.Bars)))).Render(bar)
		}
		label := b.Category + strings.Repeat(" ", labelWidth-lipgloss.Width(b.Category))
		fmt.Fprintf(bw, "%s │%s%s %.1f", label, bar, strings.Repeat(" ", opt.Width-n), b.Mean)
		if m, ok := marks[b.Category]; ok {
			note := fmt.Sprintf("  %s %s (%.1f kcal)", markGlyph, m.Food, m.Calories)
			if opt.Color {
				note = style().Bold(true).Foreground(lipgloss.Color(gradient[len(gradient)-1])).Render(note)
			}
			fmt.Fprint(bw, note)
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

// String renders the chart without color.
func String(cd anomaly.ChartData, width int) string {
	var b strings.Builder
	_ = Render(&b, cd, Options{Width: width})
	return b.String()
}

// BarLength scales mean against maxMean onto width cells.
func BarLength(mean, maxMean float64, width int) int {
	if maxMean <= 0 || mean <= 0 || width <= 0 {
		return 0
	}
	n := int(math.Round(mean / maxMean * float64(width)))
	return min(max(n, 0), width)
}

// RankColor picks the hex color for the i-th of n bars along the gradient.
func RankColor(i, n int) string {
	if n <= 1 {
		return gradient[0]
	}
	t := float64(i) / float64(n-1) * float64(len(gradient)-1)
	lo := int(math.Floor(t))
	if lo >= len(gradient)-1 {
		return gradient[len(gradient)-1]
	}
	if t == float64(lo) {
		return gradient[lo]
	}
	a, _ := colorful.Hex(gradient[lo])
	b, _ := colorful.Hex(gradient[lo+1])
	return a.BlendLab(b, t-float64(lo)).Clamped().Hex()
}

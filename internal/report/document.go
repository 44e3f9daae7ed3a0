// Package report turns an analysis result into the explanation printed for
// each category's anomaly, in text, markdown, YAML or JSON.
package report

import (
	"github.com/KaramelBytes/nutriscan-cli/internal/anomaly"
	"github.com/KaramelBytes/nutriscan-cli/internal/dataset"
)

// Line is one nutrient of a block.
type Line struct {
	Nutrient string  `json:"nutrient" yaml:"nutrient"`
	Label    string  `json:"label" yaml:"label"`
	Value    float64 `json:"value" yaml:"value"`
	Average  float64 `json:"average" yaml:"average"`
	// Percent is nil when the category average is zero.
	Percent     *float64 `json:"percent" yaml:"percent"`
	Significant bool     `json:"significant" yaml:"significant"`
}

// Block explains one category's selected anomaly.
type Block struct {
	Category  string  `json:"category" yaml:"category"`
	Food      string  `json:"food" yaml:"food"`
	Calories  float64 `json:"calories" yaml:"calories"`
	Score     float64 `json:"zscore" yaml:"zscore"`
	GroupSize int     `json:"group_size" yaml:"group_size"`
	Lines     []Line  `json:"nutrients" yaml:"nutrients"`
}

// Category summarizes one category's calories.
type Category struct {
	Name   string  `json:"name" yaml:"name"`
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Scored bool    `json:"scored" yaml:"scored"`
}

// Document is the renderer-independent report.
type Document struct {
	RunID        string     `json:"run_id" yaml:"run_id"`
	Source       string     `json:"source,omitempty" yaml:"source,omitempty"`
	Rows         int        `json:"rows" yaml:"rows"`
	Skipped      int        `json:"skipped" yaml:"skipped"`
	Threshold    float64    `json:"threshold" yaml:"threshold"`
	Significance float64    `json:"significance" yaml:"significance"`
	StdDev       string     `json:"stddev_mode" yaml:"stddev_mode"`
	Order        string     `json:"order" yaml:"order"`
	Categories   []Category `json:"categories" yaml:"categories"`
	Blocks       []Block    `json:"anomalies" yaml:"anomalies"`
	Warnings     []string   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Build assembles a Document. Categories follow the chart order and blocks
// follow the result's report order. ds may be nil.
func Build(res *anomaly.Result, ds *dataset.Dataset) Document {
	doc := Document{
		RunID:        res.RunID,
		Rows:         len(res.Records),
		Threshold:    res.Threshold,
		Significance: res.Significance,
		StdDev:       string(res.StdDev),
		Order:        string(res.Order),
	}
	if ds != nil {
		doc.Source = ds.Name
		doc.Rows = ds.Rows
		doc.Skipped = ds.Skipped
		doc.Warnings = append([]string(nil), ds.Warnings...)
	}

	stats := make(map[string]anomaly.CategoryStats, len(res.Stats))
	for _, s := range res.Stats {
		stats[s.Category] = s
	}
	for _, name := range res.ChartOrder {
		s := stats[name]
		doc.Categories = append(doc.Categories, Category{
			Name: name, Count: s.Count, Mean: s.Mean, StdDev: s.StdDev, Scored: s.Spread(),
		})
	}

	for _, f := range res.Findings {
		b := Block{
			Category:  f.Category,
			Food:      f.Example.Name,
			Calories:  f.Example.Calories,
			Score:     f.Example.Score,
			GroupSize: f.GroupSize,
		}
		for _, c := range f.Comparisons {
			l := Line{
				Nutrient:    c.Nutrient.Key(),
				Label:       c.Nutrient.Label(),
				Value:       c.Value,
				Average:     c.Average,
				Significant: c.Significant,
			}
			if c.PercentDefined {
				p := c.Percent
				l.Percent = &p
			}
			b.Lines = append(b.Lines, l)
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc
}

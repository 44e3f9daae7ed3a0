// Package anomaly finds calorie outliers within food categories and explains
// them by comparing their nutrients against the category average.
//
// The pipeline is linear: GroupStats and Normalize score every record against
// its category, Detect flags the outliers, Select keeps the first outlier per
// category, and Compare breaks a selected record down nutrient by nutrient.
// Analyzer runs all of it in one call.
package anomaly

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/nutriscan-cli/internal/food"
	"gonum.org/v1/gonum/stat"
)

// StdDevMode selects the standard deviation estimator.
type StdDevMode string

const (
	// Population divides by n, like scipy.stats.zscore. It is the default.
	// Scores are larger than under Sample, so results differ: a Fruit group of
	// 52, 89 and 147 kcal flags Apple here but has no anomaly under Sample.
	Population StdDevMode = "population"
	// Sample divides by n-1.
	Sample StdDevMode = "sample"
)

// ParseStdDevMode validates a mode name. The empty string means Population.
func ParseStdDevMode(s string) (StdDevMode, error) {
	switch StdDevMode(s) {
	case "", Population:
		return Population, nil
	case Sample:
		return Sample, nil
	}
	return "", fmt.Errorf("invalid stddev mode %q (use population or sample)", s)
}

// ScoredRecord is a record with its category-relative calorie score.
type ScoredRecord struct {
	food.Record `yaml:",inline"`
	// Index is the record's position in the input.
	Index int `json:"index" yaml:"index"`
	// Score is (calories - category mean) / category stddev. Zero when !Scored.
	Score float64 `json:"score" yaml:"score"`
	// Scored is false when the category has no spread to measure against.
	Scored  bool `json:"scored" yaml:"scored"`
	Anomaly bool `json:"anomaly" yaml:"anomaly"`
}

// CategoryStats aggregates calories for one category.
type CategoryStats struct {
	Category string  `json:"category" yaml:"category"`
	Count    int     `json:"count" yaml:"count"`
	Mean     float64 `json:"mean" yaml:"mean"`
	StdDev   float64 `json:"stddev" yaml:"stddev"`
}

// relative tolerance under which a deviation counts as zero variance
const flatTolerance = 1e-12

// Spread reports whether scores can be computed against this category.
func (s CategoryStats) Spread() bool {
	if s.Count < 2 || math.IsNaN(s.StdDev) || math.IsInf(s.StdDev, 0) {
		return false
	}
	return s.StdDev > flatTolerance*math.Max(1, math.Abs(s.Mean))
}

// StatsTable is the per-category lookup built by GroupStats.
type StatsTable struct {
	list  []CategoryStats
	index map[string]int
}

// Get returns the stats for a category.
func (t *StatsTable) Get(category string) (CategoryStats, bool) {
	i, ok := t.index[category]
	if !ok {
		return CategoryStats{}, false
	}
	return t.list[i], true
}

// All returns the stats in first-encounter order.
func (t *StatsTable) All() []CategoryStats {
	out := make([]CategoryStats, len(t.list))
	copy(out, t.list)
	return out
}

// Len is the number of categories.
func (t *StatsTable) Len() int { return len(t.list) }

// GroupStats is the first pass: mean and standard deviation of calories per category.
func GroupStats(records []food.Record, mode StdDevMode) *StatsTable {
	t := &StatsTable{index: make(map[string]int)}
	var values [][]float64
	for _, r := range records {
		i, ok := t.index[r.Category]
		if !ok {
			i = len(t.list)
			t.index[r.Category] = i
			t.list = append(t.list, CategoryStats{Category: r.Category})
			values = append(values, nil)
		}
		values[i] = append(values[i], r.Calories)
	}
	for i, vals := range values {
		s := &t.list[i]
		s.Count = len(vals)
		if mode == Sample {
			s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
		} else {
			s.Mean, s.StdDev = stat.PopMeanStdDev(vals, nil)
		}
		if s.Count < 2 {
			s.StdDev = 0
		}
	}
	return t
}

// Normalize is the second pass: score each record against its category.
// Records in a category without spread get Score 0 and Scored false.
func Normalize(records []food.Record, stats *StatsTable) []ScoredRecord {
	out := make([]ScoredRecord, len(records))
	for i, r := range records {
		sr := ScoredRecord{Record: r, Index: i}
		if s, ok := stats.Get(r.Category); ok && s.Spread() {
			sr.Score = (r.Calories - s.Mean) / s.StdDev
			sr.Scored = true
		}
		out[i] = sr
	}
	return out
}

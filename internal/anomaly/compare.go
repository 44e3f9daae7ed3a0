package anomaly

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/nutriscan-cli/internal/food"
	"gonum.org/v1/gonum/stat"
)

// DefaultSignificance is the |percent difference| at which a nutrient is flagged.
const DefaultSignificance = 20.0

var (
	// ErrEmptyGroup means Compare was given no records to average over.
	ErrEmptyGroup = errors.New("empty category group")
	// ErrCategoryMismatch means the group holds records of another category.
	ErrCategoryMismatch = errors.New("record outside category group")
)

// NutrientComparison is one nutrient of an example against its category average.
type NutrientComparison struct {
	Nutrient   food.Nutrient `json:"nutrient" yaml:"nutrient"`
	Value      float64       `json:"value" yaml:"value"`
	Average    float64       `json:"average" yaml:"average"`
	Difference float64       `json:"difference" yaml:"difference"`
	// Percent is Difference / Average * 100; zero when !PercentDefined.
	Percent        float64 `json:"percent" yaml:"percent"`
	PercentDefined bool    `json:"percent_defined" yaml:"percent_defined"`
	Significant    bool    `json:"significant" yaml:"significant"`
}

// IsSignificant reports whether a percent difference reaches the threshold.
func IsSignificant(percent, threshold float64) bool {
	return math.Abs(percent) >= threshold
}

// Compare measures every tracked nutrient of example against the mean of its
// category group. The group includes the example itself. A zero average
// leaves the percentage undefined and the nutrient not significant.
func Compare(example food.Record, group []food.Record, significance float64) ([]NutrientComparison, error) {
	if len(group) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyGroup, example.Category)
	}
	cols := make([][]float64, food.NutrientCount)
	for _, r := range group {
		if r.Category != example.Category {
			return nil, fmt.Errorf("%w: %q in %q", ErrCategoryMismatch, r.Name, example.Category)
		}
		for _, n := range food.Nutrients {
			cols[n] = append(cols[n], r.Amount(n))
		}
	}

	out := make([]NutrientComparison, 0, food.NutrientCount)
	for _, n := range food.Nutrients {
		c := NutrientComparison{
			Nutrient: n,
			Value:    example.Amount(n),
			Average:  stat.Mean(cols[n], nil),
		}
		c.Difference = c.Value - c.Average
		if c.Average != 0 {
			c.Percent = (c.Difference / c.Average) * 100
			c.PercentDefined = true
			c.Significant = IsSignificant(c.Percent, significance)
		}
		out = append(out, c)
	}
	return out, nil
}

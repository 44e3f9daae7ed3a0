// Package export writes the scored dataset for downstream tools.
package export

import (
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/nutriscan-cli/internal/anomaly"
	"github.com/KaramelBytes/nutriscan-cli/internal/food"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Extra columns appended to the input columns.
const (
	ColumnScore   = "zscore_calories"
	ColumnAnomaly = "Anomaly"
)

// Frame builds a dataframe of the scored records in input order. Records
// in a category without spread carry NaN in ColumnScore.
func Frame(scored []anomaly.ScoredRecord) dataframe.DataFrame {
	n := len(scored)
	names := make([]string, n)
	cats := make([]string, n)
	cals := make([]float64, n)
	scores := make([]float64, n)
	flags := make([]bool, n)
	nutrients := make([][]float64, food.NutrientCount)
	for i := range nutrients {
		nutrients[i] = make([]float64, n)
	}
	for i, r := range scored {
		names[i] = r.Name
		cats[i] = r.Category
		cals[i] = r.Calories
		scores[i] = r.Score
		if !r.Scored {
			scores[i] = math.NaN()
		}
		flags[i] = r.Anomaly
		for _, nt := range food.Nutrients {
			nutrients[nt][i] = r.Amount(nt)
		}
	}

	cols := []series.Series{
		series.New(names, series.String, food.ColumnName),
		series.New(cats, series.String, food.ColumnCategory),
		series.New(cals, series.Float, food.ColumnCalories),
	}
	for _, nt := range food.Nutrients {
		cols = append(cols, series.New(nutrients[nt], series.Float, nt.Label()))
	}
	cols = append(cols,
		series.New(scores, series.Float, ColumnScore),
		series.New(flags, series.Bool, ColumnAnomaly),
	)
	return dataframe.New(cols...)
}

// WriteScoredCSV writes the scored records as CSV with a header row.
func WriteScoredCSV(w io.Writer, scored []anomaly.ScoredRecord) error {
	df := Frame(scored)
	if df.Err != nil {
		return fmt.Errorf("build scored frame: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write scored csv: %w", err)
	}
	return nil
}

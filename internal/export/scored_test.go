package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/KaramelBytes/nutriscan-cli/internal/anomaly"
	"github.com/KaramelBytes/nutriscan-cli/internal/food"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzed(t *testing.T) *anomaly.Result {
	t.Helper()
	mk := func(name, cat string, cal float64, n ...float64) food.Record {
		var nutrients [food.NutrientCount]float64
		copy(nutrients[:], n)
		return food.NewRecord(name, cat, cal, nutrients)
	}
	res, err := anomaly.New(anomaly.DefaultConfig()).Analyze([]food.Record{
		mk("Apple", "Fruit", 52, 0.2, 0.3, 14, 86, 2.4),
		mk("Banana", "Fruit", 89, 0.3, 1.1, 23, 75, 2.6),
		mk("Durian", "Fruit", 147, 5.3, 1.5, 27, 65, 3.8),
		mk("Milk", "Dairy", 42, 1, 3.4, 5, 90, 0),
	})
	require.NoError(t, err)
	return res
}

func TestWriteScoredCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScoredCSV(&buf, analyzed(t).Records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	want := []string{food.ColumnName, food.ColumnCategory, food.ColumnCalories}
	for _, n := range food.Nutrients {
		want = append(want, n.Label())
	}
	want = append(want, ColumnScore, ColumnAnomaly)
	assert.Equal(t, want, rows[0])

	assert.Equal(t, "Apple", rows[1][0])
	z, err := strconv.ParseFloat(rows[1][8], 64)
	require.NoError(t, err)
	assert.InDelta(t, -1.1254, z, 1e-4)
	assert.Equal(t, "true", rows[1][9])
	assert.Equal(t, "false", rows[2][9])
	assert.Equal(t, "true", rows[3][9])

	fat, err := strconv.ParseFloat(rows[3][3], 64)
	require.NoError(t, err)
	assert.InDelta(t, 5.3, fat, 1e-9)

	assert.Equal(t, "Milk", rows[4][0])
	assert.Equal(t, "NaN", rows[4][8], "single-record category has no score")
	assert.Equal(t, "false", rows[4][9])
}

func TestFrameShape(t *testing.T) {
	df := Frame(analyzed(t).Records)
	require.NoError(t, df.Err)
	assert.Equal(t, 4, df.Nrow())
	assert.Equal(t, 10, df.Ncol())
	assert.Equal(t, []string{"Fruit", "Fruit", "Fruit", "Dairy"}, df.Col(food.ColumnCategory).Records())
}

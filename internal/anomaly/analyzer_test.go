package anomaly

import (
	"fmt"
	"math"
	"testing"

	"github.com/KaramelBytes/nutriscan-cli/internal/food"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSampleFoods(t *testing.T) {
	res, err := New(DefaultConfig()).Analyze(sampleFoods())
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, []string{"Beverage", "Dairy", "Fruit", "Grain"}, res.ChartOrder)
	require.Len(t, res.Findings, 2)

	fruit := res.Findings[0]
	assert.Equal(t, "Fruit", fruit.Category)
	assert.Equal(t, "Apple", fruit.Example.Name)
	assert.Equal(t, 3, fruit.GroupSize)

	grain := res.Findings[1]
	assert.Equal(t, "Grain", grain.Category)
	assert.Equal(t, "Oats", grain.Example.Name)
	assert.Equal(t, 1, grain.Example.Index)
	assert.InDelta(t, 1.7234, grain.Example.Score, 1e-4)
	wantPct := []float64{157.46, 122.37, 74.60, -83.74, 189.62}
	for i, c := range grain.Comparisons {
		assert.InDelta(t, wantPct[i], c.Percent, 0.01, c.Nutrient.Label())
		assert.True(t, c.Significant, c.Nutrient.Label())
	}

	// Apple and Durian are both flagged; only Apple is reported.
	assert.Equal(t, 3, res.Anomalies())
	assert.Equal(t, 2, res.Selection().Len())
	assert.Len(t, res.Group("Grain"), 5)
}

func TestAnalyzeEncounterOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Order = OrderEncounter
	res, err := New(cfg).Analyze(sampleFoods())
	require.NoError(t, err)
	require.Len(t, res.Findings, 2)
	assert.Equal(t, "Grain", res.Findings[0].Category)
	assert.Equal(t, "Fruit", res.Findings[1].Category)
	assert.Equal(t, []string{"Beverage", "Dairy", "Fruit", "Grain"}, res.ChartOrder, "chart order ignores report order")
}

func TestAnalyzeSampleStdDev(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StdDev = Sample
	res, err := New(cfg).Analyze(sampleFoods())
	require.NoError(t, err)
	for _, f := range res.Findings {
		assert.NotEqual(t, "Fruit", f.Category)
	}
}

func TestAnalyzeNoRecords(t *testing.T) {
	_, err := New(DefaultConfig()).Analyze(nil)
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestNewKeepsThresholdsAndDefaultsModes(t *testing.T) {
	cfg := New(Config{Threshold: 0, Significance: 0}).Config()
	assert.Zero(t, cfg.Threshold)
	assert.Zero(t, cfg.Significance)
	assert.Equal(t, Population, cfg.StdDev)
	assert.Equal(t, OrderMean, cfg.Order)
}

func TestAnalyzeZeroThresholdIsLiteral(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 0
	res, err := New(cfg).Analyze(sampleFoods())
	require.NoError(t, err)
	for _, r := range res.Records {
		assert.Equal(t, r.Scored && r.Score != 0, r.Anomaly, r.Name)
	}
	require.Len(t, res.Findings, 2)
	assert.Equal(t, "Apple", res.Findings[0].Example.Name)
	assert.Equal(t, "Rice", res.Findings[1].Example.Name, "first scored grain wins at threshold 0")
}

func TestAnalyzeRejectsInvalidThresholds(t *testing.T) {
	for _, cfg := range []Config{
		{Threshold: -0.5, Significance: DefaultSignificance},
		{Threshold: math.NaN(), Significance: DefaultSignificance},
		{Threshold: DefaultThreshold, Significance: -1},
	} {
		_, err := New(cfg).Analyze(sampleFoods())
		assert.ErrorIs(t, err, ErrInvalidConfig)
	}
}

func TestChartData(t *testing.T) {
	res, err := New(DefaultConfig()).Analyze(sampleFoods())
	require.NoError(t, err)
	cd := res.Chart()
	require.Len(t, cd.Bars, 4)
	assert.Equal(t, Bar{Category: "Beverage", Mean: 0}, cd.Bars[0])
	assert.Equal(t, Bar{Category: "Dairy", Mean: 42}, cd.Bars[1])
	assert.InDelta(t, 96, cd.Bars[2].Mean, 1e-9)
	assert.InDelta(t, 207, cd.Bars[3].Mean, 1e-9)
	assert.Equal(t, []Mark{
		{Category: "Fruit", Food: "Apple", Calories: 52},
		{Category: "Grain", Food: "Oats", Calories: 389},
	}, cd.Marks)
}

func TestParseModes(t *testing.T) {
	m, err := ParseStdDevMode("")
	require.NoError(t, err)
	assert.Equal(t, Population, m)
	_, err = ParseStdDevMode("median")
	assert.Error(t, err)

	o, err := ParseReportOrder("encounter")
	require.NoError(t, err)
	assert.Equal(t, OrderEncounter, o)
	_, err = ParseReportOrder("alpha")
	assert.Error(t, err)
}

func randomFoods(f *gofakeit.Faker, n int) []food.Record {
	cats := make([]string, f.IntRange(1, 5))
	for i := range cats {
		cats[i] = fmt.Sprintf("%s-%d", f.Word(), i)
	}
	out := make([]food.Record, n)
	for i := range out {
		var nutrients [food.NutrientCount]float64
		for j := range nutrients {
			nutrients[j] = f.Float64Range(0, 100)
		}
		out[i] = rec(f.RandomString([]string{"Kale", "Plum", "Rye", "Soy", "Tofu"}),
			cats[f.IntRange(0, len(cats)-1)], f.Float64Range(0, 900), nutrients[:]...)
	}
	return out
}

func TestAnalyzeInvariantsRandomized(t *testing.T) {
	f := gofakeit.New(42)
	for iter := 0; iter < 50; iter++ {
		foods := randomFoods(f, f.IntRange(1, 40))
		res, err := New(DefaultConfig()).Analyze(foods)
		require.NoError(t, err)
		require.Len(t, res.Records, len(foods))

		seen := map[string]bool{}
		for _, fd := range res.Findings {
			assert.False(t, seen[fd.Category], "one finding per category")
			seen[fd.Category] = true
			assert.True(t, fd.Example.Anomaly)
			assert.Greater(t, math.Abs(fd.Example.Score), DefaultThreshold)
			for _, r := range res.Records {
				if r.Category == fd.Category && r.Anomaly {
					assert.GreaterOrEqual(t, r.Index, fd.Example.Index, "selected record is the first anomaly")
				}
			}
			require.Len(t, fd.Comparisons, food.NutrientCount)
			for _, c := range fd.Comparisons {
				assert.False(t, math.IsNaN(c.Percent))
				assert.Equal(t, c.PercentDefined && math.Abs(c.Percent) >= DefaultSignificance, c.Significant)
			}
		}
		for _, r := range res.Records {
			assert.False(t, math.IsNaN(r.Score))
			assert.Equal(t, r.Scored && math.Abs(r.Score) > DefaultThreshold, r.Anomaly)
			if _, ok := res.Selection().Example(r.Category); r.Anomaly {
				assert.True(t, ok)
			}
		}
		assert.Len(t, res.ChartOrder, len(res.Stats))
	}
}

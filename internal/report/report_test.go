package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/KaramelBytes/nutriscan-cli/internal/anomaly"
	"github.com/KaramelBytes/nutriscan-cli/internal/dataset"
	"github.com/KaramelBytes/nutriscan-cli/internal/food"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func rec(name, category string, cal float64, n ...float64) food.Record {
	var nutrients [food.NutrientCount]float64
	copy(nutrients[:], n)
	return food.NewRecord(name, category, cal, nutrients)
}

func analyze(t *testing.T, order anomaly.ReportOrder) Document {
	t.Helper()
	foods := []food.Record{
		rec("Rice", "Grain", 130, 0.3, 2.7, 28, 68, 0.4),
		rec("Oats", "Grain", 389, 6.9, 16.9, 66, 8, 10.6),
		rec("Bread", "Grain", 265, 3.2, 9, 49, 36, 2.7),
		rec("Pasta", "Grain", 131, 1.1, 5, 25, 62, 1.8),
		rec("Quinoa", "Grain", 120, 1.9, 4.4, 21, 72, 2.8),
		rec("Apple", "Fruit", 52, 0.2, 0.3, 14, 86, 2.4),
		rec("Banana", "Fruit", 89, 0.3, 1.1, 23, 75, 2.6),
		rec("Durian", "Fruit", 147, 5.3, 1.5, 27, 65, 3.8),
		rec("Water", "Beverage", 0, 0, 0, 0, 100, 0),
	}
	cfg := anomaly.DefaultConfig()
	cfg.Order = order
	res, err := anomaly.New(cfg).Analyze(foods)
	require.NoError(t, err)
	ds := &dataset.Dataset{Name: "foods.csv", Rows: 10, Records: foods, Skipped: 1,
		Warnings: []string{"skipped row 10: missing Category"}}
	return Build(res, ds)
}

const wantText = `
--- Anomaly Analysis: Nutrient Deviation per Category ---

Category: Fruit
Anomalous Food: Apple
Calories: 52.0
Nutrient differences:
  Fat (g) per 100g: 0.2 (avg: 1.9, Δ = -89.7%) <== significant
  Protein (g) per 100g: 0.3 (avg: 1.0, Δ = -69.0%) <== significant
  Carbs (g) per 100g: 14.0 (avg: 21.3, Δ = -34.4%) <== significant
  Water (g) per 100g: 86.0 (avg: 75.3, Δ = 14.2%)
  Fiber (g) per 100g: 2.4 (avg: 2.9, Δ = -18.2%)
------------------------------------------------------------
Category: Grain
Anomalous Food: Oats
Calories: 389.0
Nutrient differences:
  Fat (g) per 100g: 6.9 (avg: 2.7, Δ = 157.5%) <== significant
  Protein (g) per 100g: 16.9 (avg: 7.6, Δ = 122.4%) <== significant
  Carbs (g) per 100g: 66.0 (avg: 37.8, Δ = 74.6%) <== significant
  Water (g) per 100g: 8.0 (avg: 49.2, Δ = -83.7%) <== significant
  Fiber (g) per 100g: 10.6 (avg: 3.7, Δ = 189.6%) <== significant
------------------------------------------------------------
`

func TestTextLayout(t *testing.T) {
	doc := analyze(t, anomaly.OrderMean)
	assert.Equal(t, wantText, Text(doc))
}

func TestTextEncounterOrder(t *testing.T) {
	out := Text(analyze(t, anomaly.OrderEncounter))
	assert.Less(t, strings.Index(out, "Category: Grain"), strings.Index(out, "Category: Fruit"))
}

func TestTextNoAnomalies(t *testing.T) {
	out := Text(Document{})
	assert.Contains(t, out, "No anomalies found.")
	assert.NotContains(t, out, Separator)
}

func TestTextUndefinedPercent(t *testing.T) {
	doc := Document{Blocks: []Block{{
		Category: "Beverage", Food: "Juice", Calories: 45,
		Lines: []Line{{Label: "Fat (g) per 100g", Value: 0.1, Average: 0}},
	}}}
	assert.Contains(t, Text(doc), "  Fat (g) per 100g: 0.1 (avg: 0.0, Δ = n/a)\n")
}

func TestRenderColorKeepsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, analyze(t, anomaly.OrderMean), Options{Format: FormatText, Color: true}))
	out := buf.String()
	for _, s := range []string{"Apple", "Oats", "Calories: 389.0", "significant", Separator} {
		assert.Contains(t, out, s)
	}
}

func TestBuildDocument(t *testing.T) {
	doc := analyze(t, anomaly.OrderMean)
	assert.NotEmpty(t, doc.RunID)
	assert.Equal(t, "foods.csv", doc.Source)
	assert.Equal(t, 1, doc.Skipped)
	require.Len(t, doc.Categories, 3)
	assert.Equal(t, "Beverage", doc.Categories[0].Name)
	assert.False(t, doc.Categories[0].Scored)
	assert.True(t, doc.Categories[2].Scored)
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, 8, doc.Blocks[0].GroupSize+doc.Blocks[1].GroupSize)
}

func TestMarkdown(t *testing.T) {
	doc := analyze(t, anomaly.OrderMean)
	md := Markdown(doc)
	for _, s := range []string{
		"[ANOMALY REPORT]\n",
		"File: foods.csv\n",
		"Run: " + doc.RunID,
		"Rows: 10 (skipped 1)\n",
		"Anomaly rule: |z| > 1.1 (population stddev)\n",
		"- Beverage: n=1, mean 0.0 kcal, std 0.0 (not scored)\n",
		"### Fruit: Apple\n",
		"| Fat (g) per 100g | 0.2 | 1.9 | -89.7% | yes |\n",
		"| Water (g) per 100g | 86.0 | 75.3 | 14.2% |  |\n",
		"[WARNINGS]\n- skipped row 10: missing Category\n",
	} {
		assert.Contains(t, md, s)
	}
}

func TestMarkdownKeepsThresholdPrecision(t *testing.T) {
	doc := analyze(t, anomaly.OrderMean)
	doc.Threshold = 1.25
	doc.Significance = 12.345
	md := Markdown(doc)
	assert.Contains(t, md, "Anomaly rule: |z| > 1.25 (population stddev)\n")
	assert.Contains(t, md, "Significance: |Δ| >= 12.345%\n")
}

func TestRenderJSONAndYAML(t *testing.T) {
	doc := analyze(t, anomaly.OrderMean)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc, Options{Format: FormatJSON}))
	var fromJSON Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, doc.RunID, fromJSON.RunID)
	require.Len(t, fromJSON.Blocks, 2)
	assert.Equal(t, "fat", fromJSON.Blocks[0].Lines[0].Nutrient)
	require.NotNil(t, fromJSON.Blocks[0].Lines[0].Percent)
	assert.InDelta(t, -89.655, *fromJSON.Blocks[0].Lines[0].Percent, 1e-3)

	buf.Reset()
	require.NoError(t, Render(&buf, doc, Options{Format: FormatYAML}))
	assert.Contains(t, buf.String(), "run_id: "+doc.RunID)
	var fromYAML Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "Oats", fromYAML.Blocks[1].Food)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"": FormatText, "TEXT": FormatText, "md": FormatMarkdown, "yml": FormatYAML, "json": FormatJSON,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("html")
	assert.Error(t, err)
}

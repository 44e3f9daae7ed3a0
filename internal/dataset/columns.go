package dataset

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/KaramelBytes/nutriscan-cli/internal/food"
)

// field identifies a record attribute a column maps onto.
type field int

const (
	fieldName field = iota
	fieldCategory
	fieldCalories
	fieldNutrient // + nutrient index
)

const fieldCount = int(fieldNutrient) + food.NutrientCount

func (f field) label() string {
	switch {
	case f == fieldName:
		return food.ColumnName
	case f == fieldCategory:
		return food.ColumnCategory
	case f == fieldCalories:
		return food.ColumnCalories
	default:
		return food.Nutrient(f - fieldNutrient).Label()
	}
}

// aliases maps a normalized header onto a field.
var aliases = buildAliases()

func buildAliases() map[string]field {
	m := map[string]field{
		"foodname":        fieldName,
		"name":            fieldName,
		"food":            fieldName,
		"category":        fieldCategory,
		"foodcategory":    fieldCategory,
		"caloriesper100g": fieldCalories,
		"calories":        fieldCalories,
		"kcalper100g":     fieldCalories,
		"kcal":            fieldCalories,
		"carbohydrates":   fieldNutrient + field(food.Carbs),
		"fibre":           fieldNutrient + field(food.Fiber),
	}
	for _, n := range food.Nutrients {
		f := fieldNutrient + field(n)
		k := n.Key()
		for _, a := range []string{k, k + "g", k + "per100g", k + "gper100g"} {
			m[a] = f
		}
	}
	return m
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func normalizeHeader(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`),  // e.g., Fat (g)
	regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), // e.g., Fat [g/100g]
}

// stripUnits removes a trailing unit annotation from a header.
func stripUnits(name string) string {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.FindStringSubmatch(s); len(m) >= 3 {
			if base := strings.TrimSpace(m[1]); base != "" && strings.TrimSpace(m[2]) != "" {
				return base
			}
		}
	}
	return s
}

// columnMap holds the column index of each field.
type columnMap [fieldCount]int

// resolveColumns maps header cells onto fields; the first matching column wins.
func resolveColumns(header []string) (columnMap, error) {
	var cm columnMap
	for i := range cm {
		cm[i] = -1
	}
	for idx, h := range header {
		f, ok := aliases[normalizeHeader(h)]
		if !ok {
			f, ok = aliases[normalizeHeader(stripUnits(h))]
		}
		if ok && cm[f] < 0 {
			cm[f] = idx
		}
	}
	var missing []string
	for i, idx := range cm {
		if idx < 0 {
			missing = append(missing, field(i).label())
		}
	}
	if len(missing) > 0 {
		return cm, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cm, nil
}

// parseRow turns one data row into a validated record.
func parseRow(row []string, cm columnMap, opt Options) (food.Record, error) {
	cell := func(f field) string {
		idx := cm[f]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	number := func(f field) (float64, error) {
		v := cell(f)
		if v == "" {
			return 0, fmt.Errorf("missing %s", f.label())
		}
		x, ok := parseNumeric(v, opt)
		if !ok {
			return 0, fmt.Errorf("invalid number %q in %s", v, f.label())
		}
		return x, nil
	}

	name, category := cell(fieldName), cell(fieldCategory)
	if name == "" {
		return food.Record{}, fmt.Errorf("missing %s", fieldName.label())
	}
	if category == "" {
		return food.Record{}, fmt.Errorf("missing %s", fieldCategory.label())
	}
	cal, err := number(fieldCalories)
	if err != nil {
		return food.Record{}, err
	}
	var nutrients [food.NutrientCount]float64
	for _, n := range food.Nutrients {
		x, err := number(fieldNutrient + field(n))
		if err != nil {
			return food.Record{}, err
		}
		nutrients[n] = x
	}
	rec := food.NewRecord(name, category, cal, nutrients)
	if err := rec.Validate(); err != nil {
		return food.Record{}, err
	}
	return rec, nil
}

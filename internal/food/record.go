// Package food holds the nutrition record model shared by loading and analysis.
package food

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Column names of the input dataset.
const (
	ColumnName     = "Food Name"
	ColumnCategory = "Category"
	ColumnCalories = "Calories per 100g"
)

// Record is one food item as loaded from the dataset. Values are per 100g.
type Record struct {
	Name      string                 `json:"name" yaml:"name" validate:"required"`
	Category  string                 `json:"category" yaml:"category" validate:"required"`
	Calories  float64                `json:"calories" yaml:"calories" validate:"finite,gte=0"`
	Nutrients [NutrientCount]float64 `json:"nutrients" yaml:"nutrients" validate:"dive,finite,gte=0"`
}

// Amount returns the record's value for a nutrient.
func (r Record) Amount(n Nutrient) float64 {
	if n < 0 || int(n) >= NutrientCount {
		return 0
	}
	return r.Nutrients[n]
}

// NewRecord builds a record with a whitespace-trimmed category.
func NewRecord(name, category string, calories float64, nutrients [NutrientCount]float64) Record {
	return Record{
		Name:      strings.TrimSpace(name),
		Category:  strings.TrimSpace(category),
		Calories:  calories,
		Nutrients: nutrients,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		})
		validate = v
	})
	return validate
}

// Validate reports the first problem with a record, or nil.
func (r Record) Validate() error {
	err := recordValidator().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%s: failed %q", fieldLabel(verrs[0]), verrs[0].Tag())
	}
	return err
}

// fieldLabel maps a validator field path back to a dataset column name.
func fieldLabel(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		return ColumnName
	case "Category":
		return ColumnCategory
	case "Calories":
		return ColumnCalories
	}
	// dive errors look like Nutrients[2]
	ns := fe.StructNamespace()
	if i := strings.LastIndex(ns, "["); i >= 0 {
		var idx int
		if _, err := fmt.Sscanf(ns[i:], "[%d]", &idx); err == nil {
			return Nutrient(idx).Label()
		}
	}
	return fe.Field()
}

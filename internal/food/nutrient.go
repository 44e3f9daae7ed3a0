package food

import "fmt"

// Nutrient identifies one of the tracked per-100g nutrient amounts.
type Nutrient int

// Tracked nutrients, in report order.
const (
	Fat Nutrient = iota
	Protein
	Carbs
	Water
	Fiber
)

// NutrientCount is the number of tracked nutrients.
const NutrientCount = 5

// Nutrients lists every tracked nutrient in report order.
var Nutrients = [NutrientCount]Nutrient{Fat, Protein, Carbs, Water, Fiber}

var nutrientLabels = [NutrientCount]string{
	"Fat (g) per 100g",
	"Protein (g) per 100g",
	"Carbs (g) per 100g",
	"Water (g) per 100g",
	"Fiber (g) per 100g",
}

var nutrientKeys = [NutrientCount]string{"fat", "protein", "carbs", "water", "fiber"}

// Label is the dataset column name for the nutrient.
func (n Nutrient) Label() string {
	if n < 0 || int(n) >= NutrientCount {
		return fmt.Sprintf("Nutrient(%d)", int(n))
	}
	return nutrientLabels[n]
}

// Key is the short lowercase name, e.g. "fat".
func (n Nutrient) Key() string {
	if n < 0 || int(n) >= NutrientCount {
		return fmt.Sprintf("nutrient%d", int(n))
	}
	return nutrientKeys[n]
}

func (n Nutrient) String() string { return n.Key() }

// MarshalText renders the nutrient by its short key.
func (n Nutrient) MarshalText() ([]byte, error) { return []byte(n.Key()), nil }

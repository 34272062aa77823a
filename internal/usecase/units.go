package usecase

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pantryport/backend/internal/domain"
)

// Category is a measurement family sharing a base unit.
type Category string

const (
	CategoryVolume Category = "volume" // base unit: milliliters
	CategoryWeight Category = "weight" // base unit: grams
	CategoryCount  Category = "count"  // no conversion
	CategoryNone   Category = "none"   // unrecognized unit, passthrough
)

// Conversion factors to the category base unit.
var volumeToMl = map[string]float64{
	"ml":     1,
	"l":      1000,
	"cup":    236.588,
	"tbsp":   14.787,
	"tsp":    4.929,
	"fl-oz":  29.574,
	"pint":   473.176,
	"quart":  946.353,
	"gallon": 3785.41,
}

var weightToG = map[string]float64{
	"g":  1,
	"kg": 1000,
	"oz": 28.3495,
	"lb": 453.592,
}

var countUnits = map[string]bool{
	"piece":   true,
	"whole":   true,
	"slice":   true,
	"can":     true,
	"package": true,
}

// unitAliases folds common spellings onto the canonical unit names above.
var unitAliases = map[string]string{
	"milliliter": "ml", "milliliters": "ml", "mls": "ml",
	"liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"cups": "cup", "c": "cup",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbs": "tbsp",
	"teaspoon": "tsp", "teaspoons": "tsp",
	"fl oz": "fl-oz", "floz": "fl-oz", "fluid ounce": "fl-oz", "fluid ounces": "fl-oz",
	"pints": "pint", "pt": "pint",
	"quarts": "quart", "qt": "quart",
	"gallons": "gallon", "gal": "gallon",
	"gram": "g", "grams": "g",
	"kilogram": "kg", "kilograms": "kg", "kgs": "kg",
	"ounce": "oz", "ounces": "oz",
	"pound": "lb", "pounds": "lb", "lbs": "lb",
	"pieces": "piece", "pcs": "piece", "pc": "piece",
	"slices": "slice", "cans": "can", "packages": "package", "pkg": "package",
}

// NormalizedQuantity is an amount expressed in its category's base unit.
type NormalizedQuantity struct {
	Amount   float64
	Unit     string
	Category Category
}

// canonicalUnit lowercases, trims and de-aliases a unit name.
func canonicalUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.TrimSuffix(u, ".")
	if alias, ok := unitAliases[u]; ok {
		return alias
	}
	return u
}

// UnitCategory classifies a unit into its measurement family.
func UnitCategory(unit string) Category {
	u := canonicalUnit(unit)
	switch {
	case volumeToMl[u] != 0:
		return CategoryVolume
	case weightToG[u] != 0:
		return CategoryWeight
	case countUnits[u]:
		return CategoryCount
	default:
		return CategoryNone
	}
}

// Normalize expresses an amount in its category's base unit (ml for volume,
// g for weight). Count units and unrecognized units pass through unchanged;
// an unknown unit is not an error.
func Normalize(amount float64, unit string) NormalizedQuantity {
	u := canonicalUnit(unit)
	switch {
	case volumeToMl[u] != 0:
		return NormalizedQuantity{Amount: amount * volumeToMl[u], Unit: "ml", Category: CategoryVolume}
	case weightToG[u] != 0:
		return NormalizedQuantity{Amount: amount * weightToG[u], Unit: "g", Category: CategoryWeight}
	case countUnits[u]:
		return NormalizedQuantity{Amount: amount, Unit: u, Category: CategoryCount}
	default:
		return NormalizedQuantity{Amount: amount, Unit: unit, Category: CategoryNone}
	}
}

// ParseFraction parses a plain number ("2.5"), a simple fraction ("3/4"),
// or a mixed number ("2 1/2"). Empty or unparseable input yields 0; it
// never panics.
func ParseFraction(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}

	// Mixed number: "w n/d"
	parts := strings.Fields(s)
	if len(parts) == 2 {
		whole, err := strconv.ParseFloat(parts[0], 64)
		if err == nil {
			if frac, ok := parseSimpleFraction(parts[1]); ok {
				return whole + frac
			}
		}
	}

	if frac, ok := parseSimpleFraction(s); ok {
		return frac
	}

	log.Debug().Str("value", value).Msg("unparseable quantity, defaulting to 0")
	return 0
}

// parseSimpleFraction parses "n/d" with a nonzero denominator.
func parseSimpleFraction(s string) (float64, bool) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

// Combine sums a list of quantities. Entries sharing the same unit are
// summed directly with no conversion drift. Mixed units are normalized to
// their category base units and summed per category; the total of the
// last-seen category is returned, promoted to a larger display unit once
// the magnitude reaches 1000 base units (ml to l, g to kg).
//
// Known limitation: mixing genuinely incompatible categories in one call
// drops the totals of every category but the last.
func Combine(items []domain.Quantity) domain.Quantity {
	if len(items) == 0 {
		return domain.Quantity{}
	}

	// Same-unit fast path: exact arithmetic, no conversion
	sameUnit := true
	first := canonicalUnit(items[0].Unit)
	for _, it := range items[1:] {
		if canonicalUnit(it.Unit) != first {
			sameUnit = false
			break
		}
	}
	if sameUnit {
		total := 0.0
		for _, it := range items {
			total += it.Amount
		}
		return domain.Quantity{Amount: total, Unit: items[0].Unit}
	}

	totals := make(map[Category]float64)
	displayUnit := make(map[Category]string)
	var last Category
	for _, it := range items {
		n := Normalize(it.Amount, it.Unit)
		totals[n.Category] += n.Amount
		displayUnit[n.Category] = n.Unit
		last = n.Category
	}

	amount := totals[last]
	unit := displayUnit[last]
	switch last {
	case CategoryVolume:
		if amount >= 1000 {
			amount /= 1000
			unit = "l"
		}
	case CategoryWeight:
		if amount >= 1000 {
			amount /= 1000
			unit = "kg"
		}
	}
	return domain.Quantity{Amount: amount, Unit: unit}
}

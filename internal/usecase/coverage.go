package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pantryport/backend/internal/domain"
)

// Package-quantity patterns, tried in order. Catalog package strings are
// loose ("500 g", "1.5L", "6 x 330ml", "12 count").
var (
	packageWeightPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(kg|kilograms?|g|grams?|oz|ounces?|lbs?|pounds?)\b`)
	packageVolumePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ml|milliliters?|l|liters?|litres?|fl\s?oz|cups?|pints?|quarts?|gallons?)\b`)
	packageCountPattern  = regexp.MustCompile(`(?i)(\d+)\s*(?:x\b|count\b|ct\b|pack\b|pieces?\b|pcs?\b)`)
	packageNumberPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)
)

// densityGramsPerCup maps normalized ingredient names to grams per US cup,
// used to bridge volume and weight when a recipe measures one and the
// package reports the other. Anything absent reports "not comparable"
// rather than guessing.
var densityGramsPerCup = map[string]float64{
	"flour":             120,
	"all purpose flour": 120,
	"bread flour":       127,
	"sugar":             200,
	"brown sugar":       220,
	"powdered sugar":    120,
	"butter":            227,
	"rice":              185,
	"oats":              90,
	"milk":              240,
	"water":             236.588,
	"honey":             340,
	"salt":              273,
	"cocoa powder":      100,
	"cornstarch":        128,
	"breadcrumbs":       108,
	"parmesan cheese":   100,
	"cheddar cheese":    113,
	"olive oil":         216,
	"vegetable oil":     218,
	"yogurt":            245,
	"cream":             238,
	"peanut butter":     258,
	"maple syrup":       322,
}

const cupMl = 236.588

// ParsePackageQuantity extracts a size from a raw catalog package string.
// It tries weight, then volume, then count patterns, falling back to a bare
// number treated as a count. Returns false when nothing numeric is found.
func ParsePackageQuantity(raw string) (domain.Quantity, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Quantity{}, false
	}

	if m := packageWeightPattern.FindStringSubmatch(s); m != nil {
		return domain.Quantity{Amount: parseDecimal(m[1]), Unit: m[2]}, true
	}
	if m := packageVolumePattern.FindStringSubmatch(s); m != nil {
		return domain.Quantity{Amount: parseDecimal(m[1]), Unit: m[2]}, true
	}
	if m := packageCountPattern.FindStringSubmatch(s); m != nil {
		return domain.Quantity{Amount: parseDecimal(m[1]), Unit: "piece"}, true
	}
	if m := packageNumberPattern.FindStringSubmatch(s); m != nil {
		return domain.Quantity{Amount: parseDecimal(m[1]), Unit: "piece"}, true
	}
	return domain.Quantity{}, false
}

// parseDecimal handles both "1.5" and the European "1,5".
func parseDecimal(s string) float64 {
	n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return n
}

// ProductCoverage judges how far one purchased package goes for a recipe
// need. Same-category sizes compare directly; a volume/weight mismatch is
// bridged through the per-ingredient density table when an entry exists,
// and reported as not comparable otherwise.
func ProductCoverage(need domain.Ingredient, product domain.Product) domain.CoverageResult {
	if need.Quantity <= 0 {
		return notComparable("recipe quantity is unknown")
	}

	size, ok := ParsePackageQuantity(product.PackageQuantity)
	if !ok {
		return notComparable("package size is unknown")
	}

	recipe := Normalize(need.Quantity, need.Unit)
	pack := Normalize(size.Amount, size.Unit)

	if recipe.Category != pack.Category {
		var bridged bool
		recipe, pack, bridged = bridgeCategories(need.Name, recipe, pack)
		if !bridged {
			return notComparable(fmt.Sprintf("cannot compare %s to %s", recipe.Category, pack.Category))
		}
	}

	if recipe.Amount <= 0 || pack.Amount <= 0 {
		return notComparable("package size is unknown")
	}

	uses := int(math.Floor(pack.Amount / recipe.Amount))
	coverage := recipe.Amount / pack.Amount * 100

	var msg string
	if uses >= 1 {
		msg = fmt.Sprintf("enough for %d uses", uses)
	} else {
		msg = "not enough for one full recipe"
	}

	return domain.CoverageResult{
		Comparable:      true,
		UsesCount:       uses,
		CoveragePercent: coverage,
		Message:         msg,
	}
}

// bridgeCategories converts the volume side of a volume/weight pair to grams
// using the density table. Count categories are never bridged.
func bridgeCategories(name string, recipe, pack NormalizedQuantity) (NormalizedQuantity, NormalizedQuantity, bool) {
	density, ok := lookupDensity(name)
	if !ok {
		return recipe, pack, false
	}

	toGrams := func(q NormalizedQuantity) NormalizedQuantity {
		return NormalizedQuantity{Amount: q.Amount / cupMl * density, Unit: "g", Category: CategoryWeight}
	}

	switch {
	case recipe.Category == CategoryVolume && pack.Category == CategoryWeight:
		return toGrams(recipe), pack, true
	case recipe.Category == CategoryWeight && pack.Category == CategoryVolume:
		return recipe, toGrams(pack), true
	default:
		return recipe, pack, false
	}
}

// lookupDensity tries the normalized full ingredient name first, then the
// extracted search term, then individual tokens.
func lookupDensity(name string) (float64, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if d, ok := densityGramsPerCup[normalized]; ok {
		return d, true
	}

	term := ExtractSearchTerm(name)
	if d, ok := densityGramsPerCup[term]; ok {
		return d, true
	}

	for _, tok := range strings.Fields(term) {
		if d, ok := densityGramsPerCup[tok]; ok {
			return d, true
		}
	}
	return 0, false
}

func notComparable(why string) domain.CoverageResult {
	return domain.CoverageResult{Comparable: false, Message: "not comparable: " + why}
}

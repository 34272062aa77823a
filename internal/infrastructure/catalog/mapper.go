package catalog

import (
	"strings"

	"github.com/pantryport/backend/internal/domain"
)

// Raw catalog payload shapes. The catalog's fields are loosely typed;
// nothing outside this package touches them.

type rawSearchResponse struct {
	Products []rawProduct `json:"products"`
	Count    int          `json:"count"`
}

type rawProductResponse struct {
	Status  int        `json:"status"`
	Product rawProduct `json:"product"`
}

type rawProduct struct {
	Code                    string         `json:"code"`
	ProductName             string         `json:"product_name"`
	Brands                  string         `json:"brands"`
	Quantity                string         `json:"quantity"`
	Categories              string         `json:"categories"`
	Nutriments              map[string]any `json:"nutriments"`
	NutritionGrades         string         `json:"nutrition_grades"`
	Labels                  string         `json:"labels"`
	LabelsTags              []string       `json:"labels_tags"`
	IngredientsAnalysisTags []string       `json:"ingredients_analysis_tags"`
	Price                   *float64       `json:"price,omitempty"`
}

// mapProduct normalizes a raw catalog record into the fixed-shape Product.
// All derived dietary booleans are computed here, at the boundary.
func mapProduct(raw rawProduct) domain.Product {
	tags := make(map[string]bool, len(raw.LabelsTags)+len(raw.IngredientsAnalysisTags))
	for _, t := range raw.LabelsTags {
		tags[strings.ToLower(t)] = true
	}
	for _, t := range raw.IngredientsAnalysisTags {
		tags[strings.ToLower(t)] = true
	}

	return domain.Product{
		Barcode:         raw.Code,
		Name:            strings.TrimSpace(raw.ProductName),
		Brands:          splitList(raw.Brands),
		PackageQuantity: strings.TrimSpace(raw.Quantity),
		Categories:      splitList(raw.Categories),
		Nutrients:       mapNutrients(raw.Nutriments),
		NutritionGrade:  normalizeGrade(raw.NutritionGrades),
		Labels:          splitList(raw.Labels),
		Dietary: domain.DietaryFlags{
			Organic:    tags["en:organic"],
			Vegan:      tags["en:vegan"],
			Vegetarian: tags["en:vegetarian"] || tags["en:vegan"],
			GlutenFree: tags["en:gluten-free"] || tags["en:no-gluten"],
			Kosher:     tags["en:kosher"],
			Halal:      tags["en:halal"],
		},
		Price: raw.Price,
	}
}

// splitList splits the catalog's comma-separated list fields, trimming
// blanks.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// mapNutrients keeps only numeric nutrient values; the raw map mixes
// numbers with strings and unit annotations.
func mapNutrients(raw map[string]any) map[string]float64 {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		if n, ok := v.(float64); ok {
			out[k] = n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// normalizeGrade folds the grade field onto "a".."e" or empty.
func normalizeGrade(s string) string {
	g := strings.ToLower(strings.TrimSpace(s))
	switch g {
	case "a", "b", "c", "d", "e":
		return g
	default:
		return ""
	}
}

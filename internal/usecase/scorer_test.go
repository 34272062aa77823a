package usecase

import (
	"testing"

	"github.com/pantryport/backend/internal/domain"
)

func TestScoreAlwaysInRange(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})

	ingredients := []domain.Ingredient{
		{Name: "whole milk", Category: "dairy"},
		{Name: ""},
		{Name: "x"},
	}
	products := []domain.Product{
		{},
		{Barcode: "1", Name: "Whole Milk", Brands: []string{"Dairyland"}, Categories: []string{"dairy"}, NutritionGrade: "a"},
		{Barcode: "2", Name: "Motor Oil", NutritionGrade: "zz"},
	}
	prefs := []domain.UserPreferences{
		{},
		{
			PreferredBrands: []string{"Dairyland"},
			Dietary:         domain.DietaryFlags{Organic: true, Vegan: true, GlutenFree: true},
			PurchaseHistory: map[string]bool{"1": true},
		},
	}

	for _, ing := range ingredients {
		for _, p := range products {
			for _, pref := range prefs {
				r := scorer.Score(ing, p, pref)
				if r.Score < 0 || r.Score > 1 {
					t.Errorf("score %v out of range for ing=%q product=%q", r.Score, ing.Name, p.Name)
				}
			}
		}
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// A candidate in purchase history whose name equals the ingredient name
	// must strictly outscore an otherwise-identical candidate lacking both.
	scorer := NewScorer(ScorerConfig{})
	ing := domain.Ingredient{Name: "peanut butter"}

	strong := domain.Product{Barcode: "111", Name: "Peanut Butter"}
	weak := domain.Product{Barcode: "222", Name: "Crunchy Almond Spread"}

	prefs := domain.UserPreferences{PurchaseHistory: map[string]bool{"111": true}}

	strongScore := scorer.Score(ing, strong, prefs).Score
	weakScore := scorer.Score(ing, weak, prefs).Score
	if strongScore <= weakScore {
		t.Errorf("strong candidate %v not above weak candidate %v", strongScore, weakScore)
	}
}

func TestSimilarity(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "whole milk", "Whole  Milk", 1.0},
		{"substring", "milk", "whole milk", 0.8},
		{"word overlap", "chicken breast fillet", "chicken thigh fillet", 2.0 / 3.0},
		{"no overlap", "milk", "bread", 0},
		{"empty side", "", "bread", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.similarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityFuzzyMatching(t *testing.T) {
	strict := NewScorer(ScorerConfig{})
	fuzzy := NewScorer(ScorerConfig{EnableFuzzyMatching: true, FuzzyEditDistance: 1})

	// "yoghurt" vs "yogurt" is one edit apart
	if got := strict.similarity("greek yoghurt", "greek yogurt"); !almostEqual(got, 0.5) {
		t.Errorf("strict similarity = %v, want 0.5", got)
	}
	if got := fuzzy.similarity("greek yoghurt", "greek yogurt"); !almostEqual(got, 1.0) {
		t.Errorf("fuzzy similarity = %v, want 1.0", got)
	}
}

func TestNameMatchPrefersProductNameOverBrand(t *testing.T) {
	scorer := NewScorer(ScorerConfig{})

	// Brand similarity is scaled by 0.7, so an exact brand match yields 0.7
	p := domain.Product{Name: "Crunchy Spread", Brands: []string{"peanut butter"}}
	got := scorer.nameMatch("peanut butter", p)
	if !almostEqual(got, 0.7) {
		t.Errorf("nameMatch = %v, want 0.7", got)
	}

	// A perfect product-name match beats any brand match
	p = domain.Product{Name: "Peanut Butter", Brands: []string{"peanut butter"}}
	if got := scorer.nameMatch("peanut butter", p); !almostEqual(got, 1.0) {
		t.Errorf("nameMatch = %v, want 1.0", got)
	}
}

func TestDietaryMatch(t *testing.T) {
	tests := []struct {
		name      string
		requested domain.DietaryFlags
		product   domain.DietaryFlags
		want      float64
	}{
		{"no restrictions", domain.DietaryFlags{}, domain.DietaryFlags{}, 1.0},
		{
			"all satisfied",
			domain.DietaryFlags{Vegan: true, GlutenFree: true},
			domain.DietaryFlags{Vegan: true, GlutenFree: true, Organic: true},
			1.0,
		},
		{
			"half satisfied",
			domain.DietaryFlags{Vegan: true, Kosher: true},
			domain.DietaryFlags{Vegan: true},
			0.5,
		},
		{
			"none satisfied",
			domain.DietaryFlags{Halal: true},
			domain.DietaryFlags{Vegan: true},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dietaryMatch(tt.requested, tt.product); !almostEqual(got, tt.want) {
				t.Errorf("dietaryMatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNutritionGradeScore(t *testing.T) {
	tests := []struct {
		grade string
		want  float64
	}{
		{"a", 1.0}, {"B", 0.8}, {"c", 0.6}, {"d", 0.4}, {"e", 0.2},
		{"", 0.5}, {"x", 0.5},
	}

	for _, tt := range tests {
		if got := nutritionGradeScore(tt.grade); !almostEqual(got, tt.want) {
			t.Errorf("nutritionGradeScore(%q) = %v, want %v", tt.grade, got, tt.want)
		}
	}
}

func TestMatchReason(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		sig   reasonSignals
		want  string
	}{
		{"perfect", 0.95, reasonSignals{}, "Perfect match"},
		{"great", 0.8, reasonSignals{}, "Great match"},
		{"history beats brand", 0.65, reasonSignals{purchaseHistory: true, preferredBrand: true}, "You buy this"},
		{"preferred brand", 0.65, reasonSignals{preferredBrand: true}, "Your preferred brand"},
		{"organic", 0.55, reasonSignals{organicHit: true}, "Organic option"},
		{"vegan", 0.55, reasonSignals{veganHit: true}, "Vegan option"},
		{"top grade", 0.45, reasonSignals{topGrade: true}, "Top nutrition grade"},
		{"good", 0.65, reasonSignals{}, "Good match"},
		{"possible", 0.45, reasonSignals{}, "Possible match"},
		{"alternative", 0.2, reasonSignals{}, "Alternative option"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchReason(tt.score, tt.sig); got != tt.want {
				t.Errorf("matchReason = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfidenceBucket(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.Confidence
	}{
		{0.9, domain.ConfidenceHigh},
		{0.7, domain.ConfidenceHigh},
		{0.69, domain.ConfidenceMedium},
		{0.5, domain.ConfidenceMedium},
		{0.49, domain.ConfidenceLow},
		{0, domain.ConfidenceLow},
	}

	for _, tt := range tests {
		if got := confidenceBucket(tt.score); got != tt.want {
			t.Errorf("confidenceBucket(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

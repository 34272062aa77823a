package usecase

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/pantryport/backend/internal/domain"
)

// Fixed component weights, summing to 1.0.
const (
	weightNameMatch      = 0.35
	weightCategoryMatch  = 0.15
	weightBrandPref      = 0.20
	weightPurchaseHist   = 0.15
	weightDietaryMatch   = 0.10
	weightNutritionGrade = 0.05

	// Similarity against a brand name counts for less than against the
	// product name itself.
	brandSimilarityFactor = 0.7
)

// Confidence bucket thresholds.
const (
	confidenceHighThreshold   = 0.7
	confidenceMediumThreshold = 0.5
)

// ScorerConfig tunes the match scorer. Fuzzy token matching is off by
// default; when enabled, near-miss tokens (within FuzzyDistance edits)
// count toward word overlap.
type ScorerConfig struct {
	EnableFuzzyMatching bool
	FuzzyEditDistance   int
}

// Scorer computes personalized match scores for catalog products.
type Scorer struct {
	enableFuzzy   bool
	fuzzyDistance int
}

// NewScorer creates a scorer with the given configuration.
func NewScorer(cfg ScorerConfig) *Scorer {
	dist := cfg.FuzzyEditDistance
	if dist <= 0 {
		dist = 1
	}
	return &Scorer{
		enableFuzzy:   cfg.EnableFuzzyMatching,
		fuzzyDistance: dist,
	}
}

// Score rates a candidate product against an ingredient and the user's
// preferences. The returned score is always in [0,1].
func (s *Scorer) Score(ing domain.Ingredient, p domain.Product, prefs domain.UserPreferences) domain.MatchResult {
	nameScore := s.nameMatch(ing.Name, p)
	categoryScore := categoryMatch(ing.Category, p.Categories)
	brandScore := brandPreference(p.Brands, prefs.PreferredBrands)
	historyScore := 0.0
	if prefs.HasPurchased(p.Barcode) {
		historyScore = 1.0
	}
	dietaryScore := dietaryMatch(prefs.Dietary, p.Dietary)
	gradeScore := nutritionGradeScore(p.NutritionGrade)

	score := weightNameMatch*nameScore +
		weightCategoryMatch*categoryScore +
		weightBrandPref*brandScore +
		weightPurchaseHist*historyScore +
		weightDietaryMatch*dietaryScore +
		weightNutritionGrade*gradeScore
	score = clamp01(score)

	return domain.MatchResult{
		Product: p,
		Score:   score,
		Reason: matchReason(score, reasonSignals{
			purchaseHistory: historyScore > 0,
			preferredBrand:  brandScore > 0,
			organicHit:      prefs.Dietary.Organic && p.Dietary.Organic,
			veganHit:        prefs.Dietary.Vegan && p.Dietary.Vegan,
			topGrade:        strings.EqualFold(p.NutritionGrade, "a"),
		}),
		Confidence: confidenceBucket(score),
	}
}

// nameMatch compares the ingredient name against the product name and each
// brand name. Brand similarity is discounted; the larger result wins.
func (s *Scorer) nameMatch(ingredient string, p domain.Product) float64 {
	best := s.similarity(ingredient, p.Name)
	for _, brand := range p.Brands {
		if v := s.similarity(ingredient, brand) * brandSimilarityFactor; v > best {
			best = v
		}
	}
	return best
}

// similarity rates two strings in [0,1]: identical after normalization is
// 1.0, substring containment either way is 0.8, otherwise the word-overlap
// ratio |common| / max(|a|,|b|).
func (s *Scorer) similarity(a, b string) float64 {
	na := normalizeText(a)
	nb := normalizeText(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1.0
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}

	wordsA := strings.Fields(na)
	wordsB := strings.Fields(nb)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	common := 0
	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}
	for _, w := range dedupe(wordsA) {
		if setB[w] || s.fuzzyMember(w, wordsB) {
			common++
		}
	}

	larger := len(dedupe(wordsA))
	if n := len(dedupe(wordsB)); n > larger {
		larger = n
	}
	return float64(common) / float64(larger)
}

// fuzzyMember reports whether word is within the edit-distance threshold of
// any candidate. Short tokens are excluded to avoid false positives.
func (s *Scorer) fuzzyMember(word string, candidates []string) bool {
	if !s.enableFuzzy || len(word) < 4 {
		return false
	}
	for _, c := range candidates {
		if len(c) < 4 {
			continue
		}
		if edlib.LevenshteinDistance(word, c) <= s.fuzzyDistance {
			return true
		}
	}
	return false
}

// categoryMatch awards the full component when the ingredient category and
// any product category contain one another (case-insensitive).
func categoryMatch(ingredientCategory string, productCategories []string) float64 {
	ic := strings.ToLower(strings.TrimSpace(ingredientCategory))
	if ic == "" {
		return 0
	}
	for _, pc := range productCategories {
		pcl := strings.ToLower(strings.TrimSpace(pc))
		if pcl == "" {
			continue
		}
		if strings.Contains(pcl, ic) || strings.Contains(ic, pcl) {
			return 1.0
		}
	}
	return 0
}

// brandPreference awards the full component when any product brand contains
// any preferred-brand substring (case-insensitive).
func brandPreference(productBrands, preferredBrands []string) float64 {
	for _, pb := range productBrands {
		pbl := strings.ToLower(pb)
		for _, pref := range preferredBrands {
			prefl := strings.ToLower(strings.TrimSpace(pref))
			if prefl != "" && strings.Contains(pbl, prefl) {
				return 1.0
			}
		}
	}
	return 0
}

// dietaryMatch scores satisfied restrictions over requested restrictions.
// No restrictions means the component is trivially satisfied.
func dietaryMatch(requested, product domain.DietaryFlags) float64 {
	n := requested.Count()
	if n == 0 {
		return 1.0
	}
	return float64(product.Satisfied(requested)) / float64(n)
}

// nutritionGradeScore maps a..e onto 1.0..0.2; a missing or unknown grade
// scores a neutral 0.5.
func nutritionGradeScore(grade string) float64 {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "a":
		return 1.0
	case "b":
		return 0.8
	case "c":
		return 0.6
	case "d":
		return 0.4
	case "e":
		return 0.2
	default:
		return 0.5
	}
}

type reasonSignals struct {
	purchaseHistory bool
	preferredBrand  bool
	organicHit      bool
	veganHit        bool
	topGrade        bool
}

// matchReason picks the first matching rule, most specific first.
func matchReason(score float64, sig reasonSignals) string {
	switch {
	case score >= 0.9:
		return "Perfect match"
	case score >= 0.75:
		return "Great match"
	case sig.purchaseHistory:
		return "You buy this"
	case sig.preferredBrand:
		return "Your preferred brand"
	case sig.organicHit:
		return "Organic option"
	case sig.veganHit:
		return "Vegan option"
	case sig.topGrade:
		return "Top nutrition grade"
	case score >= 0.6:
		return "Good match"
	case score >= 0.4:
		return "Possible match"
	default:
		return "Alternative option"
	}
}

// confidenceBucket classifies a continuous score.
func confidenceBucket(score float64) domain.Confidence {
	switch {
	case score >= confidenceHighThreshold:
		return domain.ConfidenceHigh
	case score >= confidenceMediumThreshold:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// normalizeText lowercases and collapses whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	var out []string
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package domain

import "time"

// Ingredient is a single recipe line to be matched against catalog products.
// Only Name is required; Quantity/Unit drive coverage calculations.
type Ingredient struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Category string  `json:"category,omitempty"`
}

// DietaryFlags holds the derived dietary booleans for a product, or the
// restrictions requested by a user.
type DietaryFlags struct {
	Organic    bool `json:"organic,omitempty"`
	Vegan      bool `json:"vegan,omitempty"`
	Vegetarian bool `json:"vegetarian,omitempty"`
	GlutenFree bool `json:"glutenFree,omitempty"`
	Kosher     bool `json:"kosher,omitempty"`
	Halal      bool `json:"halal,omitempty"`
}

// Count returns the number of flags that are set.
func (d DietaryFlags) Count() int {
	n := 0
	for _, set := range []bool{d.Organic, d.Vegan, d.Vegetarian, d.GlutenFree, d.Kosher, d.Halal} {
		if set {
			n++
		}
	}
	return n
}

// Satisfied returns how many of the requested restrictions this product's
// flags satisfy.
func (d DietaryFlags) Satisfied(requested DietaryFlags) int {
	n := 0
	pairs := [][2]bool{
		{requested.Organic, d.Organic},
		{requested.Vegan, d.Vegan},
		{requested.Vegetarian, d.Vegetarian},
		{requested.GlutenFree, d.GlutenFree},
		{requested.Kosher, d.Kosher},
		{requested.Halal, d.Halal},
	}
	for _, p := range pairs {
		if p[0] && p[1] {
			n++
		}
	}
	return n
}

// Product is an immutable snapshot of a catalog product, normalized at the
// catalog boundary. Barcode is the unique key.
type Product struct {
	Barcode         string             `json:"barcode"`
	Name            string             `json:"name"`
	Brands          []string           `json:"brands,omitempty"`
	PackageQuantity string             `json:"packageQuantity,omitempty"`
	Categories      []string           `json:"categories,omitempty"`
	Nutrients       map[string]float64 `json:"nutrients,omitempty"`
	NutritionGrade  string             `json:"nutritionGrade,omitempty"` // "a".."e" or empty
	Labels          []string           `json:"labels,omitempty"`
	Dietary         DietaryFlags       `json:"dietary"`
	Price           *float64           `json:"price,omitempty"`
}

// UserPreferences is a read-only projection of externally-owned preference
// data used to personalize match scoring.
type UserPreferences struct {
	PreferredBrands []string        `json:"preferredBrands,omitempty"`
	Dietary         DietaryFlags    `json:"dietary"`
	PurchaseHistory map[string]bool `json:"purchaseHistory,omitempty"` // barcode set
}

// HasPurchased reports whether the barcode is in the user's purchase history.
func (p UserPreferences) HasPurchased(barcode string) bool {
	return p.PurchaseHistory[barcode]
}

// Confidence is the coarse bucket derived from a continuous match score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// MatchResult pairs a candidate product with its personalized score.
// Score is always in [0,1].
type MatchResult struct {
	Product    Product    `json:"product"`
	Score      float64    `json:"score"`
	Reason     string     `json:"reason"`
	Confidence Confidence `json:"confidence"`
}

// MatchOptions tunes a single matching call. Zero values fall back to the
// service defaults.
type MatchOptions struct {
	MinScore         float64         `json:"minScore,omitempty"`
	MaxResults       int             `json:"maxResults,omitempty"`
	Preferences      UserPreferences `json:"preferences"`
	SameCategoryOnly bool            `json:"sameCategoryOnly,omitempty"`
}

// Quantity is an amount with its (possibly unrecognized) unit.
type Quantity struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// CoverageResult reports how far one purchased package goes for a recipe
// need. When Comparable is false the other fields are zero.
type CoverageResult struct {
	Comparable      bool    `json:"comparable"`
	UsesCount       int     `json:"usesCount,omitempty"`
	CoveragePercent float64 `json:"coveragePercent,omitempty"`
	Message         string  `json:"message"`
}

// CacheEntry is a durable-tier cache record. Payload is an opaque JSON blob;
// validity is judged against CachedAt+TTL, never against store internals.
type CacheEntry struct {
	Key        string        `json:"key"`
	Payload    []byte        `json:"payload"`
	CachedAt   time.Time     `json:"cachedAt"`
	TTL        time.Duration `json:"ttl"`
	HitCount   int64         `json:"hitCount"`
	LastAccess time.Time     `json:"lastAccess"`
}

// Valid reports whether the entry is still fresh at the given instant.
func (e *CacheEntry) Valid(now time.Time) bool {
	return now.Sub(e.CachedAt) < e.TTL
}

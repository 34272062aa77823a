package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pantryport/backend/internal/domain"
	"github.com/pantryport/backend/internal/infrastructure/cache"
)

// Defaults for the matching pipeline.
const (
	defaultMinScore           = 0.3
	defaultSubstituteMinScore = 0.2
	defaultMaxResults         = 10
	defaultBatchGroupSize     = 5
)

// MatcherConfig holds configuration for the matcher service.
type MatcherConfig struct {
	MinScore           float64
	SubstituteMinScore float64
	MaxResults         int
	BatchGroupSize     int
	Scorer             ScorerConfig
}

// MatcherService ranks catalog products against recipe ingredients.
// Flow per ingredient: extract search term -> cache -> catalog on miss ->
// score -> filter -> sort -> truncate.
type MatcherService struct {
	cache    *cache.Tiered
	catalog  domain.CatalogClient
	scorer   *Scorer
	minScore float64
	subScore float64
	maxOut   int
	groupSz  int
	logger   zerolog.Logger
}

// NewMatcherService creates a matcher service with its dependencies.
func NewMatcherService(tiered *cache.Tiered, catalog domain.CatalogClient, cfg MatcherConfig, logger zerolog.Logger) *MatcherService {
	minScore := cfg.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	subScore := cfg.SubstituteMinScore
	if subScore <= 0 {
		subScore = defaultSubstituteMinScore
	}
	maxOut := cfg.MaxResults
	if maxOut <= 0 {
		maxOut = defaultMaxResults
	}
	groupSz := cfg.BatchGroupSize
	if groupSz <= 0 {
		groupSz = defaultBatchGroupSize
	}

	return &MatcherService{
		cache:    tiered,
		catalog:  catalog,
		scorer:   NewScorer(cfg.Scorer),
		minScore: minScore,
		subScore: subScore,
		maxOut:   maxOut,
		groupSz:  groupSz,
		logger:   logger,
	}
}

// MatchIngredientToProducts returns ranked product matches for one
// ingredient. An ingredient that matches nothing yields an empty list, not
// an error; only invalid input fails.
func (s *MatcherService) MatchIngredientToProducts(ctx context.Context, ing domain.Ingredient, opts domain.MatchOptions) ([]domain.MatchResult, error) {
	if strings.TrimSpace(ing.Name) == "" {
		return nil, domain.ErrInvalidIngredient
	}

	candidates, err := s.searchCandidates(ctx, ExtractSearchTerm(ing.Name))
	if err != nil {
		return nil, err
	}

	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = s.minScore
	}
	return s.rank(ing, candidates, opts.Preferences, minScore, s.maxResults(opts)), nil
}

// BatchMatchIngredients matches many ingredients, keyed by ingredient name.
// Ingredients are processed in fixed-size concurrent groups; one
// ingredient's failure yields an empty list for that ingredient and never
// aborts the batch.
func (s *MatcherService) BatchMatchIngredients(ctx context.Context, ingredients []domain.Ingredient, opts domain.MatchOptions) (map[string][]domain.MatchResult, error) {
	results := make(map[string][]domain.MatchResult, len(ingredients))
	var mu sync.Mutex

	for start := 0; start < len(ingredients); start += s.groupSz {
		end := start + s.groupSz
		if end > len(ingredients) {
			end = len(ingredients)
		}

		var g errgroup.Group
		for _, ing := range ingredients[start:end] {
			g.Go(func() error {
				matches, err := s.MatchIngredientToProducts(ctx, ing, opts)
				if err != nil {
					s.logger.Warn().Err(err).Str("ingredient", ing.Name).Msg("batch item failed, returning empty matches")
					matches = []domain.MatchResult{}
				}
				mu.Lock()
				results[ing.Name] = matches
				mu.Unlock()
				return nil
			})
		}
		// The group is awaited before the next one starts, bounding
		// outstanding catalog calls.
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// FindSubstituteProducts ranks alternatives to a product the user already
// has, using a lower score floor. The current product is excluded; with
// SameCategoryOnly set, candidates must share a category with it.
func (s *MatcherService) FindSubstituteProducts(ctx context.Context, ing domain.Ingredient, current domain.Product, opts domain.MatchOptions) ([]domain.MatchResult, error) {
	if strings.TrimSpace(ing.Name) == "" {
		return nil, domain.ErrInvalidIngredient
	}

	candidates, err := s.searchCandidates(ctx, ExtractSearchTerm(ing.Name))
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Product, 0, len(candidates))
	for _, p := range candidates {
		if p.Barcode == current.Barcode {
			continue
		}
		if opts.SameCategoryOnly && !sharesCategory(p.Categories, current.Categories) {
			continue
		}
		filtered = append(filtered, p)
	}

	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = s.subScore
	}
	return s.rank(ing, filtered, opts.Preferences, minScore, s.maxResults(opts)), nil
}

// GetProductByBarcode looks up a single product through the cache's
// product TTL class.
func (s *MatcherService) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	key := "product:" + barcode
	if payload, ok := s.cache.Get(ctx, key); ok {
		var p domain.Product
		if err := json.Unmarshal(payload, &p); err == nil {
			s.cache.OnHit(ctx, key)
			return &p, nil
		}
	}

	p, err := s.catalog.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(p); err == nil {
		s.cache.Put(ctx, key, payload, cache.ClassProduct)
	}
	return p, nil
}

// ProductCoverage reports how far one product package goes for a recipe
// need.
func (s *MatcherService) ProductCoverage(need domain.Ingredient, product domain.Product) domain.CoverageResult {
	return ProductCoverage(need, product)
}

// CombineQuantities sums a list of quantities into a single display
// quantity.
func (s *MatcherService) CombineQuantities(items []domain.Quantity) domain.Quantity {
	return Combine(items)
}

// ParseFraction parses a numeric, fraction, or mixed-number string.
func (s *MatcherService) ParseFraction(value string) float64 {
	return ParseFraction(value)
}

// SweepCache removes expired durable cache entries.
func (s *MatcherService) SweepCache(ctx context.Context) (int, error) {
	return s.cache.Sweep(ctx)
}

// searchCandidates resolves a search term to catalog products, consulting
// the cache first. Results are cached only after a fully successful fetch.
func (s *MatcherService) searchCandidates(ctx context.Context, term string) ([]domain.Product, error) {
	key := "search:" + term

	if payload, ok := s.cache.Get(ctx, key); ok {
		var products []domain.Product
		if err := json.Unmarshal(payload, &products); err == nil {
			s.cache.OnHit(ctx, key)
			return products, nil
		}
		s.logger.Warn().Str("key", key).Msg("discarding undecodable cache payload")
	}

	products, err := s.catalog.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(products); err == nil {
		s.cache.Put(ctx, key, payload, cache.ClassSearch)
	}
	return products, nil
}

// rank scores, filters, sorts and truncates candidates. Ordering is
// deterministic: descending score with barcode as the tie-break.
func (s *MatcherService) rank(ing domain.Ingredient, candidates []domain.Product, prefs domain.UserPreferences, minScore float64, maxResults int) []domain.MatchResult {
	results := make([]domain.MatchResult, 0, len(candidates))
	for _, p := range candidates {
		r := s.scorer.Score(ing, p, prefs)
		if r.Score >= minScore {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Product.Barcode < results[j].Product.Barcode
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func (s *MatcherService) maxResults(opts domain.MatchOptions) int {
	if opts.MaxResults > 0 {
		return opts.MaxResults
	}
	return s.maxOut
}

func sharesCategory(a, b []string) bool {
	for _, ca := range a {
		cal := strings.ToLower(strings.TrimSpace(ca))
		if cal == "" {
			continue
		}
		for _, cb := range b {
			if cal == strings.ToLower(strings.TrimSpace(cb)) {
				return true
			}
		}
	}
	return false
}

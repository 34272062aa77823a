package domain

import "errors"

var (
	// ErrInvalidIngredient is returned when an ingredient has no name
	ErrInvalidIngredient = errors.New("ingredient name is required")

	// ErrProductNotFound is returned when a barcode lookup finds nothing
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrCacheMiss is returned when a key is absent or expired in a cache tier
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the external catalog cannot be
	// reached after retries
	ErrCatalogUnavailable = errors.New("product catalog unavailable")
)

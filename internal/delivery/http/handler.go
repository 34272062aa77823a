package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pantryport/backend/internal/domain"
	"github.com/pantryport/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher *usecase.MatcherService
}

// NewHandler creates a new HTTP handler
func NewHandler(matcher *usecase.MatcherService) *Handler {
	return &Handler{matcher: matcher}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pantryport-backend",
		"version": "1.0.0",
	})
}

type matchRequest struct {
	Ingredient domain.Ingredient   `json:"ingredient" binding:"required"`
	Options    domain.MatchOptions `json:"options"`
}

// MatchIngredient ranks catalog products for one ingredient
func (h *Handler) MatchIngredient(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matches, err := h.matcher.MatchIngredientToProducts(c.Request.Context(), req.Ingredient, req.Options)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

type batchMatchRequest struct {
	Ingredients []domain.Ingredient `json:"ingredients" binding:"required,min=1"`
	Options     domain.MatchOptions `json:"options"`
}

// BatchMatchIngredients ranks products for many ingredients at once
func (h *Handler) BatchMatchIngredients(c *gin.Context) {
	var req batchMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.matcher.BatchMatchIngredients(c.Request.Context(), req.Ingredients, req.Options)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

type substituteRequest struct {
	Ingredient     domain.Ingredient   `json:"ingredient" binding:"required"`
	CurrentProduct domain.Product      `json:"currentProduct" binding:"required"`
	Options        domain.MatchOptions `json:"options"`
}

// FindSubstitutes ranks alternatives to a product the user already has
func (h *Handler) FindSubstitutes(c *gin.Context) {
	var req substituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	matches, err := h.matcher.FindSubstituteProducts(c.Request.Context(), req.Ingredient, req.CurrentProduct, req.Options)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// GetProduct looks up one product by barcode
func (h *Handler) GetProduct(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "barcode is required"})
		return
	}

	product, err := h.matcher.GetProductByBarcode(c.Request.Context(), barcode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

type coverageRequest struct {
	Ingredient domain.Ingredient `json:"ingredient" binding:"required"`
	Product    domain.Product    `json:"product" binding:"required"`
}

// ProductCoverage reports how far a product package goes for a recipe need
func (h *Handler) ProductCoverage(c *gin.Context) {
	var req coverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.matcher.ProductCoverage(req.Ingredient, req.Product))
}

type combineRequest struct {
	Quantities []domain.Quantity `json:"quantities" binding:"required,min=1"`
}

// CombineQuantities sums a list of quantities into one display quantity
func (h *Handler) CombineQuantities(c *gin.Context) {
	var req combineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.matcher.CombineQuantities(req.Quantities))
}

// respondError maps domain errors onto HTTP statuses. Transient catalog
// trouble is a 502 so clients can tell it apart from bad input.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidIngredient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

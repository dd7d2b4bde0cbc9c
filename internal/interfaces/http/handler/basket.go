package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
	"github.com/cartfox/backend/internal/infrastructure/logger"
	"github.com/cartfox/backend/internal/interfaces/http/dto"
	"github.com/cartfox/backend/internal/interfaces/http/middleware"
)

// BasketOptimizer computes the minimum-cost basket for a list of items.
type BasketOptimizer interface {
	OptimizeBasket(ctx context.Context, items []pricing.GroceryItem) (pricing.Basket, error)
}

// BasketHandler handles basket optimization API endpoints
type BasketHandler struct {
	BaseHandler
	service BasketOptimizer
}

// NewBasketHandler creates a new BasketHandler
func NewBasketHandler(service BasketOptimizer) *BasketHandler {
	return &BasketHandler{service: service}
}

// RegisterRoutes registers basket routes on the given router group
func (h *BasketHandler) RegisterRoutes(rg *gin.RouterGroup) {
	prices := rg.Group("/prices")
	{
		prices.POST("/optimize", h.OptimizeBasket)
	}
}

// OptimizeBasket handles POST /prices/optimize
func (h *BasketHandler) OptimizeBasket(c *gin.Context) {
	var req dto.OptimizeBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	basket, err := h.service.OptimizeBasket(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.handlePipelineError(c, err)
		return
	}

	h.Success(c, dto.NewOptimizeBasketResponse(basket))
}

// handlePipelineError maps pipeline errors to HTTP responses
func (h *BasketHandler) handlePipelineError(c *gin.Context, err error) {
	log := logger.GetGinLogger(c)

	var scrapingErr *pricing.ScrapingError
	if errors.As(err, &scrapingErr) {
		log.Error("price retrieval unavailable", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeScrapingUnavailable, "Price retrieval is temporarily unavailable")
		return
	}

	var optimizationErr *pricing.OptimizationError
	if errors.As(err, &optimizationErr) {
		log.Error("basket optimization failed", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeOptimization, "Basket optimization failed")
		return
	}

	var mappingErr *pricing.MappingError
	if errors.As(err, &mappingErr) {
		log.Error("product mapping failed", zap.Error(err))
		h.ErrorWithCode(c, dto.ErrCodeMapping, "Product mapping failed")
		return
	}

	log.Error("unexpected error optimizing basket", zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

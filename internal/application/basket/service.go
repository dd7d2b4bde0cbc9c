package basket

import (
	"context"

	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
)

// Service runs the full basket pipeline: map requested items to platform
// products, fetch offers concurrently, then pick the cheapest platform per
// item.
type Service struct {
	mapping   *MappingService
	fetch     *FetchService
	optimizer *OptimizerService
	logger    *zap.Logger
}

func NewService(mapping *MappingService, fetch *FetchService, optimizer *OptimizerService, logger *zap.Logger) *Service {
	return &Service{
		mapping:   mapping,
		fetch:     fetch,
		optimizer: optimizer,
		logger:    logger,
	}
}

// OptimizeBasket computes the minimum-cost basket for the requested items.
func (s *Service) OptimizeBasket(ctx context.Context, items []pricing.GroceryItem) (pricing.Basket, error) {
	mapped := s.mapping.MapProducts(items)

	table, err := s.fetch.FetchAll(ctx, mapped)
	if err != nil {
		return pricing.Basket{}, err
	}

	basket, err := s.optimizer.Optimize(table, items)
	if err != nil {
		return pricing.Basket{}, err
	}

	s.logger.Info("basket optimized",
		zap.Int("requested_items", len(items)),
		zap.Int("basket_items", len(basket.Items)),
		zap.String("total_price", basket.TotalPrice.StringFixed(2)),
		zap.String("savings", basket.Savings.StringFixed(2)),
	)
	return basket, nil
}

// Close releases the fetch layer's connectors.
func (s *Service) Close() error {
	return s.fetch.Close()
}

package basket

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
)

// OptimizerService picks, for each requested item, the platform offering the
// lowest final price, and aggregates the chosen offers into a basket.
//
// Optimization is a pure function of the price table and the request: no
// I/O, no shared state.
type OptimizerService struct {
	logger *zap.Logger
}

func NewOptimizerService(logger *zap.Logger) *OptimizerService {
	return &OptimizerService{logger: logger}
}

// Optimize selects the cheapest platform per item and scales the winning
// offer by the requested quantity. Items with no offers are omitted from the
// basket. Any internal fault surfaces as a *pricing.OptimizationError.
func (o *OptimizerService) Optimize(table pricing.PriceTable, items []pricing.GroceryItem) (basket pricing.Basket, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &pricing.OptimizationError{Err: fmt.Errorf("optimize basket: %v", r)}
		}
	}()

	basket.Items = make([]pricing.LineItem, 0, len(items))
	totalOriginal := decimal.Zero
	totalFinal := decimal.Zero

	// Duplicate names collapse to one line item at the first occurrence's
	// position; the last occurrence's quantity and unit win.
	latest := make(map[string]pricing.GroceryItem, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := latest[item.Name]; !ok {
			order = append(order, item.Name)
		}
		latest[item.Name] = item
	}

	for _, name := range order {
		item := latest[name]

		offers := table[item.Name]
		if len(offers) == 0 {
			o.logger.Warn("item unavailable on every platform", zap.String("item", item.Name))
			continue
		}

		best, ok := cheapestOffer(offers)
		if !ok {
			continue
		}

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		scale := decimal.NewFromInt(int64(quantity))

		line := pricing.LineItem{
			Name:          item.Name,
			Platform:      best.Platform,
			OriginalPrice: best.OriginalPrice.Mul(scale),
			Discount:      best.Discount.Mul(scale),
			FinalPrice:    best.FinalPrice.Mul(scale),
			Quantity:      quantity,
			Unit:          item.Unit,
			ProductName:   best.ProductName,
			ProductID:     best.ProductID,
			URL:           best.URL,
		}
		basket.Items = append(basket.Items, line)
		totalOriginal = totalOriginal.Add(line.OriginalPrice)
		totalFinal = totalFinal.Add(line.FinalPrice)
	}

	basket.TotalPrice = totalFinal
	basket.Savings = totalOriginal.Sub(totalFinal)
	return basket, nil
}

// cheapestOffer returns the offer with the strictly lowest final price.
// Platforms are visited in sorted name order so ties resolve the same way on
// every run.
func cheapestOffer(offers map[string]pricing.Offer) (pricing.Offer, bool) {
	platforms := make([]string, 0, len(offers))
	for platform := range offers {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	var best pricing.Offer
	found := false
	for _, platform := range platforms {
		offer := offers[platform]
		if !found || offer.FinalPrice.LessThan(best.FinalPrice) {
			best = offer
			found = true
		}
	}
	return best, found
}

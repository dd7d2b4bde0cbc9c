package scraper

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
)

// PlatformShopWise identifies the ShopWise storefront.
const PlatformShopWise = "shopwise"

// shopWise talks to ShopWise's public catalog API instead of scraping HTML.
type shopWise struct {
	baseURL string
}

type shopWiseItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	InStock  bool            `json:"in_stock"`
	Discount *shopWiseOffer  `json:"discount"`
}

type shopWiseOffer struct {
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

func NewShopWise(baseURL string, opts Options, logger *zap.Logger) (Connector, error) {
	return newConnector(PlatformShopWise, baseURL, &shopWise{baseURL: baseURL}, opts, logger)
}

func (w *shopWise) itemURL(productID string) string {
	return fmt.Sprintf("%s/api/catalog/items/%s", w.baseURL, productID)
}

func (w *shopWise) fetchItem(ctx context.Context, s *session, productID string) (shopWiseItem, error) {
	var item shopWiseItem
	if err := s.getJSON(ctx, w.itemURL(productID), &item); err != nil {
		return shopWiseItem{}, err
	}
	return item, nil
}

func (w *shopWise) scrapePrice(ctx context.Context, s *session, productID, productName string) (pricing.PriceQuote, error) {
	item, err := w.fetchItem(ctx, s, productID)
	if err != nil {
		return pricing.PriceQuote{}, err
	}
	if item.Price.IsNegative() {
		return pricing.PriceQuote{}, fmt.Errorf("negative catalog price %s for %s", item.Price, productID)
	}

	currency := item.Currency
	if currency == "" {
		currency = "USD"
	}

	return pricing.PriceQuote{
		Platform:    PlatformShopWise,
		ProductID:   productID,
		ProductName: productName,
		Price:       item.Price,
		Currency:    currency,
		InStock:     item.InStock,
		URL:         fmt.Sprintf("%s/items/%s", w.baseURL, productID),
	}, nil
}

func (w *shopWise) scrapeDiscount(ctx context.Context, s *session, productID, _ string) (pricing.Discount, error) {
	item, err := w.fetchItem(ctx, s, productID)
	if err != nil {
		return pricing.Discount{}, err
	}
	if item.Discount == nil {
		return pricing.NoDiscount(), nil
	}
	switch item.Discount.Kind {
	case "percent":
		return pricing.Discount{Type: pricing.DiscountPercentage, Value: item.Discount.Value}, nil
	case "amount":
		return pricing.Discount{Type: pricing.DiscountAbsolute, Value: item.Discount.Value}, nil
	default:
		return pricing.NoDiscount(), nil
	}
}

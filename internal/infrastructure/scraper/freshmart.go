package scraper

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
)

// PlatformFreshMart identifies the FreshMart storefront.
const PlatformFreshMart = "freshmart"

var (
	freshMartPercentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	freshMartAmountRe  = regexp.MustCompile(`\$\s*(\d+(?:\.\d+)?)`)
)

// freshMart parses FreshMart product pages. Prices sit in a
// span.product-price element, promotions in span.product-discount as either
// "20% off" or "$1.50 off".
type freshMart struct {
	baseURL string
}

func NewFreshMart(baseURL string, opts Options, logger *zap.Logger) (Connector, error) {
	return newConnector(PlatformFreshMart, baseURL, &freshMart{baseURL: baseURL}, opts, logger)
}

func (f *freshMart) productURL(productID string) string {
	return fmt.Sprintf("%s/products/%s", f.baseURL, productID)
}

func (f *freshMart) scrapePrice(ctx context.Context, s *session, productID, productName string) (pricing.PriceQuote, error) {
	pageURL := f.productURL(productID)
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return pricing.PriceQuote{}, err
	}

	priceText := strings.TrimSpace(doc.Find("span.product-price").First().Text())
	if priceText == "" {
		return pricing.PriceQuote{}, errors.New("price element not found")
	}
	price, err := parsePrice(priceText)
	if err != nil {
		return pricing.PriceQuote{}, err
	}

	inStock := true
	if stock := doc.Find("span.stock-status").First(); stock.Length() > 0 {
		inStock = !strings.Contains(strings.ToLower(stock.Text()), "out of stock")
	}

	return pricing.PriceQuote{
		Platform:    PlatformFreshMart,
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Currency:    "USD",
		InStock:     inStock,
		URL:         pageURL,
	}, nil
}

func (f *freshMart) scrapeDiscount(ctx context.Context, s *session, productID, _ string) (pricing.Discount, error) {
	doc, err := s.document(ctx, f.productURL(productID))
	if err != nil {
		return pricing.Discount{}, err
	}

	text := strings.TrimSpace(doc.Find("span.product-discount").First().Text())
	if text == "" {
		return pricing.NoDiscount(), nil
	}
	if m := freshMartPercentRe.FindStringSubmatch(text); m != nil {
		value, err := decimal.NewFromString(m[1])
		if err == nil {
			return pricing.Discount{Type: pricing.DiscountPercentage, Value: value}, nil
		}
	}
	if m := freshMartAmountRe.FindStringSubmatch(text); m != nil {
		value, err := decimal.NewFromString(m[1])
		if err == nil {
			return pricing.Discount{Type: pricing.DiscountAbsolute, Value: value}, nil
		}
	}
	return pricing.NoDiscount(), nil
}

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

// PlatformPriceRite identifies the PriceRite storefront.
const PlatformPriceRite = "pricerite"

var priceRiteSaveRe = regexp.MustCompile(`[Ss]ave\s+\$\s*(\d+(?:\.\d+)?)`)

// priceRite parses PriceRite product pages. The price renders as
// "USD 3.49" inside #product-price, stock state is signalled by a disabled
// add-to-cart button, and promotions appear as "Save $2.00" banners.
type priceRite struct {
	baseURL string
}

func NewPriceRite(baseURL string, opts Options, logger *zap.Logger) (Connector, error) {
	return newConnector(PlatformPriceRite, baseURL, &priceRite{baseURL: baseURL}, opts, logger)
}

func (p *priceRite) productURL(productID string) string {
	return fmt.Sprintf("%s/p/%s", p.baseURL, productID)
}

func (p *priceRite) scrapePrice(ctx context.Context, s *session, productID, productName string) (pricing.PriceQuote, error) {
	pageURL := p.productURL(productID)
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return pricing.PriceQuote{}, err
	}

	priceText := strings.TrimSpace(doc.Find("#product-price").First().Text())
	if priceText == "" {
		return pricing.PriceQuote{}, errors.New("price element not found")
	}
	price, err := parsePrice(priceText)
	if err != nil {
		return pricing.PriceQuote{}, err
	}

	inStock := true
	if btn := doc.Find("button#add-to-cart").First(); btn.Length() > 0 {
		_, disabled := btn.Attr("disabled")
		inStock = !disabled
	}

	return pricing.PriceQuote{
		Platform:    PlatformPriceRite,
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Currency:    "USD",
		InStock:     inStock,
		URL:         pageURL,
	}, nil
}

func (p *priceRite) scrapeDiscount(ctx context.Context, s *session, productID, _ string) (pricing.Discount, error) {
	doc, err := s.document(ctx, p.productURL(productID))
	if err != nil {
		return pricing.Discount{}, err
	}

	banner := strings.TrimSpace(doc.Find("div.promo-banner").First().Text())
	if m := priceRiteSaveRe.FindStringSubmatch(banner); m != nil {
		value, err := decimal.NewFromString(m[1])
		if err == nil {
			return pricing.Discount{Type: pricing.DiscountAbsolute, Value: value}, nil
		}
	}
	return pricing.NoDiscount(), nil
}

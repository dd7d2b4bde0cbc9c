package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
)

// PlatformGreenBasket identifies the GreenBasket storefront.
const PlatformGreenBasket = "greenbasket"

var greenBasketBadgeRe = regexp.MustCompile(`-?\s*(\d+(?:\.\d+)?)\s*%`)

// greenBasket parses GreenBasket product pages, which carry schema.org
// microdata: the price lives in meta[itemprop=price] and promotions in a
// span.deal-badge element such as "-15%".
type greenBasket struct {
	baseURL string
}

func NewGreenBasket(baseURL string, opts Options, logger *zap.Logger) (Connector, error) {
	return newConnector(PlatformGreenBasket, baseURL, &greenBasket{baseURL: baseURL}, opts, logger)
}

func (g *greenBasket) productURL(productID string) string {
	return fmt.Sprintf("%s/shop/item/%s", g.baseURL, productID)
}

func (g *greenBasket) scrapePrice(ctx context.Context, s *session, productID, productName string) (pricing.PriceQuote, error) {
	pageURL := g.productURL(productID)
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return pricing.PriceQuote{}, err
	}

	priceAttr, ok := doc.Find(`meta[itemprop="price"]`).First().Attr("content")
	if !ok {
		return pricing.PriceQuote{}, fmt.Errorf("price metadata not found on %s", pageURL)
	}
	price, err := parsePrice(priceAttr)
	if err != nil {
		return pricing.PriceQuote{}, err
	}

	currency := "USD"
	if c, ok := doc.Find(`meta[itemprop="priceCurrency"]`).First().Attr("content"); ok && c != "" {
		currency = c
	}

	inStock := true
	if avail := doc.Find("p.availability").First(); avail.Length() > 0 {
		inStock = !strings.Contains(strings.ToLower(avail.Text()), "out of stock")
	}

	return pricing.PriceQuote{
		Platform:    PlatformGreenBasket,
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Currency:    currency,
		InStock:     inStock,
		URL:         pageURL,
	}, nil
}

func (g *greenBasket) scrapeDiscount(ctx context.Context, s *session, productID, _ string) (pricing.Discount, error) {
	doc, err := s.document(ctx, g.productURL(productID))
	if err != nil {
		return pricing.Discount{}, err
	}

	badge := strings.TrimSpace(doc.Find("span.deal-badge").First().Text())
	if m := greenBasketBadgeRe.FindStringSubmatch(badge); m != nil {
		value, err := decimal.NewFromString(m[1])
		if err == nil {
			return pricing.Discount{Type: pricing.DiscountPercentage, Value: value}, nil
		}
	}
	return pricing.NoDiscount(), nil
}

package pricing

import (
	"github.com/shopspring/decimal"
)

// GroceryItem is one caller-requested item, named independently of any
// platform's catalog.
type GroceryItem struct {
	Name     string
	Quantity int
	Unit     string
}

// PlatformProduct is a platform's own identity for a generic item.
type PlatformProduct struct {
	ProductID   string
	ProductName string
}

// MappedProducts maps a generic item name to its per-platform identities.
// An item with no known platforms maps to an empty inner map.
type MappedProducts map[string]map[string]PlatformProduct

// DiscountType classifies how a discount value is expressed.
type DiscountType string

const (
	// DiscountNone means no discount applies.
	DiscountNone DiscountType = "none"
	// DiscountPercentage means the value is a percentage in [0,100].
	DiscountPercentage DiscountType = "percentage"
	// DiscountAbsolute means the value is a currency amount.
	DiscountAbsolute DiscountType = "absolute"
)

// Discount is a raw discount as reported by a platform.
type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// NoDiscount returns the neutral discount that leaves a price unchanged.
func NoDiscount() Discount {
	return Discount{Type: DiscountNone, Value: decimal.Zero}
}

// AmountOff resolves the discount to an absolute currency amount against
// the given original price.
func (d Discount) AmountOff(price decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case DiscountPercentage:
		return price.Mul(d.Value).Div(decimal.NewFromInt(100))
	case DiscountAbsolute:
		return d.Value
	default:
		return decimal.Zero
	}
}

// PriceQuote is a raw price observation for one product on one platform.
type PriceQuote struct {
	Platform    string
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Currency    string
	InStock     bool
	URL         string
}

// Offer is a price quote with its discount resolved to an absolute amount.
// FinalPrice may be negative when upstream discount data is malformed; it is
// passed through uncorrected rather than clamped.
type Offer struct {
	GenericName   string
	Platform      string
	ProductID     string
	ProductName   string
	URL           string
	OriginalPrice decimal.Decimal
	Discount      decimal.Decimal
	FinalPrice    decimal.Decimal
}

// ResolveOffer combines a quote and a raw discount into an Offer.
func ResolveOffer(genericName string, quote PriceQuote, discount Discount) Offer {
	amount := discount.AmountOff(quote.Price)
	return Offer{
		GenericName:   genericName,
		Platform:      quote.Platform,
		ProductID:     quote.ProductID,
		ProductName:   quote.ProductName,
		URL:           quote.URL,
		OriginalPrice: quote.Price,
		Discount:      amount,
		FinalPrice:    quote.Price.Sub(amount),
	}
}

// PriceTable holds resolved offers keyed by generic item name, then platform.
// Built fresh per request and discarded afterwards.
type PriceTable map[string]map[string]Offer

// Add inserts an offer under its generic name and platform.
func (t PriceTable) Add(offer Offer) {
	platforms, ok := t[offer.GenericName]
	if !ok {
		platforms = make(map[string]Offer)
		t[offer.GenericName] = platforms
	}
	platforms[offer.Platform] = offer
}

// LineItem is one chosen offer in an optimized basket, scaled by the
// requested quantity.
type LineItem struct {
	Name          string
	Platform      string
	OriginalPrice decimal.Decimal
	Discount      decimal.Decimal
	FinalPrice    decimal.Decimal
	Quantity      int
	Unit          string
	ProductName   string
	ProductID     string
	URL           string
}

// Basket is the minimum-cost selection across platforms.
type Basket struct {
	TotalPrice decimal.Decimal
	Savings    decimal.Decimal
	Items      []LineItem
}

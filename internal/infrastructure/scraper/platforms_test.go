package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartfox/backend/internal/domain/pricing"
)

func serveHTML(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSession() *session {
	return &session{client: newHTTPClient(2 * time.Second), userAgent: "cartfox-test/1.0"}
}

func TestFreshMartScrapePrice(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<span class="product-price">$3.49</span>
		<span class="stock-status">In Stock</span>
	</body></html>`)

	ext := &freshMart{baseURL: srv.URL}
	quote, err := ext.scrapePrice(context.Background(), testSession(), "fm-101", "Milk 1L")
	require.NoError(t, err)

	assert.Equal(t, PlatformFreshMart, quote.Platform)
	assert.True(t, quote.Price.Equal(decimal.RequireFromString("3.49")))
	assert.True(t, quote.InStock)
	assert.Equal(t, srv.URL+"/products/fm-101", quote.URL)
}

func TestFreshMartScrapePriceOutOfStock(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<span class="product-price">$3.49</span>
		<span class="stock-status">Out of Stock</span>
	</body></html>`)

	ext := &freshMart{baseURL: srv.URL}
	quote, err := ext.scrapePrice(context.Background(), testSession(), "fm-101", "Milk 1L")
	require.NoError(t, err)
	assert.False(t, quote.InStock)
}

func TestFreshMartScrapePriceMissingElement(t *testing.T) {
	srv := serveHTML(t, `<html><body><p>nothing here</p></body></html>`)

	ext := &freshMart{baseURL: srv.URL}
	_, err := ext.scrapePrice(context.Background(), testSession(), "fm-101", "Milk 1L")
	assert.Error(t, err)
}

func TestFreshMartScrapeDiscount(t *testing.T) {
	tests := []struct {
		name     string
		badge    string
		wantType pricing.DiscountType
		wantVal  string
	}{
		{"percentage", "20% off", pricing.DiscountPercentage, "20"},
		{"absolute", "$1.50 off", pricing.DiscountAbsolute, "1.50"},
		{"unparseable", "Buy one get one free", pricing.DiscountNone, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveHTML(t, `<html><body><span class="product-discount">`+tt.badge+`</span></body></html>`)
			ext := &freshMart{baseURL: srv.URL}

			discount, err := ext.scrapeDiscount(context.Background(), testSession(), "fm-101", "Milk 1L")
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, discount.Type)
			assert.True(t, discount.Value.Equal(decimal.RequireFromString(tt.wantVal)))
		})
	}
}

func TestFreshMartScrapeDiscountAbsent(t *testing.T) {
	srv := serveHTML(t, `<html><body><span class="product-price">$3.49</span></body></html>`)
	ext := &freshMart{baseURL: srv.URL}

	discount, err := ext.scrapeDiscount(context.Background(), testSession(), "fm-101", "Milk 1L")
	require.NoError(t, err)
	assert.Equal(t, pricing.DiscountNone, discount.Type)
}

func TestGreenBasketScrapePrice(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<meta itemprop="price" content="2.89">
		<meta itemprop="priceCurrency" content="EUR">
		<p class="availability">In stock, ships today</p>
	</body></html>`)

	ext := &greenBasket{baseURL: srv.URL}
	quote, err := ext.scrapePrice(context.Background(), testSession(), "gb-7", "Bread")
	require.NoError(t, err)

	assert.True(t, quote.Price.Equal(decimal.RequireFromString("2.89")))
	assert.Equal(t, "EUR", quote.Currency)
	assert.True(t, quote.InStock)
}

func TestGreenBasketScrapePriceMissingMeta(t *testing.T) {
	srv := serveHTML(t, `<html><body><div class="price">$2.89</div></body></html>`)
	ext := &greenBasket{baseURL: srv.URL}

	_, err := ext.scrapePrice(context.Background(), testSession(), "gb-7", "Bread")
	assert.Error(t, err)
}

func TestGreenBasketScrapeDiscountBadge(t *testing.T) {
	srv := serveHTML(t, `<html><body><span class="deal-badge">-15%</span></body></html>`)
	ext := &greenBasket{baseURL: srv.URL}

	discount, err := ext.scrapeDiscount(context.Background(), testSession(), "gb-7", "Bread")
	require.NoError(t, err)
	assert.Equal(t, pricing.DiscountPercentage, discount.Type)
	assert.True(t, discount.Value.Equal(decimal.NewFromInt(15)))
}

func TestPriceRiteScrapePrice(t *testing.T) {
	srv := serveHTML(t, `<html><body>
		<div id="product-price">USD 4.25</div>
		<button id="add-to-cart" disabled>Add to Cart</button>
	</body></html>`)

	ext := &priceRite{baseURL: srv.URL}
	quote, err := ext.scrapePrice(context.Background(), testSession(), "pr-33", "Eggs")
	require.NoError(t, err)

	assert.True(t, quote.Price.Equal(decimal.RequireFromString("4.25")))
	assert.False(t, quote.InStock, "disabled add-to-cart means out of stock")
}

func TestPriceRiteScrapeDiscountBanner(t *testing.T) {
	srv := serveHTML(t, `<html><body><div class="promo-banner">Save $2.00 this week!</div></body></html>`)
	ext := &priceRite{baseURL: srv.URL}

	discount, err := ext.scrapeDiscount(context.Background(), testSession(), "pr-33", "Eggs")
	require.NoError(t, err)
	assert.Equal(t, pricing.DiscountAbsolute, discount.Type)
	assert.True(t, discount.Value.Equal(decimal.RequireFromString("2.00")))
}

func TestShopWiseScrapePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/catalog/items/sw-9", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"sw-9","name":"Butter 250g","price":"5.10","currency":"USD","in_stock":true}`))
	}))
	t.Cleanup(srv.Close)

	ext := &shopWise{baseURL: srv.URL}
	quote, err := ext.scrapePrice(context.Background(), testSession(), "sw-9", "Butter 250g")
	require.NoError(t, err)

	assert.True(t, quote.Price.Equal(decimal.RequireFromString("5.10")))
	assert.True(t, quote.InStock)
	assert.Equal(t, srv.URL+"/items/sw-9", quote.URL)
}

func TestShopWiseScrapePriceRejectsNegative(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"sw-9","price":"-1.00","in_stock":true}`))
	}))
	t.Cleanup(srv.Close)

	ext := &shopWise{baseURL: srv.URL}
	_, err := ext.scrapePrice(context.Background(), testSession(), "sw-9", "Butter 250g")
	assert.Error(t, err)
}

func TestShopWiseScrapeDiscount(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantType pricing.DiscountType
	}{
		{"percent", `{"id":"sw-9","price":"5.10","discount":{"kind":"percent","value":"10"}}`, pricing.DiscountPercentage},
		{"amount", `{"id":"sw-9","price":"5.10","discount":{"kind":"amount","value":"0.75"}}`, pricing.DiscountAbsolute},
		{"none", `{"id":"sw-9","price":"5.10"}`, pricing.DiscountNone},
		{"unknown kind", `{"id":"sw-9","price":"5.10","discount":{"kind":"loyalty","value":"3"}}`, pricing.DiscountNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			ext := &shopWise{baseURL: srv.URL}
			discount, err := ext.scrapeDiscount(context.Background(), testSession(), "sw-9", "Butter 250g")
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, discount.Type)
		})
	}
}

func TestShopWiseServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	ext := &shopWise{baseURL: srv.URL}
	_, err := ext.scrapePrice(context.Background(), testSession(), "sw-9", "Butter 250g")
	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"$3.49", "3.49", false},
		{"USD 12", "12", false},
		{"1,299.00", "1299.00", false},
		{"free", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)))
		})
	}
}

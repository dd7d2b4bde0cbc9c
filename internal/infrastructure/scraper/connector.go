// Package scraper implements the platform connectors that retrieve price and
// discount data from retail storefronts. Each connector owns its own caches
// and HTTP session; failures follow an asymmetric policy: prices fail loudly,
// discounts degrade to a neutral result.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
	"github.com/cartfox/backend/internal/infrastructure/cache"
)

// Connector retrieves price and discount data for one retail platform.
type Connector interface {
	// Name returns the platform name used as the key in mapping tables.
	Name() string
	// BaseURL returns the platform's configured base endpoint.
	BaseURL() string
	// GetPrice returns the current price for a product, serving from cache
	// when possible. A retrieval failure returns a *pricing.ScrapeError.
	GetPrice(ctx context.Context, productID, productName string) (pricing.PriceQuote, error)
	// GetDiscount returns the current discount for a product. Retrieval
	// failures degrade to the neutral no-discount result, never an error.
	GetDiscount(ctx context.Context, productID, productName string) pricing.Discount
	// Close releases the connector's session and caches. Idempotent.
	Close() error
}

// extractor supplies the platform-specific page retrieval and parsing.
type extractor interface {
	scrapePrice(ctx context.Context, s *session, productID, productName string) (pricing.PriceQuote, error)
	scrapeDiscount(ctx context.Context, s *session, productID, productName string) (pricing.Discount, error)
}

// connector wraps an extractor with caching, session management and the
// failure policy shared by all platforms.
type connector struct {
	name      string
	baseURL   string
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
	ext       extractor

	prices    cache.Cache[pricing.PriceQuote]
	discounts cache.Cache[pricing.Discount]

	mu     sync.Mutex
	sess   *session
	closed bool
}

func newConnector(name, baseURL string, ext extractor, opts Options, logger *zap.Logger) (*connector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	prices, err := cache.New[pricing.PriceQuote](opts.Cache, name, logger)
	if err != nil {
		return nil, fmt.Errorf("build price cache for %s: %w", name, err)
	}
	discounts, err := cache.New[pricing.Discount](opts.Cache, name, logger)
	if err != nil {
		_ = prices.Close()
		return nil, fmt.Errorf("build discount cache for %s: %w", name, err)
	}

	return &connector{
		name:      name,
		baseURL:   baseURL,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		logger:    logger.Named(name),
		ext:       ext,
		prices:    prices,
		discounts: discounts,
	}, nil
}

func (c *connector) Name() string { return c.name }

func (c *connector) BaseURL() string { return c.baseURL }

// session lazily builds the reusable HTTP session.
func (c *connector) session() *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		c.sess = &session{
			client:    newHTTPClient(c.timeout),
			userAgent: c.userAgent,
		}
	}
	return c.sess
}

func (c *connector) GetPrice(ctx context.Context, productID, productName string) (pricing.PriceQuote, error) {
	key := fmt.Sprintf("price:%s:%s", c.name, productID)
	if quote, ok := c.prices.Get(ctx, key); ok {
		c.logger.Debug("price cache hit", zap.String("key", key))
		return quote, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	quote, err := c.ext.scrapePrice(fetchCtx, c.session(), productID, productName)
	if err != nil {
		c.logger.Error("price scrape failed",
			zap.String("product", productName),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return pricing.PriceQuote{}, &pricing.ScrapeError{Platform: c.name, Product: productName, Err: err}
	}

	c.prices.Set(ctx, key, quote)
	return quote, nil
}

func (c *connector) GetDiscount(ctx context.Context, productID, productName string) pricing.Discount {
	key := fmt.Sprintf("discount:%s:%s", c.name, productID)
	if discount, ok := c.discounts.Get(ctx, key); ok {
		c.logger.Debug("discount cache hit", zap.String("key", key))
		return discount
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	discount, err := c.ext.scrapeDiscount(fetchCtx, c.session(), productID, productName)
	if err != nil {
		// A missing discount is a safe default; the price still stands.
		c.logger.Warn("discount scrape failed, degrading to no discount",
			zap.String("product", productName),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return pricing.NoDiscount()
	}

	c.discounts.Set(ctx, key, discount)
	return discount
}

// Close releases the session and caches. Safe to call on an already-closed
// or never-opened connector.
func (c *connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if c.sess != nil {
		c.sess.client.CloseIdleConnections()
		c.sess = nil
	}
	return errors.Join(c.prices.Close(), c.discounts.Close())
}

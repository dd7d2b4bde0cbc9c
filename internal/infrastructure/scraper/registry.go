package scraper

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/infrastructure/cache"
	"github.com/cartfox/backend/internal/infrastructure/config"
)

// Options carries the settings shared by every connector.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Cache     cache.Config
}

// Builder constructs a Connector for one platform.
type Builder func(baseURL string, opts Options, logger *zap.Logger) (Connector, error)

func builders() map[string]Builder {
	return map[string]Builder{
		PlatformFreshMart:   NewFreshMart,
		PlatformGreenBasket: NewGreenBasket,
		PlatformPriceRite:   NewPriceRite,
		PlatformShopWise:    NewShopWise,
	}
}

// New builds a connector for every enabled platform in the configuration.
// Unknown platform names are an error: a typo in config should not silently
// drop a storefront.
func New(cfg config.ScraperConfig, cacheCfg cache.Config, logger *zap.Logger) (map[string]Connector, error) {
	opts := Options{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Cache:     cacheCfg,
	}

	available := builders()
	connectors := make(map[string]Connector, len(cfg.Platforms))
	for name, platform := range cfg.Platforms {
		if !platform.Enabled {
			logger.Info("platform disabled", zap.String("platform", name))
			continue
		}
		build, ok := available[name]
		if !ok {
			_ = CloseAll(connectors)
			return nil, fmt.Errorf("unknown platform %q in configuration", name)
		}
		conn, err := build(platform.BaseURL, opts, logger)
		if err != nil {
			_ = CloseAll(connectors)
			return nil, fmt.Errorf("build connector %s: %w", name, err)
		}
		connectors[name] = conn
	}
	return connectors, nil
}

// CloseAll closes every connector and joins their errors.
func CloseAll(connectors map[string]Connector) error {
	var errs []error
	for _, conn := range connectors {
		if err := conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

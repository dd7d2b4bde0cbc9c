// Package basket implements the application services behind basket
// optimization: product mapping, concurrent price fetching and the
// minimum-cost selection.
package basket

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
)

// mappingEntry mirrors one platform record in the mapping file.
type mappingEntry struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
}

// MappingService resolves generic item names to platform product identities
// using a static mapping table loaded at startup.
type MappingService struct {
	logger *zap.Logger
	table  map[string]map[string]pricing.PlatformProduct
}

// NewMappingService loads the mapping table from path. Generic names are
// stored lowercased so lookups are case-insensitive.
func NewMappingService(path string, logger *zap.Logger) (*MappingService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &pricing.MappingError{Err: fmt.Errorf("read mapping table %s: %w", path, err)}
	}

	var raw map[string]map[string]mappingEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &pricing.MappingError{Err: fmt.Errorf("parse mapping table %s: %w", path, err)}
	}

	table := make(map[string]map[string]pricing.PlatformProduct, len(raw))
	for name, platforms := range raw {
		products := make(map[string]pricing.PlatformProduct, len(platforms))
		for platform, entry := range platforms {
			products[platform] = pricing.PlatformProduct{
				ProductID:   entry.ProductID,
				ProductName: entry.ProductName,
			}
		}
		table[strings.ToLower(name)] = products
	}

	logger.Info("product mapping table loaded",
		zap.String("path", path),
		zap.Int("items", len(table)),
	)
	return &MappingService{logger: logger, table: table}, nil
}

// MapProducts resolves each requested item to its per-platform products.
// Unknown items map to an empty inner map so downstream stages can report
// them as unavailable instead of failing the whole request.
func (m *MappingService) MapProducts(items []pricing.GroceryItem) pricing.MappedProducts {
	mapped := make(pricing.MappedProducts, len(items))
	for _, item := range items {
		key := strings.ToLower(item.Name)
		products, ok := m.table[key]
		if !ok {
			m.logger.Warn("no platform mapping for item", zap.String("item", item.Name))
			mapped[item.Name] = map[string]pricing.PlatformProduct{}
			continue
		}
		mapped[item.Name] = products
	}
	return mapped
}

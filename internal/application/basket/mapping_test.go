package basket

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
)

func writeMappingFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mappings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleMappings = `{
	"Milk": {
		"freshmart": {"product_id": "fm-101", "product_name": "Whole Milk 1L"},
		"shopwise": {"product_id": "sw-9", "product_name": "Milk Full Fat 1L"}
	},
	"Bread": {
		"greenbasket": {"product_id": "gb-7", "product_name": "Sourdough Loaf"}
	}
}`

func TestNewMappingServiceMissingFile(t *testing.T) {
	_, err := NewMappingService(filepath.Join(t.TempDir(), "absent.json"), zap.NewNop())
	require.Error(t, err)

	var mapErr *pricing.MappingError
	assert.ErrorAs(t, err, &mapErr)
}

func TestNewMappingServiceMalformedJSON(t *testing.T) {
	path := writeMappingFile(t, `{"Milk": [`)
	_, err := NewMappingService(path, zap.NewNop())
	require.Error(t, err)

	var mapErr *pricing.MappingError
	assert.ErrorAs(t, err, &mapErr)
}

func TestMapProductsCaseInsensitive(t *testing.T) {
	svc, err := NewMappingService(writeMappingFile(t, sampleMappings), zap.NewNop())
	require.NoError(t, err)

	mapped := svc.MapProducts([]pricing.GroceryItem{
		{Name: "MILK", Quantity: 1},
		{Name: "bread", Quantity: 2},
	})

	require.Len(t, mapped, 2)
	assert.Equal(t, "fm-101", mapped["MILK"]["freshmart"].ProductID)
	assert.Equal(t, "Milk Full Fat 1L", mapped["MILK"]["shopwise"].ProductName)
	assert.Equal(t, "gb-7", mapped["bread"]["greenbasket"].ProductID)
}

func TestMapProductsUnknownItemYieldsEmptyMapping(t *testing.T) {
	svc, err := NewMappingService(writeMappingFile(t, sampleMappings), zap.NewNop())
	require.NoError(t, err)

	mapped := svc.MapProducts([]pricing.GroceryItem{{Name: "Caviar"}})

	require.Contains(t, mapped, "Caviar")
	assert.Empty(t, mapped["Caviar"])
}

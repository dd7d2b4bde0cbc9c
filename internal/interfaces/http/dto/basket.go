package dto

import (
	"github.com/shopspring/decimal"

	"github.com/cartfox/backend/internal/domain/pricing"
)

// BasketItemRequest is one requested grocery item
type BasketItemRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Quantity int    `json:"quantity" binding:"omitempty,min=1,max=1000"`
	Unit     string `json:"unit" binding:"omitempty,max=50"`
}

// OptimizeBasketRequest is the body of POST /prices/optimize
type OptimizeBasketRequest struct {
	Items []BasketItemRequest `json:"items" binding:"required,min=1,max=100,dive"`
}

// ToDomain converts the request items to domain grocery items
func (r OptimizeBasketRequest) ToDomain() []pricing.GroceryItem {
	items := make([]pricing.GroceryItem, 0, len(r.Items))
	for _, item := range r.Items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items = append(items, pricing.GroceryItem{
			Name:     item.Name,
			Quantity: quantity,
			Unit:     item.Unit,
		})
	}
	return items
}

// BasketLineItemResponse is one chosen offer in the optimized basket
type BasketLineItemResponse struct {
	Name          string          `json:"name"`
	Platform      string          `json:"platform"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	Discount      decimal.Decimal `json:"discount"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit,omitempty"`
	ProductName   string          `json:"platform_specific_name"`
	ProductID     string          `json:"product_id"`
	URL           string          `json:"url,omitempty"`
}

// OptimizeBasketResponse is the optimized basket
type OptimizeBasketResponse struct {
	TotalPrice decimal.Decimal          `json:"total_price"`
	Savings    decimal.Decimal          `json:"savings"`
	Items      []BasketLineItemResponse `json:"items"`
}

// NewOptimizeBasketResponse converts a domain basket to its response form
func NewOptimizeBasketResponse(basket pricing.Basket) OptimizeBasketResponse {
	items := make([]BasketLineItemResponse, 0, len(basket.Items))
	for _, line := range basket.Items {
		items = append(items, BasketLineItemResponse{
			Name:          line.Name,
			Platform:      line.Platform,
			OriginalPrice: line.OriginalPrice,
			Discount:      line.Discount,
			FinalPrice:    line.FinalPrice,
			Quantity:      line.Quantity,
			Unit:          line.Unit,
			ProductName:   line.ProductName,
			ProductID:     line.ProductID,
			URL:           line.URL,
		})
	}
	return OptimizeBasketResponse{
		TotalPrice: basket.TotalPrice,
		Savings:    basket.Savings,
		Items:      items,
	}
}

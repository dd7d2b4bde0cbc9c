package pricing

import "fmt"

// ScrapeError reports a failed price retrieval for one product on one
// platform. It is isolated per fetch unit and never fails a whole request.
type ScrapeError struct {
	Platform string
	Product  string
	Err      error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("pricing: scrape %q on %s: %v", e.Product, e.Platform, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// ScrapingError reports an orchestration-wide fetch failure. Fatal to the
// request; the HTTP layer maps it to 503.
type ScrapingError struct {
	Err error
}

func (e *ScrapingError) Error() string {
	return fmt.Sprintf("pricing: fetch prices and discounts: %v", e.Err)
}

func (e *ScrapingError) Unwrap() error { return e.Err }

// OptimizationError reports a basket selection or aggregation failure.
type OptimizationError struct {
	Err error
}

func (e *OptimizationError) Error() string {
	return fmt.Sprintf("pricing: optimize basket: %v", e.Err)
}

func (e *OptimizationError) Unwrap() error { return e.Err }

// MappingError reports a product mapping table failure.
type MappingError struct {
	Err error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("pricing: product mapping: %v", e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }

package basket

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/domain/pricing"
	"github.com/cartfox/backend/internal/infrastructure/scraper"
	"github.com/cartfox/backend/internal/infrastructure/worker"
)

// FetchService gathers offers for mapped products from every platform
// connector, with a global cap on concurrent fetches.
type FetchService struct {
	connectors map[string]scraper.Connector
	limit      int
	logger     *zap.Logger
}

func NewFetchService(connectors map[string]scraper.Connector, limit int, logger *zap.Logger) *FetchService {
	return &FetchService{connectors: connectors, limit: limit, logger: logger}
}

// fetchJob is one (item, platform) pair to price.
type fetchJob struct {
	genericName string
	platform    string
	product     pricing.PlatformProduct
}

// FetchAll retrieves an offer for every (item, platform) pair in mapped.
// Pairs whose price retrieval fails are dropped from the result; the
// remaining platforms still compete for that item. A nil input returns a
// *pricing.ScrapingError.
func (f *FetchService) FetchAll(ctx context.Context, mapped pricing.MappedProducts) (pricing.PriceTable, error) {
	if mapped == nil {
		return nil, &pricing.ScrapingError{Err: errors.New("nil product mapping")}
	}

	var jobs []fetchJob
	for name, platforms := range mapped {
		for platform, product := range platforms {
			if _, ok := f.connectors[platform]; !ok {
				f.logger.Debug("no connector for platform, skipping",
					zap.String("platform", platform),
					zap.String("item", name),
				)
				continue
			}
			jobs = append(jobs, fetchJob{genericName: name, platform: platform, product: product})
		}
	}

	tasks := make([]worker.Task[pricing.Offer], 0, len(jobs))
	for _, job := range jobs {
		job := job
		tasks = append(tasks, func(ctx context.Context) (pricing.Offer, error) {
			return f.fetchPair(ctx, job)
		})
	}

	offers := worker.RunWithLimit(ctx, tasks, f.limit, f.logger)

	table := make(pricing.PriceTable, len(mapped))
	for _, offer := range offers {
		table.Add(offer)
	}
	return table, nil
}

// fetchPair retrieves the price and discount for one pair. The discount runs
// concurrently with the price; a discount failure degrades inside the
// connector, so only the price can fail the pair.
func (f *FetchService) fetchPair(ctx context.Context, job fetchJob) (pricing.Offer, error) {
	conn := f.connectors[job.platform]

	discountCh := make(chan pricing.Discount, 1)
	go func() {
		discountCh <- conn.GetDiscount(ctx, job.product.ProductID, job.product.ProductName)
	}()

	quote, err := conn.GetPrice(ctx, job.product.ProductID, job.product.ProductName)
	discount := <-discountCh
	if err != nil {
		return pricing.Offer{}, fmt.Errorf("fetch %s on %s: %w", job.genericName, job.platform, err)
	}

	return pricing.ResolveOffer(job.genericName, quote, discount), nil
}

// Close shuts down every connector.
func (f *FetchService) Close() error {
	return scraper.CloseAll(f.connectors)
}

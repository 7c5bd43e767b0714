package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/recommender/internal/models"
)

// LivePricer fetches a price from the storefront. The boolean is false when no
// price could be obtained.
type LivePricer interface {
	Price(ctx context.Context, productID string) (int64, bool)
}

// PriceService answers live price lookups, falling back to the snapshot price.
type PriceService struct {
	products *ProductService
	live     LivePricer
	log      *logrus.Logger
}

// NewPriceService creates a PriceService. A nil live pricer always serves the
// cached price.
func NewPriceService(products *ProductService, live LivePricer, log *logrus.Logger) *PriceService {
	return &PriceService{products: products, live: live, log: log}
}

// LivePrice returns the storefront price when one is available and positive,
// otherwise the snapshot's discounted price. Unknown products quote a cached
// price of zero rather than failing.
func (s *PriceService) LivePrice(ctx context.Context, productID string) (models.PriceQuote, error) {
	if productID == "" {
		return models.PriceQuote{}, models.ErrMissingID
	}

	if s.live != nil {
		if price, ok := s.live.Price(ctx, productID); ok && price > 0 {
			return models.PriceQuote{Status: models.PriceLive, Price: float64(price)}, nil
		}
	}

	quote := models.PriceQuote{Status: models.PriceCached}

	p, err := s.products.GetProduct(ctx, productID)
	switch {
	case err == nil:
		quote.Price = p.DiscountedPrice
	case errors.Is(err, models.ErrProductNotFound):
		s.log.WithField("product_id", productID).Debug("price requested for unknown product")
	default:
		return models.PriceQuote{}, err
	}

	return quote, nil
}

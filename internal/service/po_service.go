// backend-go/internal/service/po_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stockcast/backend-go/internal/advisor"
	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/internal/domain"
	"github.com/stockcast/backend-go/internal/metrics"
	"github.com/stockcast/backend-go/internal/repository"
)

type POService struct {
	catalog repository.CatalogRepository
	cfg     config.ReplenishConfig
}

func NewPOService(catalog repository.CatalogRepository, cfg config.ReplenishConfig) *POService {
	return &POService{catalog: catalog, cfg: cfg}
}

// DraftFromAdvisor builds draft purchase orders for the given products,
// grouped by supplier. Drafts are advisory; nothing is persisted here.
func (s *POService) DraftFromAdvisor(ctx context.Context, productIDs []int64) ([]domain.PODraft, error) {
	products, err := s.catalog.ListProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if len(products) == 0 {
		return nil, domain.ErrProductNotFound
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -30)

	suppliers := make(map[int64]*domain.Supplier)
	candidates := make([]advisor.POCandidate, 0, len(products))
	for _, product := range products {
		if product.SupplierID == nil {
			log.Warn().Int64("product_id", product.ID).Msg("po draft: product has no supplier, skipping")
			continue
		}

		supplier, ok := suppliers[*product.SupplierID]
		if !ok {
			supplier, err = s.catalog.GetSupplier(ctx, *product.SupplierID)
			if errors.Is(err, domain.ErrSupplierNotFound) {
				supplier = nil
			} else if err != nil {
				return nil, fmt.Errorf("load supplier: %w", err)
			}
			suppliers[*product.SupplierID] = supplier
		}
		if supplier == nil {
			log.Warn().Int64("product_id", product.ID).Int64("supplier_id", *product.SupplierID).Msg("po draft: supplier missing, skipping")
			continue
		}

		sold, err := s.catalog.QuantitySumSince(ctx, product.ID, since)
		if err != nil {
			return nil, fmt.Errorf("sum recent sales: %w", err)
		}

		candidates = append(candidates, advisor.POCandidate{
			Product:        product,
			Supplier:       supplier,
			AvgDailyDemand: sold / 30.0,
		})
	}

	drafts := advisor.BuildDrafts(candidates, now)
	metrics.PODrafts.Add(float64(len(drafts)))

	log.Info().
		Int("products", len(products)).
		Int("drafts", len(drafts)).
		Msg("purchase order drafts built")

	return drafts, nil
}

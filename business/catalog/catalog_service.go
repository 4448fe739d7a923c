package catalog

import (
	"context"
	"errors"
	"fmt"

	"procureMatch/domain"
	"procureMatch/pkg/logger"
)

// CatalogRepository contract interface
type CatalogRepository interface {
	FindAll(ctx context.Context, limit int) ([]domain.CatalogProduct, error)
	FindByItemID(ctx context.Context, itemID string) (domain.CatalogProduct, error)
	BulkUpsert(ctx context.Context, products []domain.CatalogProduct) error
}

// CacheInvalidator drops cached rankings after catalog changes.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context, scope string) error
}

type catalogService struct {
	catalogRepo CatalogRepository
	invalidator CacheInvalidator
}

func NewCatalogService(catalogRepo CatalogRepository, invalidator CacheInvalidator) *catalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		invalidator: invalidator,
	}
}

const defaultListLimit = 100

func (s *catalogService) GetAllItems(ctx context.Context, limit int) ([]domain.CatalogProduct, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when list catalog")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	items, err := s.catalogRepo.FindAll(ctx, limit)
	if err != nil {
		logger.Error("Failed to list catalog items", err)
		return nil, err
	}

	return items, nil
}

func (s *catalogService) GetItemByID(ctx context.Context, itemID string) (*domain.CatalogProduct, error) {
	if itemID == "" {
		logger.Error("invalid item id")
		return nil, errors.New("invalid item id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get catalog item")
		return nil, fmt.Errorf("context error: %w", err)
	}

	item, err := s.catalogRepo.FindByItemID(ctx, itemID)
	if err != nil {
		logger.Error("failed to find catalog item", err)
		return nil, err
	}

	return &item, nil
}

// BulkUpsert replaces catalog rows and invalidates every cached
// ranking: stale recommendations over an updated catalog are worse
// than cold ones.
func (s *catalogService) BulkUpsert(ctx context.Context, products []domain.CatalogProduct) (int, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when bulk upsert catalog")
		return 0, fmt.Errorf("context error: %w", err)
	}

	if len(products) == 0 {
		return 0, errors.New("no catalog items provided")
	}

	for _, p := range products {
		if p.ItemID == "" {
			return 0, errors.New("item_id is required")
		}
		if p.Name == "" {
			return 0, errors.New("name is required")
		}
		if p.Price < 0 {
			return 0, errors.New("price must not be negative")
		}
	}

	if err := s.catalogRepo.BulkUpsert(ctx, products); err != nil {
		logger.Error("Failed to upsert catalog items", err)
		return 0, err
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateCache(ctx, "all"); err != nil {
			// the upsert already landed; a failed invalidation only
			// delays freshness until TTL expiry
			logger.Warn("catalog_cache_invalidation_failed", "error", err)
		}
	}

	logger.Info("catalog_bulk_upsert", "count", len(products))

	return len(products), nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"procureMatch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository struct {
	DB *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		DB: db,
	}
}

// Search runs a lexical match of the query terms against name, brand,
// category and description. Terms are OR-combined so a single strong
// term is enough to surface an item.
func (r *CatalogRepository) Search(ctx context.Context, query string, limit int) ([]domain.CandidateItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	terms := searchTerms(query)
	if len(terms) == 0 {
		return []domain.CandidateItem{}, nil
	}

	tx := r.DB.WithContext(ctx).Model(&domain.CatalogProduct{})

	cond := r.DB.Session(&gorm.Session{NewDB: true})
	for _, term := range terms {
		pattern := "%" + term + "%"
		cond = cond.Or(
			"name ILIKE ? OR brand ILIKE ? OR category ILIKE ? OR description ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var rows []domain.CatalogProduct
	if err := tx.Where(cond).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}

	return toCandidates(rows), nil
}

func (r *CatalogRepository) FindByCategory(ctx context.Context, category string, limit int) ([]domain.CandidateItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.CatalogProduct
	err := r.DB.WithContext(ctx).
		Where("category ILIKE ?", "%"+category+"%").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog items by category: %w", err)
	}

	return toCandidates(rows), nil
}

func (r *CatalogRepository) FindByItemIDs(ctx context.Context, itemIDs []string) ([]domain.CandidateItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(itemIDs) == 0 {
		return []domain.CandidateItem{}, nil
	}

	var rows []domain.CatalogProduct
	err := r.DB.WithContext(ctx).Where("item_id IN ?", itemIDs).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find catalog items by id: %w", err)
	}

	return toCandidates(rows), nil
}

// GetEmbedding returns the precomputed item vector, or nil when the
// item has no embedding yet.
func (r *CatalogRepository) GetEmbedding(ctx context.Context, itemID string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row domain.CatalogProduct
	err := r.DB.WithContext(ctx).
		Select("item_id", "embedding").
		Where("item_id = ?", itemID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load embedding: %w", err)
	}

	if row.Embedding == nil {
		return nil, nil
	}

	return row.Embedding.Slice(), nil
}

func (r *CatalogRepository) FindAll(ctx context.Context, limit int) ([]domain.CatalogProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.CatalogProduct
	if err := r.DB.WithContext(ctx).Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find catalog items: %w", err)
	}

	return rows, nil
}

func (r *CatalogRepository) FindByItemID(ctx context.Context, itemID string) (domain.CatalogProduct, error) {
	if err := ctx.Err(); err != nil {
		return domain.CatalogProduct{}, fmt.Errorf("context error: %w", err)
	}

	var row domain.CatalogProduct
	err := r.DB.WithContext(ctx).Where("item_id = ?", itemID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CatalogProduct{}, errors.New("catalog item not found")
		}
		return domain.CatalogProduct{}, fmt.Errorf("failed to find catalog item: %w", err)
	}

	return row, nil
}

// BulkUpsert inserts or replaces catalog rows by item_id. Used by the
// catalog admin endpoint; callers are expected to invalidate the
// result cache afterwards.
func (r *CatalogRepository) BulkUpsert(ctx context.Context, products []domain.CatalogProduct) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(products) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "brand", "category", "description", "price", "attributes", "embedding",
		}),
	}).Create(&products).Error
	if err != nil {
		return fmt.Errorf("failed to upsert catalog items: %w", err)
	}

	return nil
}

func toCandidates(rows []domain.CatalogProduct) []domain.CandidateItem {
	out := make([]domain.CandidateItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToCandidate())
	}
	return out
}

func searchTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?()[]\"'")
		if len(f) < 3 {
			continue
		}
		terms = append(terms, f)
	}

	const maxTerms = 8
	if len(terms) > maxTerms {
		terms = terms[:maxTerms]
	}

	return terms
}

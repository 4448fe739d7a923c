package postgres

import (
	"context"
	"fmt"

	"procureMatch/domain"

	"gorm.io/gorm"
)

const edgeFetchLimit = 200

type GraphRepository struct {
	DB *gorm.DB
}

func NewGraphRepository(db *gorm.DB) *GraphRepository {
	return &GraphRepository{
		DB: db,
	}
}

// FindEdges returns edges whose need-node label lexically overlaps the
// given text, or whose target is the given item id. The engine passes
// either a requirement text or a candidate item id.
func (r *GraphRepository) FindEdges(ctx context.Context, nodeOrItemID string) ([]domain.GraphEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	tx := r.DB.WithContext(ctx).Model(&domain.NeedEdge{})

	cond := r.DB.Session(&gorm.Session{NewDB: true}).
		Or("target_item_id = ?", nodeOrItemID)
	for _, term := range searchTerms(nodeOrItemID) {
		cond = cond.Or("source_node ILIKE ?", "%"+term+"%")
	}

	var rows []domain.NeedEdge
	if err := tx.Where(cond).Limit(edgeFetchLimit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load graph edges: %w", err)
	}

	out := make([]domain.GraphEdge, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToGraphEdge())
	}

	return out, nil
}

package postgres

import (
	"context"
	"fmt"

	"procureMatch/domain"

	"gorm.io/gorm"
)

// Window sizes keep query-time aggregation bounded; the collaborative
// scorer works on recent behaviour, not the full event log.
const (
	userHistoryWindow     = 500
	allInteractionsWindow = 20000
)

type InteractionRepository struct {
	DB *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{
		DB: db,
	}
}

func (r *InteractionRepository) GetUserHistory(ctx context.Context, userID string) ([]domain.InteractionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.UserInteraction
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(userHistoryWindow).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user history: %w", err)
	}

	return toRecords(rows), nil
}

func (r *InteractionRepository) GetAllInteractions(ctx context.Context) ([]domain.InteractionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.UserInteraction
	err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Limit(allInteractionsWindow).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	return toRecords(rows), nil
}

func toRecords(rows []domain.UserInteraction) []domain.InteractionRecord {
	out := make([]domain.InteractionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToRecord())
	}
	return out
}

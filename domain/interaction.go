package domain

import "time"

type InteractionAction string

const (
	ActionView     InteractionAction = "view"
	ActionCart     InteractionAction = "cart"
	ActionPurchase InteractionAction = "purchase"
)

// CREATE TABLE public.user_interactions (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id     TEXT NOT NULL,
//     item_id     TEXT NOT NULL,
//     action      TEXT NOT NULL,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type UserInteraction struct {
	ID        uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string            `gorm:"column:user_id;index;not null" json:"user_id"`
	ItemID    string            `gorm:"column:item_id;index;not null" json:"item_id"`
	Action    InteractionAction `gorm:"column:action;not null" json:"action"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserInteraction) TableName() string {
	return "user_interactions"
}

// InteractionRecord is the read-only view the engine scores against.
type InteractionRecord struct {
	UserID    string            `json:"user_id"`
	ItemID    string            `json:"item_id"`
	Action    InteractionAction `json:"action"`
	Timestamp time.Time         `json:"timestamp"`
}

func (i UserInteraction) ToRecord() InteractionRecord {
	return InteractionRecord{
		UserID:    i.UserID,
		ItemID:    i.ItemID,
		Action:    i.Action,
		Timestamp: i.CreatedAt,
	}
}

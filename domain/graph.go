package domain

import "time"

type EdgeRelation string

const (
	RelationRequired       EdgeRelation = "required"
	RelationRecommended    EdgeRelation = "recommended"
	RelationOptional       EdgeRelation = "optional"
	RelationCompatibleWith EdgeRelation = "compatible_with"
)

// CREATE TABLE public.need_edges (
//     id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     source_node    TEXT NOT NULL,
//     target_item_id TEXT NOT NULL,
//     relation       TEXT NOT NULL,
//     weight         DOUBLE PRECISION NOT NULL DEFAULT 1.0,
//     created_at     TIMESTAMPTZ DEFAULT NOW()
// );

type NeedEdge struct {
	ID           uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	SourceNode   string       `gorm:"column:source_node;index;not null" json:"source_node"`
	TargetItemID string       `gorm:"column:target_item_id;index;not null" json:"target_item_id"`
	Relation     EdgeRelation `gorm:"column:relation;not null" json:"relation"`
	Weight       float64      `gorm:"column:weight;not null;default:1.0" json:"weight"`
	CreatedAt    time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (NeedEdge) TableName() string {
	return "need_edges"
}

// GraphEdge is the read-only typed edge between a need node and an item.
type GraphEdge struct {
	SourceNode   string       `json:"source_node"`
	TargetItemID string       `json:"target_item_id"`
	Relation     EdgeRelation `json:"relation"`
	Weight       float64      `json:"weight"`
}

func (e NeedEdge) ToGraphEdge() GraphEdge {
	return GraphEdge{
		SourceNode:   e.SourceNode,
		TargetItemID: e.TargetItemID,
		Relation:     e.Relation,
		Weight:       e.Weight,
	}
}

package domain

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// CREATE TABLE public.catalog_products (
//     id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     item_id      TEXT UNIQUE NOT NULL,
//     name         TEXT,
//     brand        TEXT,
//     category     TEXT,
//     description  TEXT,
//     price        NUMERIC,
//     attributes   JSONB,
//     embedding    VECTOR(1536),
//     created_at   TIMESTAMPTZ DEFAULT NOW()
// );

type CatalogProduct struct {
	ID          uint64            `gorm:"primaryKey;autoIncrement"`
	ItemID      string            `gorm:"column:item_id;uniqueIndex;not null"`
	Name        string            `gorm:"column:name;type:text"`
	Brand       string            `gorm:"column:brand;type:text"`
	Category    string            `gorm:"column:category;type:text"`
	Description string            `gorm:"column:description;type:text"`
	Price       float64           `gorm:"column:price;type:numeric"`
	Attributes  datatypes.JSONMap `gorm:"column:attributes;type:jsonb"`
	Embedding   *pgvector.Vector  `gorm:"column:embedding;type:vector(1536)"`
	CreatedAt   time.Time         `gorm:"column:created_at"`
}

func (CatalogProduct) TableName() string {
	return "catalog_products"
}

// ToCandidate projects the stored row into the read-only shape the
// ranking engine consumes. Attribute values are flattened to strings.
func (p CatalogProduct) ToCandidate() CandidateItem {
	attrs := make(map[string]string, len(p.Attributes))
	for k, v := range p.Attributes {
		if s, ok := v.(string); ok {
			attrs[k] = s
		}
	}

	return CandidateItem{
		ItemID:      p.ItemID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		Attributes:  attrs,
	}
}

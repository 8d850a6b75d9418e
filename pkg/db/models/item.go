package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemGroup buckets bakery items (breads, pastries, ...). A line item is keyed
// by (item, group) because the same item can be sold under several groups.
type ItemGroup struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID   uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Item is a sellable bakery product with current prices. Orders snapshot the
// prices at submission time; the live row is only consulted on recompute.
type Item struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID        uuid.UUID       `gorm:"column:admin_id;type:uuid;not null;index"`
	ItemGroupID    uuid.UUID       `gorm:"column:item_group_id;type:uuid;not null"`
	Name           string          `gorm:"column:name;not null"`
	WholesalePrice decimal.Decimal `gorm:"column:wholesale_price;type:numeric(12,2);not null"`
	RetailPrice    decimal.Decimal `gorm:"column:retail_price;type:numeric(12,2);not null"`
	GSTPercent     decimal.Decimal `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`
	WeightKg       decimal.Decimal `gorm:"column:weight_kg;type:numeric(8,3);not null;default:0"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

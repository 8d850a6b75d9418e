package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

// CartOrder is a one-off order for a specific delivery date. At most one cart
// exists per (customer, address, delivery date); it overrides the standing
// order for that date.
type CartOrder struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID      uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	CustomerID   uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_cart_orders_customer_address_date"`
	AddressID    uuid.UUID `gorm:"column:address_id;type:uuid;not null;uniqueIndex:idx_cart_orders_customer_address_date"`
	DeliveryDate time.Time `gorm:"column:delivery_date;type:date;not null;uniqueIndex:idx_cart_orders_customer_address_date"`

	ItemCost       decimal.Decimal `gorm:"column:item_cost;type:numeric(12,2);not null;default:0"`
	GSTAmount      decimal.Decimal `gorm:"column:gst_amount;type:numeric(12,2);not null;default:0"`
	DeliveryCharge decimal.Decimal `gorm:"column:delivery_charge;type:numeric(12,2);not null;default:0"`
	Discount       decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	TotalCost      decimal.Decimal `gorm:"column:total_cost;type:numeric(12,2);not null;default:0"`
	TotalWeightKg  decimal.Decimal `gorm:"column:total_weight_kg;type:numeric(10,3);not null;default:0"`
	TotalPieces    int             `gorm:"column:total_pieces;not null;default:0"`

	DeliveryPolicy enums.DeliveryPolicy `gorm:"column:delivery_policy;not null;default:'free'"`
	RuleSnapshot   types.RuleSnapshot   `gorm:"column:rule_snapshot;type:jsonb;serializer:json"`

	InvoiceNumber   *int64                `gorm:"column:invoice_number"`
	PublishedStatus enums.PublishedStatus `gorm:"column:published_status;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Lines []CartOrderLine `gorm:"foreignKey:CartOrderID"`
}

// IsPublished reports whether the cart has been invoiced and is read-mostly.
func (c CartOrder) IsPublished() bool {
	return c.PublishedStatus == enums.PublishedStatusPublished
}

// CartOrderLine is one item on a dated cart order. LateType/LateQuantity
// record a post-cutoff quantity change for audit; they never block the update.
type CartOrderLine struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartOrderID uuid.UUID `gorm:"column:cart_order_id;type:uuid;not null;uniqueIndex:idx_cart_lines_key"`
	ItemID      uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_cart_lines_key"`
	ItemGroupID uuid.UUID `gorm:"column:item_group_id;type:uuid;not null;uniqueIndex:idx_cart_lines_key"`

	Quantity       int             `gorm:"column:quantity;not null;default:0"`
	WholesalePrice decimal.Decimal `gorm:"column:wholesale_price;type:numeric(12,2);not null"`
	RetailPrice    decimal.Decimal `gorm:"column:retail_price;type:numeric(12,2);not null"`
	GSTPercent     decimal.Decimal `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`
	LineCost       decimal.Decimal `gorm:"column:line_cost;type:numeric(12,2);not null;default:0"`

	LateType     enums.LateType `gorm:"column:late_type;not null;default:''"`
	LateQuantity *int           `gorm:"column:late_quantity"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Recompute refreshes the derived line cost from quantity and unit price.
func (l *CartOrderLine) Recompute() {
	l.LineCost = l.WholesalePrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

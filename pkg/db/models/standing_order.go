package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

// StandingOrder is the recurring per-weekday order template for one
// customer+address pair. Exactly one row exists per pair. Every total and
// weekday summary is fully overwritten on each recompute.
type StandingOrder struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID    uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_standing_orders_customer_address"`
	AddressID  uuid.UUID `gorm:"column:address_id;type:uuid;not null;uniqueIndex:idx_standing_orders_customer_address"`

	Days            types.WeekSummaries `gorm:"column:days;type:jsonb;serializer:json"`
	TotalPieces     int                 `gorm:"column:total_pieces;not null;default:0"`
	ItemCost        decimal.Decimal     `gorm:"column:item_cost;type:numeric(12,2);not null;default:0"`
	DeliveryCharge  decimal.Decimal     `gorm:"column:delivery_charge;type:numeric(12,2);not null;default:0"`
	TotalCost       decimal.Decimal     `gorm:"column:total_cost;type:numeric(12,2);not null;default:0"`
	TotalRetailCost decimal.Decimal     `gorm:"column:total_retail_cost;type:numeric(12,2);not null;default:0"`

	DeliveryPolicy enums.DeliveryPolicy `gorm:"column:delivery_policy;not null;default:'free'"`
	RuleSnapshot   types.RuleSnapshot   `gorm:"column:rule_snapshot;type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Lines []StandingOrderLine `gorm:"foreignKey:StandingOrderID"`
}

// StandingOrderLine is one item inside a standing order with independent
// quantities for each weekday. Derived fields (TotalQuantity, ItemCost,
// RetailCost) are recomputed from the seven quantities on every write.
type StandingOrderLine struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StandingOrderID uuid.UUID `gorm:"column:standing_order_id;type:uuid;not null;uniqueIndex:idx_standing_lines_key"`
	ItemID          uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_standing_lines_key"`
	ItemGroupID     uuid.UUID `gorm:"column:item_group_id;type:uuid;not null;uniqueIndex:idx_standing_lines_key"`

	QtyMon int `gorm:"column:qty_mon;not null;default:0"`
	QtyTue int `gorm:"column:qty_tue;not null;default:0"`
	QtyWed int `gorm:"column:qty_wed;not null;default:0"`
	QtyThu int `gorm:"column:qty_thu;not null;default:0"`
	QtyFri int `gorm:"column:qty_fri;not null;default:0"`
	QtySat int `gorm:"column:qty_sat;not null;default:0"`
	QtySun int `gorm:"column:qty_sun;not null;default:0"`

	WholesalePrice decimal.Decimal `gorm:"column:wholesale_price;type:numeric(12,2);not null"`
	RetailPrice    decimal.Decimal `gorm:"column:retail_price;type:numeric(12,2);not null"`
	GSTPercent     decimal.Decimal `gorm:"column:gst_percent;type:numeric(5,2);not null;default:0"`

	TotalQuantity int             `gorm:"column:total_quantity;not null;default:0"`
	ItemCost      decimal.Decimal `gorm:"column:item_cost;type:numeric(12,2);not null;default:0"`
	RetailCost    decimal.Decimal `gorm:"column:retail_cost;type:numeric(12,2);not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Quantities returns the weekday-indexed quantity array, Monday first.
func (l StandingOrderLine) Quantities() [enums.DaysPerWeek]int {
	return [enums.DaysPerWeek]int{l.QtyMon, l.QtyTue, l.QtyWed, l.QtyThu, l.QtyFri, l.QtySat, l.QtySun}
}

// SetQuantities stores the weekday-indexed quantity array back onto the row.
func (l *StandingOrderLine) SetQuantities(qty [enums.DaysPerWeek]int) {
	l.QtyMon, l.QtyTue, l.QtyWed, l.QtyThu, l.QtyFri, l.QtySat, l.QtySun =
		qty[0], qty[1], qty[2], qty[3], qty[4], qty[5], qty[6]
}

// Recompute refreshes the derived fields from the weekday quantities and the
// snapshotted unit prices.
func (l *StandingOrderLine) Recompute() {
	qty := l.Quantities()
	total := 0
	for _, q := range qty {
		total += q
	}
	l.TotalQuantity = total
	totalDec := decimal.NewFromInt(int64(total))
	l.ItemCost = l.WholesalePrice.Mul(totalDec)
	l.RetailCost = l.RetailPrice.Mul(totalDec)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/pkg/enums"
)

// CustomerAddress is a delivery destination. Its delivery policy decides how
// the engine charges delivery for orders shipped there.
type CustomerAddress struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID    uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	Line1      string    `gorm:"column:line1;not null"`
	City       string    `gorm:"column:city"`
	State      string    `gorm:"column:state"`
	PostCode   string    `gorm:"column:post_code"`
	RouteID    *uuid.UUID `gorm:"column:route_id;type:uuid"`

	DeliveryPolicy     enums.DeliveryPolicy `gorm:"column:delivery_policy;not null;default:'free'"`
	FixedDeliveryPrice decimal.Decimal      `gorm:"column:fixed_delivery_price;type:numeric(12,2);not null;default:0"`
	DeliveryRuleSetID  *uuid.UUID           `gorm:"column:delivery_rule_set_id;type:uuid"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	DeliveryDays []DeliveryDay `gorm:"foreignKey:AddressID"`
}

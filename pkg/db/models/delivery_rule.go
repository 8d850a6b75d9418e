package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryRuleSet names an ordered list of delivery price breaks.
type DeliveryRuleSet struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID   uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Tiers []DeliveryRuleTier `gorm:"foreignKey:RuleSetID"`
}

// DeliveryRuleTier is one price break inside a rule set. Tiers are sorted
// ascending by threshold before resolution, never trusted as stored.
type DeliveryRuleTier struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RuleSetID uuid.UUID       `gorm:"column:rule_set_id;type:uuid;not null;index"`
	Threshold decimal.Decimal `gorm:"column:threshold;type:numeric(12,2);not null"`
	Charge    decimal.Decimal `gorm:"column:charge;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

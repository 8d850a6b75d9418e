package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kamleshjangid/bakery-backend/pkg/enums"
)

// DeliveryDay marks one weekday of an address's weekly delivery calendar.
// At most one row exists per (address, weekday).
type DeliveryDay struct {
	ID        uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AddressID uuid.UUID     `gorm:"column:address_id;type:uuid;not null;uniqueIndex:idx_delivery_days_address_weekday"`
	Weekday   enums.Weekday `gorm:"column:weekday;not null;uniqueIndex:idx_delivery_days_address_weekday"`
	Enabled   bool          `gorm:"column:enabled;not null;default:false"`
	RouteID   *uuid.UUID    `gorm:"column:route_id;type:uuid"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// EnabledWeekdays folds calendar rows into the weekday-indexed flag array the
// pricing engine and date resolver consume.
func EnabledWeekdays(days []DeliveryDay) [enums.DaysPerWeek]bool {
	var enabled [enums.DaysPerWeek]bool
	for _, day := range days {
		if day.Weekday.IsValid() && day.Enabled {
			enabled[day.Weekday] = true
		}
	}
	return enabled
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a wholesale buyer belonging to one tenant (admin).
type Customer struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdminID   uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email"`
	Phone     string    `gorm:"column:phone"`
	GSTNumber string    `gorm:"column:gst_number"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Addresses []CustomerAddress `gorm:"foreignKey:CustomerID"`
}

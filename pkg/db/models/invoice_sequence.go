package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceSequence hands out sequential invoice numbers per tenant. The row is
// locked and incremented inside the publish transaction so two concurrent
// publishes can never share a number.
type InvoiceSequence struct {
	AdminID    uuid.UUID `gorm:"column:admin_id;type:uuid;primaryKey"`
	NextNumber int64     `gorm:"column:next_number;not null;default:1"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

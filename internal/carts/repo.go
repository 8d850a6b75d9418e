package carts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kamleshjangid/bakery-backend/internal/pricing"
	"github.com/kamleshjangid/bakery-backend/internal/repo"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
)

// Repository exposes persistence for dated cart orders, their lines and the
// per-tenant invoice sequence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// FindByDate loads the cart for one customer+address+date triple.
func (r *Repository) FindByDate(ctx context.Context, adminID, customerID, addressID uuid.UUID, date time.Time) (*models.CartOrder, error) {
	var order models.CartOrder
	err := r.DB(ctx).
		Where("admin_id = ? AND customer_id = ? AND address_id = ? AND delivery_date = ?",
			adminID, customerID, addressID, date).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByID loads one cart with its lines, scoped to the tenant.
func (r *Repository) FindByID(ctx context.Context, adminID, id uuid.UUID) (*models.CartOrder, error) {
	var order models.CartOrder
	err := r.DB(ctx).
		Preload("Lines").
		Where("id = ? AND admin_id = ?", id, adminID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByDateRange returns every cart for the tenant inside [from, to].
func (r *Repository) ListByDateRange(ctx context.Context, adminID uuid.UUID, from, to time.Time) ([]models.CartOrder, error) {
	var orders []models.CartOrder
	err := r.DB(ctx).
		Preload("Lines").
		Where("admin_id = ? AND delivery_date BETWEEN ? AND ?", adminID, from, to).
		Order("delivery_date ASC, created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Create inserts a new cart order.
func (r *Repository) Create(ctx context.Context, order *models.CartOrder) (*models.CartOrder, error) {
	if err := r.DB(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Save overwrites a cart order's totals and flags.
func (r *Repository) Save(ctx context.Context, order *models.CartOrder) error {
	return r.DB(ctx).Save(order).Error
}

// Delete removes a cart order and its lines.
func (r *Repository) Delete(ctx context.Context, adminID, id uuid.UUID) (int64, error) {
	tx := r.DB(ctx)
	if err := tx.
		Where("cart_order_id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.CartOrder{}).
			Select("id").
			Where("id = ? AND admin_id = ?", id, adminID)).
		Delete(&models.CartOrderLine{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ? AND admin_id = ?", id, adminID).Delete(&models.CartOrder{})
	return res.RowsAffected, res.Error
}

// FindLines loads every line of one cart.
func (r *Repository) FindLines(ctx context.Context, orderID uuid.UUID) ([]models.CartOrderLine, error) {
	var lines []models.CartOrderLine
	err := r.DB(ctx).
		Where("cart_order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// CreateLine inserts one line.
func (r *Repository) CreateLine(ctx context.Context, line *models.CartOrderLine) error {
	return r.DB(ctx).Create(line).Error
}

// SaveLine overwrites one line.
func (r *Repository) SaveLine(ctx context.Context, line *models.CartOrderLine) error {
	return r.DB(ctx).Save(line).Error
}

// DeleteLinesByKeys removes the cart's lines matching the given keys.
func (r *Repository) DeleteLinesByKeys(ctx context.Context, orderID uuid.UUID, keys []pricing.LineKey) error {
	for _, key := range keys {
		err := r.DB(ctx).
			Where("cart_order_id = ? AND item_id = ? AND item_group_id = ?", orderID, key.ItemID, key.ItemGroupID).
			Delete(&models.CartOrderLine{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// NextInvoiceNumber allocates the tenant's next invoice number. The sequence
// row is taken with a row lock so concurrent publishes serialize on it; call
// inside the publish transaction.
func (r *Repository) NextInvoiceNumber(ctx context.Context, adminID uuid.UUID) (int64, error) {
	tx := r.DB(ctx)
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var seq models.InvoiceSequence
	err := query.
		Where("admin_id = ?", adminID).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.InvoiceSequence{AdminID: adminID, NextNumber: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	number := seq.NextNumber
	seq.NextNumber++
	if err := tx.Save(&seq).Error; err != nil {
		return 0, err
	}
	return number, nil
}

package standing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/internal/pricing"
	"github.com/kamleshjangid/bakery-backend/internal/repo"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
)

// Repository exposes persistence for standing orders and their lines.
type Repository struct {
	repo.Base
}

// NewRepository constructs a standing-order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// FindByPair loads the standing order for one customer+address pair.
func (r *Repository) FindByPair(ctx context.Context, adminID, customerID, addressID uuid.UUID) (*models.StandingOrder, error) {
	var order models.StandingOrder
	err := r.DB(ctx).
		Where("admin_id = ? AND customer_id = ? AND address_id = ?", adminID, customerID, addressID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByID loads one standing order with its lines, scoped to the tenant.
func (r *Repository) FindByID(ctx context.Context, adminID, id uuid.UUID) (*models.StandingOrder, error) {
	var order models.StandingOrder
	err := r.DB(ctx).
		Preload("Lines").
		Where("id = ? AND admin_id = ?", id, adminID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create inserts a new standing order.
func (r *Repository) Create(ctx context.Context, order *models.StandingOrder) (*models.StandingOrder, error) {
	if err := r.DB(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Save overwrites a standing order's totals and summaries.
func (r *Repository) Save(ctx context.Context, order *models.StandingOrder) error {
	return r.DB(ctx).Save(order).Error
}

// Delete removes a standing order and its lines.
func (r *Repository) Delete(ctx context.Context, adminID, id uuid.UUID) (int64, error) {
	tx := r.DB(ctx)
	if err := tx.
		Where("standing_order_id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.StandingOrder{}).
			Select("id").
			Where("id = ? AND admin_id = ?", id, adminID)).
		Delete(&models.StandingOrderLine{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ? AND admin_id = ?", id, adminID).Delete(&models.StandingOrder{})
	return res.RowsAffected, res.Error
}

// FindLines loads every line of one standing order.
func (r *Repository) FindLines(ctx context.Context, orderID uuid.UUID) ([]models.StandingOrderLine, error) {
	var lines []models.StandingOrderLine
	err := r.DB(ctx).
		Where("standing_order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// CreateLine inserts one line.
func (r *Repository) CreateLine(ctx context.Context, line *models.StandingOrderLine) error {
	return r.DB(ctx).Create(line).Error
}

// SaveLine overwrites one line.
func (r *Repository) SaveLine(ctx context.Context, line *models.StandingOrderLine) error {
	return r.DB(ctx).Save(line).Error
}

// DeleteLinesByKeys removes the order's lines matching the given keys.
func (r *Repository) DeleteLinesByKeys(ctx context.Context, orderID uuid.UUID, keys []pricing.LineKey) error {
	for _, key := range keys {
		err := r.DB(ctx).
			Where("standing_order_id = ? AND item_id = ? AND item_group_id = ?", orderID, key.ItemID, key.ItemGroupID).
			Delete(&models.StandingOrderLine{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/internal/repo"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	"github.com/kamleshjangid/bakery-backend/pkg/pagination"
)

// Repository exposes persistence for customers and their addresses.
type Repository struct {
	repo.Base
}

// NewRepository constructs a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new customer.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.DB(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Find loads one active customer with addresses, scoped to the tenant.
func (r *Repository) Find(ctx context.Context, adminID, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.DB(ctx).
		Preload("Addresses").
		Preload("Addresses.DeliveryDays").
		Where("id = ? AND admin_id = ? AND is_active = ?", id, adminID, true).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns a cursor page of active customers for the tenant.
func (r *Repository) List(ctx context.Context, adminID uuid.UUID, params pagination.Params) ([]models.Customer, error) {
	query := r.DB(ctx).
		Where("admin_id = ? AND is_active = ?", adminID, true).
		Order("created_at ASC, id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at > ?) OR (created_at = ? AND id > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Customer
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update saves the provided customer.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.DB(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Deactivate soft-deletes a customer.
func (r *Repository) Deactivate(ctx context.Context, adminID, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND admin_id = ? AND is_active = ?", id, adminID, true).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// CreateAddress inserts a delivery address.
func (r *Repository) CreateAddress(ctx context.Context, address *models.CustomerAddress) (*models.CustomerAddress, error) {
	if err := r.DB(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

// FindAddress loads one address with its delivery days, scoped to the tenant.
func (r *Repository) FindAddress(ctx context.Context, adminID, id uuid.UUID) (*models.CustomerAddress, error) {
	var address models.CustomerAddress
	err := r.DB(ctx).
		Preload("DeliveryDays").
		Where("id = ? AND admin_id = ?", id, adminID).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// UpdateAddress saves the provided address.
func (r *Repository) UpdateAddress(ctx context.Context, address *models.CustomerAddress) (*models.CustomerAddress, error) {
	if err := r.DB(ctx).Save(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

// ReplaceDeliveryDays swaps an address's weekly calendar for the given weekdays.
func (r *Repository) ReplaceDeliveryDays(ctx context.Context, addressID uuid.UUID, days []models.DeliveryDay) error {
	tx := r.DB(ctx)
	if err := tx.Where("address_id = ?", addressID).Delete(&models.DeliveryDay{}).Error; err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}
	for i := range days {
		days[i].AddressID = addressID
	}
	return tx.Create(&days).Error
}

package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/internal/repo"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	"github.com/kamleshjangid/bakery-backend/pkg/pagination"
)

// Repository exposes persistence for items and item groups.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateItem inserts a new item.
func (r *Repository) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindItem loads one active item scoped to the tenant.
func (r *Repository) FindItem(ctx context.Context, adminID, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.DB(ctx).
		Where("id = ? AND admin_id = ? AND is_active = ?", id, adminID, true).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemsByIDs loads the active items for the given ids, keyed by id.
// Ids that do not resolve are simply absent from the map; callers decide
// whether that is fatal (submission) or skippable (aggregation).
func (r *Repository) FindItemsByIDs(ctx context.Context, adminID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	out := make(map[uuid.UUID]models.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Item
	err := r.DB(ctx).
		Where("admin_id = ? AND is_active = ? AND id IN ?", adminID, true, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// ListItems returns a cursor page of active items for the tenant.
func (r *Repository) ListItems(ctx context.Context, adminID uuid.UUID, params pagination.Params) ([]models.Item, error) {
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

	var rows []models.Item
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateItem saves the provided item.
func (r *Repository) UpdateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.DB(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeactivateItem soft-deletes an item. Existing order lines keep their price
// snapshots; future aggregations treat the item as missing.
func (r *Repository) DeactivateItem(ctx context.Context, adminID, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Item{}).
		Where("id = ? AND admin_id = ? AND is_active = ?", id, adminID, true).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// CreateGroup inserts a new item group.
func (r *Repository) CreateGroup(ctx context.Context, group *models.ItemGroup) (*models.ItemGroup, error) {
	if err := r.DB(ctx).Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns every item group for the tenant.
func (r *Repository) ListGroups(ctx context.Context, adminID uuid.UUID) ([]models.ItemGroup, error) {
	var rows []models.ItemGroup
	err := r.DB(ctx).
		Where("admin_id = ?", adminID).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/pagination"
)

// Service manages the sellable catalog: items and item groups.
type Service struct {
	repo *Repository
}

// NewService builds a catalog service.
func NewService(repository *Repository) (*Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Service{repo: repository}, nil
}

// ItemInput carries the writable item fields.
type ItemInput struct {
	ItemGroupID    uuid.UUID
	Name           string
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	GSTPercent     decimal.Decimal
	WeightKg       decimal.Decimal
}

func (in ItemInput) validate() *pkgerrors.Error {
	if in.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if in.ItemGroupID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item group is required")
	}
	if in.WholesalePrice.IsNegative() || in.RetailPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "prices must be non-negative")
	}
	if in.GSTPercent.IsNegative() || in.WeightKg.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "gst percent and weight must be non-negative")
	}
	return nil
}

// CreateItem adds a sellable item to the tenant's catalog.
func (s *Service) CreateItem(ctx context.Context, adminID uuid.UUID, in ItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item := &models.Item{
		AdminID:        adminID,
		ItemGroupID:    in.ItemGroupID,
		Name:           in.Name,
		WholesalePrice: in.WholesalePrice,
		RetailPrice:    in.RetailPrice,
		GSTPercent:     in.GSTPercent,
		WeightKg:       in.WeightKg,
		IsActive:       true,
	}
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}
	return created, nil
}

// GetItem loads one active item.
func (s *Service) GetItem(ctx context.Context, adminID, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindItem(ctx, adminID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

// ListItems returns one cursor page of active items plus the next cursor.
func (s *Service) ListItems(ctx context.Context, adminID uuid.UUID, params pagination.Params) ([]models.Item, string, error) {
	rows, err := s.repo.ListItems(ctx, adminID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// UpdateItem overwrites an item's writable fields. Persisted orders keep their
// snapshotted prices; the new prices apply from the next recompute.
func (s *Service) UpdateItem(ctx context.Context, adminID, id uuid.UUID, in ItemInput) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.GetItem(ctx, adminID, id)
	if err != nil {
		return nil, err
	}
	item.ItemGroupID = in.ItemGroupID
	item.Name = in.Name
	item.WholesalePrice = in.WholesalePrice
	item.RetailPrice = in.RetailPrice
	item.GSTPercent = in.GSTPercent
	item.WeightKg = in.WeightKg

	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}
	return updated, nil
}

// DeleteItem deactivates an item. Order lines that reference it aggregate as
// missing from then on.
func (s *Service) DeleteItem(ctx context.Context, adminID, id uuid.UUID) error {
	affected, err := s.repo.DeactivateItem(ctx, adminID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

// CreateGroup adds an item group.
func (s *Service) CreateGroup(ctx context.Context, adminID uuid.UUID, name string) (*models.ItemGroup, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group name is required")
	}
	group, err := s.repo.CreateGroup(ctx, &models.ItemGroup{AdminID: adminID, Name: name})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item group")
	}
	return group, nil
}

// ListGroups returns every item group for the tenant.
func (s *Service) ListGroups(ctx context.Context, adminID uuid.UUID) ([]models.ItemGroup, error) {
	groups, err := s.repo.ListGroups(ctx, adminID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list item groups")
	}
	return groups, nil
}

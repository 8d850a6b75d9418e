package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/pagination"
)

// Service manages wholesale customers, their delivery addresses and each
// address's weekly delivery calendar.
type Service struct {
	repo *Repository
}

// NewService builds a customers service.
func NewService(repository *Repository) (*Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &Service{repo: repository}, nil
}

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	Name      string
	Email     string
	Phone     string
	GSTNumber string
}

// AddressInput carries the writable address fields, including the delivery
// policy that drives delivery charging for orders shipped there.
type AddressInput struct {
	CustomerID uuid.UUID
	Line1      string
	City       string
	State      string
	PostCode   string

	DeliveryPolicy     enums.DeliveryPolicy
	FixedDeliveryPrice decimal.Decimal
	DeliveryRuleSetID  *uuid.UUID
}

func (in AddressInput) validate() *pkgerrors.Error {
	if in.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer is required")
	}
	if in.Line1 == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address line is required")
	}
	if !in.DeliveryPolicy.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown delivery policy")
	}
	switch in.DeliveryPolicy {
	case enums.DeliveryPolicyFixedPrice:
		if in.FixedDeliveryPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "fixed delivery price must be non-negative")
		}
	case enums.DeliveryPolicyTieredRules:
		if in.DeliveryRuleSetID == nil || *in.DeliveryRuleSetID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "tiered delivery requires a rule set")
		}
	}
	return nil
}

// Create adds a customer to the tenant.
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, in CustomerInput) (*models.Customer, error) {
	if in.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	customer := &models.Customer{
		AdminID:   adminID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		GSTNumber: in.GSTNumber,
		IsActive:  true,
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return created, nil
}

// Get loads one customer with addresses and calendars.
func (s *Service) Get(ctx context.Context, adminID, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.Find(ctx, adminID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

// List returns one cursor page of active customers plus the next cursor.
func (s *Service) List(ctx context.Context, adminID uuid.UUID, params pagination.Params) ([]models.Customer, string, error) {
	rows, err := s.repo.List(ctx, adminID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
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

// Update overwrites a customer's writable fields.
func (s *Service) Update(ctx context.Context, adminID, id uuid.UUID, in CustomerInput) (*models.Customer, error) {
	if in.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	customer, err := s.Get(ctx, adminID, id)
	if err != nil {
		return nil, err
	}
	customer.Name = in.Name
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.GSTNumber = in.GSTNumber

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return updated, nil
}

// Delete deactivates a customer. Their orders remain for reporting.
func (s *Service) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	affected, err := s.repo.Deactivate(ctx, adminID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate customer")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

// CreateAddress adds a delivery address to a customer.
func (s *Service) CreateAddress(ctx context.Context, adminID uuid.UUID, in AddressInput) (*models.CustomerAddress, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, adminID, in.CustomerID); err != nil {
		return nil, err
	}
	address := &models.CustomerAddress{
		AdminID:            adminID,
		CustomerID:         in.CustomerID,
		Line1:              in.Line1,
		City:               in.City,
		State:              in.State,
		PostCode:           in.PostCode,
		DeliveryPolicy:     in.DeliveryPolicy,
		FixedDeliveryPrice: in.FixedDeliveryPrice,
		DeliveryRuleSetID:  in.DeliveryRuleSetID,
	}
	created, err := s.repo.CreateAddress(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return created, nil
}

// GetAddress loads one address with its weekly calendar.
func (s *Service) GetAddress(ctx context.Context, adminID, id uuid.UUID) (*models.CustomerAddress, error) {
	address, err := s.repo.FindAddress(ctx, adminID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return address, nil
}

// UpdateAddress overwrites an address's writable fields. Orders already priced
// under the previous policy keep their snapshots.
func (s *Service) UpdateAddress(ctx context.Context, adminID, id uuid.UUID, in AddressInput) (*models.CustomerAddress, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	address, err := s.GetAddress(ctx, adminID, id)
	if err != nil {
		return nil, err
	}
	address.Line1 = in.Line1
	address.City = in.City
	address.State = in.State
	address.PostCode = in.PostCode
	address.DeliveryPolicy = in.DeliveryPolicy
	address.FixedDeliveryPrice = in.FixedDeliveryPrice
	address.DeliveryRuleSetID = in.DeliveryRuleSetID

	updated, err := s.repo.UpdateAddress(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
	}
	return updated, nil
}

// SetDeliveryDays replaces an address's weekly calendar with the given enabled
// weekdays. Dates already on carts stay valid; the calendar gates new ones.
func (s *Service) SetDeliveryDays(ctx context.Context, adminID, addressID uuid.UUID, weekdays []enums.Weekday) (*models.CustomerAddress, error) {
	seen := make(map[enums.Weekday]struct{}, len(weekdays))
	days := make([]models.DeliveryDay, 0, len(weekdays))
	for _, weekday := range weekdays {
		if !weekday.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown weekday")
		}
		if _, dup := seen[weekday]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("weekday %s listed twice", weekday))
		}
		seen[weekday] = struct{}{}
		days = append(days, models.DeliveryDay{Weekday: weekday, Enabled: true})
	}

	if _, err := s.GetAddress(ctx, adminID, addressID); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceDeliveryDays(ctx, addressID, days); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace delivery days")
	}
	return s.GetAddress(ctx, adminID, addressID)
}

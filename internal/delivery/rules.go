package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

// Service exposes delivery rule sets, the address calendar, and next-date
// resolution. The clock is injected so cutoff behavior is testable.
type Service struct {
	repo   *Repository
	cutoff Cutoff
	now    func() time.Time
}

// NewService builds a delivery service.
func NewService(repository *Repository, cutoff Cutoff, now func() time.Time) (*Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("delivery repository required")
	}
	if cutoff.Hour < 0 || cutoff.Hour > 23 || cutoff.Minute < 0 || cutoff.Minute > 59 {
		return nil, fmt.Errorf("cutoff %02d:%02d out of range", cutoff.Hour, cutoff.Minute)
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repository, cutoff: cutoff, now: now}, nil
}

// TierInput is one submitted price break.
type TierInput struct {
	Threshold decimal.Decimal
	Charge    decimal.Decimal
}

// CreateRuleSet stores a named tier schedule for the tenant.
func (s *Service) CreateRuleSet(ctx context.Context, adminID uuid.UUID, name string, tiers []TierInput) (*models.DeliveryRuleSet, error) {
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rule name is required")
	}
	if len(tiers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required")
	}
	for i, tier := range tiers {
		if tier.Threshold.IsNegative() || tier.Charge.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d must be non-negative", i+1))
		}
	}

	ruleSet := &models.DeliveryRuleSet{AdminID: adminID, Name: name}
	for _, tier := range tiers {
		ruleSet.Tiers = append(ruleSet.Tiers, models.DeliveryRuleTier{
			Threshold: tier.Threshold,
			Charge:    tier.Charge,
		})
	}
	created, err := s.repo.CreateRuleSet(ctx, ruleSet)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rule set")
	}
	return created, nil
}

// GetRuleSet loads one rule set for the tenant.
func (s *Service) GetRuleSet(ctx context.Context, adminID, id uuid.UUID) (*models.DeliveryRuleSet, error) {
	ruleSet, err := s.repo.FindRuleSet(ctx, adminID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery rule set not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rule set")
	}
	return ruleSet, nil
}

// ListRuleSets returns every rule set for the tenant.
func (s *Service) ListRuleSets(ctx context.Context, adminID uuid.UUID) ([]models.DeliveryRuleSet, error) {
	ruleSets, err := s.repo.ListRuleSets(ctx, adminID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rule sets")
	}
	return ruleSets, nil
}

// UpdateRuleSetTiers replaces a rule set's price breaks. Orders that already
// snapshotted the previous tiers keep their stored charges.
func (s *Service) UpdateRuleSetTiers(ctx context.Context, adminID, id uuid.UUID, tiers []TierInput) (*models.DeliveryRuleSet, error) {
	if len(tiers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required")
	}
	if _, err := s.GetRuleSet(ctx, adminID, id); err != nil {
		return nil, err
	}

	rows := make([]models.DeliveryRuleTier, 0, len(tiers))
	for _, tier := range tiers {
		rows = append(rows, models.DeliveryRuleTier{Threshold: tier.Threshold, Charge: tier.Charge})
	}
	if err := s.repo.ReplaceTiers(ctx, id, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace tiers")
	}
	return s.GetRuleSet(ctx, adminID, id)
}

// DeleteRuleSet removes a rule set.
func (s *Service) DeleteRuleSet(ctx context.Context, adminID, id uuid.UUID) error {
	affected, err := s.repo.DeleteRuleSet(ctx, adminID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete rule set")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "delivery rule set not found")
	}
	return nil
}

// Snapshot freezes a rule set into the copy stored on orders. The snapshot is
// what the pricing engine resolves against, so later edits to the live rule
// set never change a persisted order's charge.
func (s *Service) Snapshot(ctx context.Context, adminID, ruleSetID uuid.UUID) (types.RuleSnapshot, error) {
	ruleSet, err := s.GetRuleSet(ctx, adminID, ruleSetID)
	if err != nil {
		return types.RuleSnapshot{}, err
	}
	snap := types.RuleSnapshot{
		RuleSetID: ruleSet.ID,
		RuleName:  ruleSet.Name,
		Tiers:     make([]types.RuleTier, 0, len(ruleSet.Tiers)),
	}
	for _, tier := range ruleSet.Tiers {
		snap.Tiers = append(snap.Tiers, types.RuleTier{
			Threshold: tier.Threshold,
			Charge:    tier.Charge,
		})
	}
	return snap, nil
}

// CalendarFor folds an address's delivery-day rows into the weekday flag array.
func (s *Service) CalendarFor(ctx context.Context, addressID uuid.UUID) ([7]bool, error) {
	days, err := s.repo.FindDeliveryDays(ctx, addressID)
	if err != nil {
		return [7]bool{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery calendar")
	}
	return models.EnabledWeekdays(days), nil
}

// NextDate resolves the next deliverable date for an address.
func (s *Service) NextDate(ctx context.Context, addressID uuid.UUID) (time.Time, error) {
	enabled, err := s.CalendarFor(ctx, addressID)
	if err != nil {
		return time.Time{}, err
	}
	next, err := NextDeliveryDate(enabled, s.now(), s.cutoff)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "address is not deliverable")
	}
	return next, nil
}

// Cutoff exposes the configured daily cutoff.
func (s *Service) Cutoff() Cutoff {
	return s.cutoff
}

// Now exposes the injected clock.
func (s *Service) Now() time.Time {
	return s.now()
}

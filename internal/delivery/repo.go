package delivery

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/internal/repo"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
)

// Repository exposes persistence for delivery rule sets and calendars.
type Repository struct {
	repo.Base
}

// NewRepository constructs a delivery repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateRuleSet inserts a rule set together with its tiers.
func (r *Repository) CreateRuleSet(ctx context.Context, ruleSet *models.DeliveryRuleSet) (*models.DeliveryRuleSet, error) {
	if err := r.DB(ctx).Create(ruleSet).Error; err != nil {
		return nil, err
	}
	return ruleSet, nil
}

// FindRuleSet loads one rule set with tiers, scoped to the tenant.
func (r *Repository) FindRuleSet(ctx context.Context, adminID, id uuid.UUID) (*models.DeliveryRuleSet, error) {
	var ruleSet models.DeliveryRuleSet
	err := r.DB(ctx).
		Preload("Tiers").
		Where("id = ? AND admin_id = ?", id, adminID).
		First(&ruleSet).Error
	if err != nil {
		return nil, err
	}
	return &ruleSet, nil
}

// ListRuleSets returns every rule set for the tenant.
func (r *Repository) ListRuleSets(ctx context.Context, adminID uuid.UUID) ([]models.DeliveryRuleSet, error) {
	var ruleSets []models.DeliveryRuleSet
	err := r.DB(ctx).
		Preload("Tiers").
		Where("admin_id = ?", adminID).
		Order("created_at ASC").
		Find(&ruleSets).Error
	if err != nil {
		return nil, err
	}
	return ruleSets, nil
}

// ReplaceTiers swaps a rule set's tiers for the provided list.
func (r *Repository) ReplaceTiers(ctx context.Context, ruleSetID uuid.UUID, tiers []models.DeliveryRuleTier) error {
	tx := r.DB(ctx)
	if err := tx.Where("rule_set_id = ?", ruleSetID).Delete(&models.DeliveryRuleTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		tiers[i].RuleSetID = ruleSetID
	}
	return tx.Create(&tiers).Error
}

// DeleteRuleSet removes a rule set and cascades its tiers.
func (r *Repository) DeleteRuleSet(ctx context.Context, adminID, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).
		Where("id = ? AND admin_id = ?", id, adminID).
		Delete(&models.DeliveryRuleSet{})
	return res.RowsAffected, res.Error
}

// FindDeliveryDays loads the weekly calendar rows for an address.
func (r *Repository) FindDeliveryDays(ctx context.Context, addressID uuid.UUID) ([]models.DeliveryDay, error) {
	var days []models.DeliveryDay
	err := r.DB(ctx).
		Where("address_id = ?", addressID).
		Order("weekday ASC").
		Find(&days).Error
	if err != nil {
		return nil, err
	}
	return days, nil
}

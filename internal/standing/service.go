package standing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/internal/catalog"
	"github.com/kamleshjangid/bakery-backend/internal/customers"
	"github.com/kamleshjangid/bakery-backend/internal/delivery"
	"github.com/kamleshjangid/bakery-backend/internal/orderlock"
	"github.com/kamleshjangid/bakery-backend/internal/pricing"
	"github.com/kamleshjangid/bakery-backend/pkg/db"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/logger"
	"github.com/kamleshjangid/bakery-backend/pkg/metrics"
	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

const metricKind = "standing"

// Service maintains the recurring standing order for each customer+address
// pair. A submission always carries the complete desired line set; the
// persisted lines are reconciled to match it exactly and every total is
// recomputed from scratch.
type Service struct {
	db        *db.Client
	repo      *Repository
	items     *catalog.Repository
	addresses *customers.Repository
	delivery  *delivery.Service
	locker    *orderlock.Locker
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
}

// NewService builds a standing-order service.
func NewService(
	dbClient *db.Client,
	repository *Repository,
	items *catalog.Repository,
	addresses *customers.Repository,
	deliverySvc *delivery.Service,
	locker *orderlock.Locker,
	orderMetrics *metrics.OrderMetrics,
	logg *logger.Logger,
) (*Service, error) {
	if dbClient == nil || repository == nil || items == nil || addresses == nil || deliverySvc == nil || locker == nil {
		return nil, fmt.Errorf("standing service dependencies missing")
	}
	return &Service{
		db:        dbClient,
		repo:      repository,
		items:     items,
		addresses: addresses,
		delivery:  deliverySvc,
		locker:    locker,
		metrics:   orderMetrics,
		logg:      logg,
	}, nil
}

// LineInput is one submitted standing-order line with per-weekday quantities.
type LineInput struct {
	ItemID      uuid.UUID
	ItemGroupID uuid.UUID
	Quantities  [enums.DaysPerWeek]int
}

// UpsertInput is a full standing-order submission. The line slice is the
// complete desired state, not a delta.
type UpsertInput struct {
	CustomerID   uuid.UUID
	AddressID    uuid.UUID
	DeliveryOn   [enums.DaysPerWeek]bool
	DeliveryType [enums.DaysPerWeek]bool
	Lines        []LineInput
}

// Result reports a completed submission.
type Result struct {
	Token       uuid.UUID
	MessageType enums.MessageType
	Message     string
}

// Upsert creates or refreshes the standing order for the pair. The sequence is
// duplicate check, per-pair lock, then one transaction that reconciles lines
// and fully overwrites the order's weekday summaries and totals.
func (s *Service) Upsert(ctx context.Context, adminID uuid.UUID, in UpsertInput) (*Result, error) {
	if in.CustomerID == uuid.Nil || in.AddressID == uuid.Nil {
		return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, "customer and address are required"))
	}
	for i, line := range in.Lines {
		if line.ItemID == uuid.Nil || line.ItemGroupID == uuid.Nil {
			return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d is missing item or group", i+1)))
		}
		for _, q := range line.Quantities {
			if q < 0 {
				return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d has a negative quantity", i+1)))
			}
		}
	}

	keys := make([]pricing.LineKey, len(in.Lines))
	for i, line := range in.Lines {
		keys[i] = pricing.LineKey{ItemID: line.ItemID, ItemGroupID: line.ItemGroupID}
	}
	if dup := pricing.DetectDuplicateLines(keys); dup.Duplicate {
		return nil, s.fail(pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("duplicate line: item appears at rows %d and %d", dup.PrevIndex, dup.CurrentIndex),
		))
	}

	address, err := s.addresses.FindAddress(ctx, adminID, in.AddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.fail(pkgerrors.New(pkgerrors.CodeNotFound, "address not found"))
		}
		return nil, s.fail(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address"))
	}
	if address.CustomerID != in.CustomerID {
		return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, "address does not belong to customer"))
	}

	var result *Result
	lockKey := orderlock.StandingKey(adminID, in.CustomerID, in.AddressID)
	err = s.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		started := time.Now()
		txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			result, err = s.upsertTx(ctx, tx, adminID, address, in, keys)
			return err
		})
		if txErr == nil {
			s.metrics.ObserveReconcile(metricKind, time.Since(started))
		}
		return txErr
	})
	if err != nil {
		s.metrics.IncSubmission(metricKind, "error")
		return nil, err
	}

	s.metrics.IncSubmission(metricKind, "ok")
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_id":     result.Token,
			"message_type": result.MessageType,
		})
		s.logg.Info(ctx, "standing order saved")
	}
	return result, nil
}

func (s *Service) upsertTx(
	ctx context.Context,
	tx *gorm.DB,
	adminID uuid.UUID,
	address *models.CustomerAddress,
	in UpsertInput,
	keys []pricing.LineKey,
) (*Result, error) {
	txRepo := s.repo.WithTx(tx)
	txItems := catalog.NewRepository(tx)

	messageType := enums.MessageTypeUpdate
	order, err := txRepo.FindByPair(ctx, adminID, in.CustomerID, in.AddressID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		order, err = txRepo.Create(ctx, &models.StandingOrder{
			AdminID:    adminID,
			CustomerID: in.CustomerID,
			AddressID:  in.AddressID,
		})
		messageType = enums.MessageTypeInsert
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load standing order")
	}

	itemIDs := make([]uuid.UUID, 0, len(in.Lines))
	for _, line := range in.Lines {
		itemIDs = append(itemIDs, line.ItemID)
	}
	itemsByID, err := txItems.FindItemsByIDs(ctx, adminID, itemIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load items")
	}
	for i, line := range in.Lines {
		if _, ok := itemsByID[line.ItemID]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d references an unknown item", i+1))
		}
	}

	if err := s.reconcileLines(ctx, txRepo, order.ID, in.Lines, keys, itemsByID); err != nil {
		return nil, err
	}

	persisted, err := txRepo.FindLines(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload lines")
	}

	snapshot := types.RuleSnapshot{}
	if address.DeliveryPolicy == enums.DeliveryPolicyTieredRules && address.DeliveryRuleSetID != nil {
		snapshot, err = s.delivery.Snapshot(ctx, adminID, *address.DeliveryRuleSetID)
		if err != nil {
			return nil, err
		}
	}
	calendar, err := s.delivery.CalendarFor(ctx, address.ID)
	if err != nil {
		return nil, err
	}

	aggLines := make([]pricing.Line, 0, len(persisted))
	for _, line := range persisted {
		aggLines = append(aggLines, pricing.Line{
			Qty:            line.Quantities(),
			WholesalePrice: line.WholesalePrice,
			RetailPrice:    line.RetailPrice,
			GSTPercent:     line.GSTPercent,
		})
	}
	totals := pricing.Aggregate(pricing.Input{
		Policy:       address.DeliveryPolicy,
		FixedPrice:   address.FixedDeliveryPrice,
		Tiers:        snapshot.Tiers,
		ActiveDays:   calendar,
		DeliveryOn:   in.DeliveryOn,
		DeliveryType: in.DeliveryType,
		Lines:        aggLines,
	})
	s.metrics.AddSkippedLines(totals.SkippedLines)

	order.Days = totals.Days
	order.TotalPieces = totals.TotalPieces
	order.ItemCost = totals.ItemCost
	order.DeliveryCharge = totals.DeliveryCharge
	order.TotalCost = totals.TotalCost
	order.TotalRetailCost = totals.TotalRetailCost
	order.DeliveryPolicy = address.DeliveryPolicy
	order.RuleSnapshot = snapshot

	if err := txRepo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save standing order")
	}

	message := "standing order updated"
	if messageType == enums.MessageTypeInsert {
		message = "standing order created"
	}
	return &Result{Token: order.ID, MessageType: messageType, Message: message}, nil
}

// reconcileLines makes the persisted line set match the submission exactly:
// existing keys are updated in place with fresh price snapshots, new keys are
// inserted, and keys absent from the submission are deleted.
func (s *Service) reconcileLines(
	ctx context.Context,
	txRepo *Repository,
	orderID uuid.UUID,
	lines []LineInput,
	keys []pricing.LineKey,
	itemsByID map[uuid.UUID]models.Item,
) error {
	persisted, err := txRepo.FindLines(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lines")
	}

	persistedByKey := make(map[pricing.LineKey]*models.StandingOrderLine, len(persisted))
	persistedKeys := make([]pricing.LineKey, 0, len(persisted))
	for i := range persisted {
		key := pricing.LineKey{ItemID: persisted[i].ItemID, ItemGroupID: persisted[i].ItemGroupID}
		persistedByKey[key] = &persisted[i]
		persistedKeys = append(persistedKeys, key)
	}

	for i, line := range lines {
		item := itemsByID[line.ItemID]
		if existing, ok := persistedByKey[keys[i]]; ok {
			existing.SetQuantities(line.Quantities)
			existing.WholesalePrice = item.WholesalePrice
			existing.RetailPrice = item.RetailPrice
			existing.GSTPercent = item.GSTPercent
			existing.Recompute()
			if err := txRepo.SaveLine(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line")
			}
			continue
		}
		created := &models.StandingOrderLine{
			StandingOrderID: orderID,
			ItemID:          line.ItemID,
			ItemGroupID:     line.ItemGroupID,
			WholesalePrice:  item.WholesalePrice,
			RetailPrice:     item.RetailPrice,
			GSTPercent:      item.GSTPercent,
		}
		created.SetQuantities(line.Quantities)
		created.Recompute()
		if err := txRepo.CreateLine(ctx, created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert line")
		}
	}

	stale := pricing.StaleKeys(persistedKeys, keys)
	if err := txRepo.DeleteLinesByKeys(ctx, orderID, stale); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stale lines")
	}
	return nil
}

// Get loads one standing order with its lines.
func (s *Service) Get(ctx context.Context, adminID, id uuid.UUID) (*models.StandingOrder, error) {
	order, err := s.repo.FindByID(ctx, adminID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "standing order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load standing order")
	}
	return order, nil
}

// GetByPair loads the standing order for a customer+address pair.
func (s *Service) GetByPair(ctx context.Context, adminID, customerID, addressID uuid.UUID) (*models.StandingOrder, error) {
	order, err := s.repo.FindByPair(ctx, adminID, customerID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "standing order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load standing order")
	}
	lines, err := s.repo.FindLines(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lines")
	}
	order.Lines = lines
	return order, nil
}

// Delete removes a standing order and its lines.
func (s *Service) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	var affected int64
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		affected, err = s.repo.WithTx(tx).Delete(ctx, adminID, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete standing order")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "standing order not found")
	}
	return nil
}

func (s *Service) fail(err *pkgerrors.Error) error {
	s.metrics.IncSubmission(metricKind, "error")
	return err
}

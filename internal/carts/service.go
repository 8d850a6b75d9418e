package carts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

const metricKind = "cart"

// Service manages dated cart orders. A cart is a one-off order for a single
// delivery date that overrides the standing order for that date. Publishing
// freezes the cart and stamps it with the tenant's next invoice number.
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

// NewService builds a cart service.
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
		return nil, fmt.Errorf("cart service dependencies missing")
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

// LineInput is one submitted cart line.
type LineInput struct {
	ItemID      uuid.UUID
	ItemGroupID uuid.UUID
	Quantity    int
}

// CheckoutInput is a full cart submission for one delivery date. The line
// slice is the complete desired state, not a delta.
type CheckoutInput struct {
	CustomerID   uuid.UUID
	AddressID    uuid.UUID
	DeliveryDate time.Time
	Discount     decimal.Decimal
	Lines        []LineInput
}

// Result reports a completed cart submission.
type Result struct {
	Token       uuid.UUID
	MessageType enums.MessageType
	Message     string
}

// Checkout creates or refreshes the cart for (customer, address, date). New
// carts must target a valid future delivery date; for tomorrow the order book
// only opens after the daily cutoff. Updates to an existing cart inside the
// late window go through but flag the changed lines for audit.
func (s *Service) Checkout(ctx context.Context, adminID uuid.UUID, in CheckoutInput) (*Result, error) {
	if in.CustomerID == uuid.Nil || in.AddressID == uuid.Nil {
		return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, "customer and address are required"))
	}
	if in.DeliveryDate.IsZero() {
		return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, "delivery date is required"))
	}
	if in.Discount.IsNegative() {
		return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, "discount must be non-negative"))
	}
	for i, line := range in.Lines {
		if line.ItemID == uuid.Nil || line.ItemGroupID == uuid.Nil {
			return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d is missing item or group", i+1)))
		}
		if line.Quantity < 0 {
			return nil, s.fail(pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %d has a negative quantity", i+1)))
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

	calendar, err := s.delivery.CalendarFor(ctx, address.ID)
	if err != nil {
		return nil, s.fail(err)
	}

	date := delivery.Midnight(in.DeliveryDate)
	now := s.delivery.Now()

	var result *Result
	lockKey := orderlock.CartKey(adminID, in.CustomerID, in.AddressID, date)
	err = s.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		started := time.Now()
		txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			var err error
			result, err = s.checkoutTx(ctx, tx, adminID, address, in, keys, calendar, date, now)
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
			"order_id":      result.Token,
			"delivery_date": date.Format("2006-01-02"),
			"message_type":  result.MessageType,
		})
		s.logg.Info(ctx, "cart order saved")
	}
	return result, nil
}

func (s *Service) checkoutTx(
	ctx context.Context,
	tx *gorm.DB,
	adminID uuid.UUID,
	address *models.CustomerAddress,
	in CheckoutInput,
	keys []pricing.LineKey,
	calendar [enums.DaysPerWeek]bool,
	date time.Time,
	now time.Time,
) (*Result, error) {
	txRepo := s.repo.WithTx(tx)
	txItems := catalog.NewRepository(tx)

	messageType := enums.MessageTypeUpdate
	order, err := txRepo.FindByDate(ctx, adminID, in.CustomerID, in.AddressID, date)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.validateNewCartDate(date, now, calendar); err != nil {
			return nil, err
		}
		order, err = txRepo.Create(ctx, &models.CartOrder{
			AdminID:      adminID,
			CustomerID:   in.CustomerID,
			AddressID:    in.AddressID,
			DeliveryDate: date,
		})
		messageType = enums.MessageTypeInsert
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if order.IsPublished() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is published and can no longer change")
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

	// a fresh cart placed after the cutoff is a normal order; only changes to
	// an existing cart fall in the late window
	late := messageType == enums.MessageTypeUpdate && s.inLateWindow(date, now)
	if err := s.reconcileLines(ctx, txRepo, order.ID, in.Lines, keys, itemsByID, late); err != nil {
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

	if err := s.applyTotals(order, address, snapshot, calendar, date, in.Discount, persisted, itemsByID); err != nil {
		return nil, err
	}
	if err := txRepo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}

	message := "cart updated"
	if messageType == enums.MessageTypeInsert {
		message = "cart created"
	}
	return &Result{Token: order.ID, MessageType: messageType, Message: message}, nil
}

// validateNewCartDate gates fresh carts: the date must be a future day on the
// address's calendar, and tomorrow only opens once the daily cutoff passes.
func (s *Service) validateNewCartDate(date, now time.Time, calendar [enums.DaysPerWeek]bool) error {
	if err := delivery.ValidateOrderDate(date, now, calendar); err != nil {
		switch {
		case errors.Is(err, delivery.ErrOrderDateInPast):
			return pkgerrors.New(pkgerrors.CodeValidation, "delivery date must be after today")
		case errors.Is(err, delivery.ErrDayNotDeliverable):
			return pkgerrors.New(pkgerrors.CodeValidation, "address has no delivery on that weekday")
		default:
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery date")
		}
	}
	tomorrow := delivery.Midnight(now).AddDate(0, 0, 1)
	if date.Equal(tomorrow) && !delivery.CanOrderNextDay(now, s.delivery.Cutoff()) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "next-day ordering opens after the daily cutoff")
	}
	return nil
}

// inLateWindow reports whether a quantity change on an existing cart counts as
// late: any change on the delivery day itself, or a change for tomorrow once
// the cutoff has passed and production is planned.
func (s *Service) inLateWindow(date, now time.Time) bool {
	today := delivery.Midnight(now)
	if date.Equal(today) {
		return true
	}
	tomorrow := today.AddDate(0, 0, 1)
	return date.Equal(tomorrow) && delivery.CanOrderNextDay(now, s.delivery.Cutoff())
}

// reconcileLines makes the persisted line set match the submission exactly.
// Inside the late window a changed quantity keeps the previous value in
// LateQuantity and flags the line; the change itself is never blocked.
func (s *Service) reconcileLines(
	ctx context.Context,
	txRepo *Repository,
	orderID uuid.UUID,
	lines []LineInput,
	keys []pricing.LineKey,
	itemsByID map[uuid.UUID]models.Item,
	late bool,
) error {
	persisted, err := txRepo.FindLines(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load lines")
	}

	persistedByKey := make(map[pricing.LineKey]*models.CartOrderLine, len(persisted))
	persistedKeys := make([]pricing.LineKey, 0, len(persisted))
	for i := range persisted {
		key := pricing.LineKey{ItemID: persisted[i].ItemID, ItemGroupID: persisted[i].ItemGroupID}
		persistedByKey[key] = &persisted[i]
		persistedKeys = append(persistedKeys, key)
	}

	for i, line := range lines {
		item := itemsByID[line.ItemID]
		if existing, ok := persistedByKey[keys[i]]; ok {
			if late && existing.Quantity != line.Quantity {
				previous := existing.Quantity
				existing.LateType = enums.LateTypeLate
				existing.LateQuantity = &previous
			}
			existing.Quantity = line.Quantity
			existing.WholesalePrice = item.WholesalePrice
			existing.RetailPrice = item.RetailPrice
			existing.GSTPercent = item.GSTPercent
			existing.Recompute()
			if err := txRepo.SaveLine(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update line")
			}
			continue
		}
		created := &models.CartOrderLine{
			CartOrderID:    orderID,
			ItemID:         line.ItemID,
			ItemGroupID:    line.ItemGroupID,
			Quantity:       line.Quantity,
			WholesalePrice: item.WholesalePrice,
			RetailPrice:    item.RetailPrice,
			GSTPercent:     item.GSTPercent,
		}
		if late {
			created.LateType = enums.LateTypeLate
		}
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

// applyTotals recomputes the cart's totals from its lines through the shared
// aggregator. A cart targets one date, so all quantities land on that date's
// weekday and only that weekday participates in tier resolution.
func (s *Service) applyTotals(
	order *models.CartOrder,
	address *models.CustomerAddress,
	snapshot types.RuleSnapshot,
	calendar [enums.DaysPerWeek]bool,
	date time.Time,
	discount decimal.Decimal,
	persisted []models.CartOrderLine,
	itemsByID map[uuid.UUID]models.Item,
) error {
	weekday := enums.WeekdayOf(date)

	var deliveryOn [enums.DaysPerWeek]bool
	deliveryOn[weekday] = true
	active := calendar
	active[weekday] = true

	aggLines := make([]pricing.Line, 0, len(persisted))
	for _, line := range persisted {
		var qty [enums.DaysPerWeek]int
		qty[weekday] = line.Quantity
		item, ok := itemsByID[line.ItemID]
		aggLines = append(aggLines, pricing.Line{
			Qty:            qty,
			WholesalePrice: line.WholesalePrice,
			RetailPrice:    line.RetailPrice,
			GSTPercent:     line.GSTPercent,
			WeightKg:       item.WeightKg,
			Missing:        !ok,
		})
	}
	totals := pricing.Aggregate(pricing.Input{
		Policy:       address.DeliveryPolicy,
		FixedPrice:   address.FixedDeliveryPrice,
		Tiers:        snapshot.Tiers,
		ActiveDays:   active,
		DeliveryOn:   deliveryOn,
		DeliveryType: deliveryOn,
		Lines:        aggLines,
	})
	s.metrics.AddSkippedLines(totals.SkippedLines)

	if discount.GreaterThan(totals.TotalCost) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount cannot exceed the order total")
	}

	order.ItemCost = totals.ItemCost
	order.GSTAmount = totals.GSTAmount
	order.DeliveryCharge = totals.DeliveryCharge
	order.Discount = discount
	order.TotalCost = totals.TotalCost.Sub(discount)
	order.TotalWeightKg = totals.TotalWeightKg
	order.TotalPieces = totals.TotalPieces
	order.DeliveryPolicy = address.DeliveryPolicy
	order.RuleSnapshot = snapshot
	return nil
}

// Get loads one cart with its lines.
func (s *Service) Get(ctx context.Context, adminID, id uuid.UUID) (*models.CartOrder, error) {
	order, err := s.repo.FindByID(ctx, adminID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return order, nil
}

// Publish freezes a cart and stamps it with the tenant's next invoice number.
// A published cart cannot be published again or modified.
func (s *Service) Publish(ctx context.Context, adminID, id uuid.UUID) (*models.CartOrder, error) {
	var published *models.CartOrder
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		order, err := txRepo.FindByID(ctx, adminID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if order.IsPublished() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is already published")
		}

		number, err := txRepo.NextInvoiceNumber(ctx, adminID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate invoice number")
		}
		order.InvoiceNumber = &number
		order.PublishedStatus = enums.PublishedStatusPublished
		if err := txRepo.Save(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish cart")
		}
		published = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"order_id":       published.ID,
			"invoice_number": *published.InvoiceNumber,
		})
		s.logg.Info(ctx, "cart published")
	}
	return published, nil
}

// Delete removes a cart. Published carts and carts whose delivery date has
// arrived are immutable.
func (s *Service) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	order, err := s.Get(ctx, adminID, id)
	if err != nil {
		return err
	}
	if order.IsPublished() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is published and can no longer change")
	}
	today := delivery.Midnight(s.delivery.Now())
	if !delivery.Midnight(order.DeliveryDate).After(today) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart can only be deleted before its delivery date")
	}

	var affected int64
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		affected, err = s.repo.WithTx(tx).Delete(ctx, adminID, id)
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return nil
}

func (s *Service) fail(err error) error {
	s.metrics.IncSubmission(metricKind, "error")
	return err
}

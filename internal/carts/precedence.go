package carts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/internal/delivery"
	"github.com/kamleshjangid/bakery-backend/internal/standing"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

// DayView is what a customer's address receives on one date: the dated cart
// when one exists, otherwise the standing order's slice for that weekday when
// the address's calendar marks the weekday as a delivery day.
type DayView struct {
	Source   enums.OrderSource
	Date     time.Time
	Cart     *models.CartOrder
	Standing *models.StandingOrder
	Summary  types.WeekdaySummary
}

// DayResolver answers the cart-over-standing precedence question for one
// (customer, address, date) triple.
type DayResolver struct {
	carts    *Repository
	standing *standing.Repository
	delivery *delivery.Service
}

// NewDayResolver builds a precedence resolver.
func NewDayResolver(cartRepo *Repository, standingRepo *standing.Repository, deliverySvc *delivery.Service) (*DayResolver, error) {
	if cartRepo == nil || standingRepo == nil || deliverySvc == nil {
		return nil, fmt.Errorf("day resolver dependencies required")
	}
	return &DayResolver{carts: cartRepo, standing: standingRepo, delivery: deliverySvc}, nil
}

// Resolve picks the order that feeds the given date. A cart for the exact date
// always wins, even when the standing order also covers that weekday; without
// a cart the standing order supplies its weekday slice, but only on weekdays
// the address's delivery calendar has enabled.
func (r *DayResolver) Resolve(ctx context.Context, adminID, customerID, addressID uuid.UUID, date time.Time) (*DayView, error) {
	day := delivery.Midnight(date)
	view := &DayView{Source: enums.OrderSourceNone, Date: day}

	cart, err := r.carts.FindByDate(ctx, adminID, customerID, addressID, day)
	if err == nil {
		lines, err := r.carts.FindLines(ctx, cart.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart lines")
		}
		cart.Lines = lines
		view.Source = enums.OrderSourceCart
		view.Cart = cart
		view.Summary = types.WeekdaySummary{
			Quantity:         cart.TotalPieces,
			Cost:             cart.ItemCost,
			DeliveryOn:       true,
			CostWithDelivery: cart.ItemCost.Add(cart.DeliveryCharge),
		}
		return view, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	enabled, err := r.delivery.CalendarFor(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if !enabled[enums.WeekdayOf(day)] {
		return view, nil
	}

	order, err := r.standing.FindByPair(ctx, adminID, customerID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return view, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load standing order")
	}

	view.Source = enums.OrderSourceStanding
	view.Standing = order
	view.Summary = order.Days.At(enums.WeekdayOf(day))
	return view, nil
}

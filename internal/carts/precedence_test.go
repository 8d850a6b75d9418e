package carts

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kamleshjangid/bakery-backend/internal/delivery"
	"github.com/kamleshjangid/bakery-backend/internal/standing"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

func seedStandingDay(t *testing.T, f *fixture, day enums.Weekday, qty int) {
	t.Helper()
	var days types.WeekSummaries
	days[day] = types.WeekdaySummary{
		Quantity:   qty,
		Cost:       decimal.NewFromInt(int64(qty)).Mul(decimal.RequireFromString("2.50")),
		DeliveryOn: true,
	}
	order := models.StandingOrder{
		AdminID:     f.adminID,
		CustomerID:  f.cust.ID,
		AddressID:   f.addr.ID,
		Days:        days,
		TotalPieces: qty,
	}
	require.NoError(t, f.conn.Create(&order).Error)
}

func newDayResolver(t *testing.T, f *fixture) *DayResolver {
	t.Helper()
	deliverySvc, err := delivery.NewService(delivery.NewRepository(f.conn), delivery.DefaultCutoff, func() time.Time { return f.now })
	require.NoError(t, err)
	resolver, err := NewDayResolver(NewRepository(f.conn), standing.NewRepository(f.conn), deliverySvc)
	require.NoError(t, err)
	return resolver
}

func TestDayViewCartWinsOverStanding(t *testing.T) {
	f := newFixture(t)
	seedStandingDay(t, f, enums.Monday, 10)

	nextMonday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	f.checkout(t, nextMonday, 15)

	resolver := newDayResolver(t, f)

	view, err := resolver.Resolve(context.Background(), f.adminID, f.cust.ID, f.addr.ID, nextMonday)
	require.NoError(t, err)
	require.Equal(t, enums.OrderSourceCart, view.Source)
	require.NotNil(t, view.Cart)
	require.Equal(t, 15, view.Summary.Quantity)
}

func TestDayViewFallsBackToStanding(t *testing.T) {
	f := newFixture(t)
	seedStandingDay(t, f, enums.Monday, 10)

	resolver := newDayResolver(t, f)

	nextMonday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	view, err := resolver.Resolve(context.Background(), f.adminID, f.cust.ID, f.addr.ID, nextMonday)
	require.NoError(t, err)
	require.Equal(t, enums.OrderSourceStanding, view.Source)
	require.Equal(t, 10, view.Summary.Quantity)

	// tuesday is a delivery day with nothing on the standing order: the
	// standing order still answers, with an empty slice
	tuesday := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	view, err = resolver.Resolve(context.Background(), f.adminID, f.cust.ID, f.addr.ID, tuesday)
	require.NoError(t, err)
	require.Equal(t, enums.OrderSourceStanding, view.Source)
	require.Equal(t, 0, view.Summary.Quantity)
}

func TestDayViewSkipsCalendarDisabledWeekday(t *testing.T) {
	f := newFixture(t)
	// quantities on a weekday the address never receives deliveries
	seedStandingDay(t, f, enums.Friday, 10)

	resolver := newDayResolver(t, f)

	friday := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	view, err := resolver.Resolve(context.Background(), f.adminID, f.cust.ID, f.addr.ID, friday)
	require.NoError(t, err)
	require.Equal(t, enums.OrderSourceNone, view.Source)
	require.Nil(t, view.Standing)
}

func TestDayViewNoOrders(t *testing.T) {
	f := newFixture(t)

	resolver := newDayResolver(t, f)

	view, err := resolver.Resolve(context.Background(), f.adminID, f.cust.ID, f.addr.ID, wednesday)
	require.NoError(t, err)
	require.Equal(t, enums.OrderSourceNone, view.Source)
	require.Nil(t, view.Cart)
	require.Nil(t, view.Standing)
}

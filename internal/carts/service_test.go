package carts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/internal/catalog"
	"github.com/kamleshjangid/bakery-backend/internal/customers"
	"github.com/kamleshjangid/bakery-backend/internal/delivery"
	"github.com/kamleshjangid/bakery-backend/internal/orderlock"
	"github.com/kamleshjangid/bakery-backend/internal/testdb"
	"github.com/kamleshjangid/bakery-backend/pkg/db"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
)

type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

var (
	// Monday before the cutoff
	monday    = time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	conn    *gorm.DB
	svc     *Service
	now     time.Time
	adminID uuid.UUID
	cust    models.Customer
	addr    models.CustomerAddress
	group   models.ItemGroup
	bread   models.Item
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{conn: testdb.Open(t), now: monday, adminID: uuid.New()}

	f.cust = models.Customer{AdminID: f.adminID, Name: "Corner Cafe", IsActive: true}
	require.NoError(t, f.conn.Create(&f.cust).Error)

	f.addr = models.CustomerAddress{
		AdminID:        f.adminID,
		CustomerID:     f.cust.ID,
		Line1:          "1 Baker St",
		DeliveryPolicy: enums.DeliveryPolicyFree,
	}
	require.NoError(t, f.conn.Create(&f.addr).Error)
	for _, day := range []enums.Weekday{enums.Monday, enums.Tuesday, enums.Wednesday} {
		require.NoError(t, f.conn.Create(&models.DeliveryDay{
			AddressID: f.addr.ID,
			Weekday:   day,
			Enabled:   true,
		}).Error)
	}

	f.group = models.ItemGroup{AdminID: f.adminID, Name: "Breads"}
	require.NoError(t, f.conn.Create(&f.group).Error)
	f.bread = models.Item{
		AdminID:        f.adminID,
		ItemGroupID:    f.group.ID,
		Name:           "Sourdough",
		WholesalePrice: decimal.RequireFromString("2.50"),
		RetailPrice:    decimal.RequireFromString("4.00"),
		GSTPercent:     decimal.RequireFromString("10"),
		WeightKg:       decimal.RequireFromString("0.5"),
		IsActive:       true,
	}
	require.NoError(t, f.conn.Create(&f.bread).Error)

	deliverySvc, err := delivery.NewService(delivery.NewRepository(f.conn), delivery.DefaultCutoff, func() time.Time { return f.now })
	require.NoError(t, err)
	locker, err := orderlock.New(newMemStore(), time.Second)
	require.NoError(t, err)

	f.svc, err = NewService(
		db.NewFromGorm(f.conn),
		NewRepository(f.conn),
		catalog.NewRepository(f.conn),
		customers.NewRepository(f.conn),
		deliverySvc,
		locker,
		nil,
		nil,
	)
	require.NoError(t, err)
	return f
}

func (f *fixture) checkout(t *testing.T, date time.Time, qty int) *Result {
	t.Helper()
	res, err := f.svc.Checkout(context.Background(), f.adminID, CheckoutInput{
		CustomerID:   f.cust.ID,
		AddressID:    f.addr.ID,
		DeliveryDate: date,
		Lines:        []LineInput{{ItemID: f.bread.ID, ItemGroupID: f.group.ID, Quantity: qty}},
	})
	require.NoError(t, err)
	return res
}

func TestCheckoutCreatesCart(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.Checkout(context.Background(), f.adminID, CheckoutInput{
		CustomerID:   f.cust.ID,
		AddressID:    f.addr.ID,
		DeliveryDate: wednesday,
		Discount:     decimal.RequireFromString("5"),
		Lines:        []LineInput{{ItemID: f.bread.ID, ItemGroupID: f.group.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, enums.MessageTypeInsert, res.MessageType)

	cart, err := f.svc.Get(context.Background(), f.adminID, res.Token)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, 10, cart.TotalPieces)
	require.True(t, cart.ItemCost.Equal(decimal.RequireFromString("25")), "item cost %s", cart.ItemCost)
	require.True(t, cart.GSTAmount.Equal(decimal.RequireFromString("2.5")), "gst %s", cart.GSTAmount)
	require.True(t, cart.TotalWeightKg.Equal(decimal.RequireFromString("5")), "weight %s", cart.TotalWeightKg)
	require.True(t, cart.TotalCost.Equal(decimal.RequireFromString("20")), "total %s", cart.TotalCost)
	require.False(t, cart.IsPublished())
	require.Nil(t, cart.InvoiceNumber)
}

func TestCheckoutRejectsOversizedDiscount(t *testing.T) {
	f := newFixture(t)

	// 10 pieces at 2.50 is a 25.00 order; a 100.00 discount cannot apply
	_, err := f.svc.Checkout(context.Background(), f.adminID, CheckoutInput{
		CustomerID:   f.cust.ID,
		AddressID:    f.addr.ID,
		DeliveryDate: wednesday,
		Discount:     decimal.RequireFromString("100"),
		Lines:        []LineInput{{ItemID: f.bread.ID, ItemGroupID: f.group.ID, Quantity: 10}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// a discount matching the total exactly lands the cart on zero
	res, err := f.svc.Checkout(context.Background(), f.adminID, CheckoutInput{
		CustomerID:   f.cust.ID,
		AddressID:    f.addr.ID,
		DeliveryDate: wednesday,
		Discount:     decimal.RequireFromString("25"),
		Lines:        []LineInput{{ItemID: f.bread.ID, ItemGroupID: f.group.ID, Quantity: 10}},
	})
	require.NoError(t, err)
	cart, err := f.svc.Get(context.Background(), f.adminID, res.Token)
	require.NoError(t, err)
	require.True(t, cart.TotalCost.IsZero(), "total %s", cart.TotalCost)
}

func TestCheckoutRejectsPastAndToday(t *testing.T) {
	f := newFixture(t)

	for _, date := range []time.Time{
		monday,                     // today
		monday.AddDate(0, 0, -7),   // last week
		time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), // yesterday
	} {
		_, err := f.svc.Checkout(context.Background(), f.adminID, CheckoutInput{
			CustomerID:   f.cust.ID,
			AddressID:    f.addr.ID,
			DeliveryDate: date,
			Lines:        []LineInput{{ItemID: f.bread.ID, ItemGroupID: f.group.ID, Quantity: 1}},
		})
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "date %s", date)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestCheckoutRejectsDisabledWeekday(t *testing.T) {
	f := newFixture(t)

	friday := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.Checkout(context.Background(), f.adminID, CheckoutInput{
		CustomerID:   f.cust.ID,
		AddressID:    f.addr.ID,
		DeliveryDate: friday,
		Lines:        []LineInput{{ItemID: f.bread.ID, ItemGroupID: f.group.ID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCheckoutNextDayGatedByCutoff(t *testing.T) {
	f := newFixture(t)
	tuesday := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	// before the cutoff, tomorrow's book is closed
	_, err := f.svc.Checkout(context.Background(), f.adminID, CheckoutInput{
		CustomerID:   f.cust.ID,
		AddressID:    f.addr.ID,
		DeliveryDate: tuesday,
		Lines:        []LineInput{{ItemID: f.bread.ID, ItemGroupID: f.group.ID, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// one minute past the cutoff it opens
	f.now = time.Date(2026, 8, 24, 12, 31, 0, 0, time.UTC)
	res := f.checkout(t, tuesday, 1)
	require.Equal(t, enums.MessageTypeInsert, res.MessageType)
}

func TestCheckoutFlagsLateChanges(t *testing.T) {
	f := newFixture(t)

	res := f.checkout(t, wednesday, 10)

	// tuesday afternoon, past the cutoff: wednesday production is planned
	f.now = time.Date(2026, 8, 25, 13, 0, 0, 0, time.UTC)
	updated := f.checkout(t, wednesday, 15)
	require.Equal(t, enums.MessageTypeUpdate, updated.MessageType)
	require.Equal(t, res.Token, updated.Token)

	cart, err := f.svc.Get(context.Background(), f.adminID, res.Token)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	line := cart.Lines[0]
	require.Equal(t, 15, line.Quantity)
	require.Equal(t, enums.LateTypeLate, line.LateType)
	require.NotNil(t, line.LateQuantity)
	require.Equal(t, 10, *line.LateQuantity)
	require.Equal(t, 15, cart.TotalPieces)
}

func TestCheckoutBeforeCutoffIsNotLate(t *testing.T) {
	f := newFixture(t)

	f.checkout(t, wednesday, 10)

	// monday still, nowhere near wednesday's late window
	res := f.checkout(t, wednesday, 12)
	cart, err := f.svc.Get(context.Background(), f.adminID, res.Token)
	require.NoError(t, err)
	require.Equal(t, enums.LateTypeNone, cart.Lines[0].LateType)
	require.Nil(t, cart.Lines[0].LateQuantity)
}

func TestPublishAssignsSequentialInvoices(t *testing.T) {
	f := newFixture(t)

	first := f.checkout(t, wednesday, 10)
	nextMonday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	second := f.checkout(t, nextMonday, 4)

	published, err := f.svc.Publish(context.Background(), f.adminID, first.Token)
	require.NoError(t, err)
	require.True(t, published.IsPublished())
	require.NotNil(t, published.InvoiceNumber)
	require.Equal(t, int64(1), *published.InvoiceNumber)

	publishedSecond, err := f.svc.Publish(context.Background(), f.adminID, second.Token)
	require.NoError(t, err)
	require.Equal(t, int64(2), *publishedSecond.InvoiceNumber)

	// double publish is refused and the number is not burned
	_, err = f.svc.Publish(context.Background(), f.adminID, first.Token)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestPublishedCartRejectsChanges(t *testing.T) {
	f := newFixture(t)

	res := f.checkout(t, wednesday, 10)
	_, err := f.svc.Publish(context.Background(), f.adminID, res.Token)
	require.NoError(t, err)

	_, err = f.svc.Checkout(context.Background(), f.adminID, CheckoutInput{
		CustomerID:   f.cust.ID,
		AddressID:    f.addr.ID,
		DeliveryDate: wednesday,
		Lines:        []LineInput{{ItemID: f.bread.ID, ItemGroupID: f.group.ID, Quantity: 99}},
	})
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	err = f.svc.Delete(context.Background(), f.adminID, res.Token)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestDeleteOnlyBeforeDeliveryDate(t *testing.T) {
	f := newFixture(t)

	res := f.checkout(t, wednesday, 10)

	// delivery morning: too late to delete
	f.now = time.Date(2026, 8, 26, 6, 0, 0, 0, time.UTC)
	err := f.svc.Delete(context.Background(), f.adminID, res.Token)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	// the day before it works
	f.now = monday
	require.NoError(t, f.svc.Delete(context.Background(), f.adminID, res.Token))

	_, err = f.svc.Get(context.Background(), f.adminID, res.Token)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

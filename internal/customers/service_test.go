package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kamleshjangid/bakery-backend/internal/testdb"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(NewRepository(testdb.Open(t)))
	require.NoError(t, err)
	return svc
}

func TestCustomerLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	adminID := uuid.New()

	customer, err := svc.Create(ctx, adminID, CustomerInput{Name: "Corner Cafe", Email: "owner@corner.test"})
	require.NoError(t, err)
	require.True(t, customer.IsActive)

	loaded, err := svc.Get(ctx, adminID, customer.ID)
	require.NoError(t, err)
	require.Equal(t, "Corner Cafe", loaded.Name)

	_, err = svc.Get(ctx, uuid.New(), customer.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	updated, err := svc.Update(ctx, adminID, customer.ID, CustomerInput{Name: "Corner Cafe & Deli"})
	require.NoError(t, err)
	require.Equal(t, "Corner Cafe & Deli", updated.Name)

	require.NoError(t, svc.Delete(ctx, adminID, customer.ID))
	_, err = svc.Get(ctx, adminID, customer.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateAddressValidatesPolicy(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	adminID := uuid.New()

	customer, err := svc.Create(ctx, adminID, CustomerInput{Name: "Corner Cafe"})
	require.NoError(t, err)

	// tiered policy without a rule set
	_, err = svc.CreateAddress(ctx, adminID, AddressInput{
		CustomerID:     customer.ID,
		Line1:          "1 Baker St",
		DeliveryPolicy: enums.DeliveryPolicyTieredRules,
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	// unknown policy
	_, err = svc.CreateAddress(ctx, adminID, AddressInput{
		CustomerID:     customer.ID,
		Line1:          "1 Baker St",
		DeliveryPolicy: enums.DeliveryPolicy("postage_stamp"),
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	address, err := svc.CreateAddress(ctx, adminID, AddressInput{
		CustomerID:         customer.ID,
		Line1:              "1 Baker St",
		DeliveryPolicy:     enums.DeliveryPolicyFixedPrice,
		FixedDeliveryPrice: decimal.RequireFromString("7.50"),
	})
	require.NoError(t, err)
	require.Equal(t, enums.DeliveryPolicyFixedPrice, address.DeliveryPolicy)
}

func TestSetDeliveryDays(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	adminID := uuid.New()

	customer, err := svc.Create(ctx, adminID, CustomerInput{Name: "Corner Cafe"})
	require.NoError(t, err)
	address, err := svc.CreateAddress(ctx, adminID, AddressInput{
		CustomerID:     customer.ID,
		Line1:          "1 Baker St",
		DeliveryPolicy: enums.DeliveryPolicyFree,
	})
	require.NoError(t, err)

	updated, err := svc.SetDeliveryDays(ctx, adminID, address.ID, []enums.Weekday{enums.Monday, enums.Thursday})
	require.NoError(t, err)
	require.Len(t, updated.DeliveryDays, 2)

	// replacing shrinks the calendar
	updated, err = svc.SetDeliveryDays(ctx, adminID, address.ID, []enums.Weekday{enums.Friday})
	require.NoError(t, err)
	require.Len(t, updated.DeliveryDays, 1)
	require.Equal(t, enums.Friday, updated.DeliveryDays[0].Weekday)

	_, err = svc.SetDeliveryDays(ctx, adminID, address.ID, []enums.Weekday{enums.Monday, enums.Monday})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.SetDeliveryDays(ctx, adminID, address.ID, []enums.Weekday{enums.Weekday(9)})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

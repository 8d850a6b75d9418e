package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kamleshjangid/bakery-backend/internal/testdb"
	"github.com/kamleshjangid/bakery-backend/pkg/db/models"
	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	pkgerrors "github.com/kamleshjangid/bakery-backend/pkg/errors"
)

func newRulesService(t *testing.T, now time.Time) (*Service, *gorm.DB) {
	t.Helper()
	conn := testdb.Open(t)
	svc, err := NewService(NewRepository(conn), DefaultCutoff, func() time.Time { return now })
	require.NoError(t, err)
	return svc, conn
}

func TestNewServiceRejectsOutOfRangeCutoff(t *testing.T) {
	conn := testdb.Open(t)
	_, err := NewService(NewRepository(conn), Cutoff{Hour: 24, Minute: 0}, time.Now)
	require.Error(t, err)
	_, err = NewService(NewRepository(conn), Cutoff{Hour: 12, Minute: 60}, time.Now)
	require.Error(t, err)
	_, err = NewService(NewRepository(conn), Cutoff{Hour: -1, Minute: 30}, time.Now)
	require.Error(t, err)
}

func TestMidnightCutoffHonored(t *testing.T) {
	// monday just past midnight with a 00:00 cutoff: next-day ordering is
	// already open, so tuesday itself is the next date
	now := time.Date(2026, 8, 24, 0, 5, 0, 0, time.UTC)
	conn := testdb.Open(t)
	svc, err := NewService(NewRepository(conn), Cutoff{}, func() time.Time { return now })
	require.NoError(t, err)
	ctx := context.Background()

	addressID := uuid.New()
	require.NoError(t, conn.Create(&models.DeliveryDay{
		AddressID: addressID,
		Weekday:   enums.Tuesday,
		Enabled:   true,
	}).Error)

	next, err := svc.NextDate(ctx, addressID)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), next)
}

func TestRuleSetLifecycle(t *testing.T) {
	svc, _ := newRulesService(t, time.Now())
	ctx := context.Background()
	adminID := uuid.New()

	created, err := svc.CreateRuleSet(ctx, adminID, "metro", []TierInput{
		{Threshold: decimal.RequireFromString("100"), Charge: decimal.RequireFromString("8")},
		{Threshold: decimal.RequireFromString("50"), Charge: decimal.RequireFromString("5")},
	})
	require.NoError(t, err)
	require.Len(t, created.Tiers, 2)

	loaded, err := svc.GetRuleSet(ctx, adminID, created.ID)
	require.NoError(t, err)
	require.Equal(t, "metro", loaded.Name)

	// tenant isolation
	_, err = svc.GetRuleSet(ctx, uuid.New(), created.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	updated, err := svc.UpdateRuleSetTiers(ctx, adminID, created.ID, []TierInput{
		{Threshold: decimal.RequireFromString("30"), Charge: decimal.RequireFromString("3")},
	})
	require.NoError(t, err)
	require.Len(t, updated.Tiers, 1)
	require.True(t, updated.Tiers[0].Threshold.Equal(decimal.RequireFromString("30")))

	require.NoError(t, svc.DeleteRuleSet(ctx, adminID, created.ID))
	err = svc.DeleteRuleSet(ctx, adminID, created.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateRuleSetValidation(t *testing.T) {
	svc, _ := newRulesService(t, time.Now())
	ctx := context.Background()

	_, err := svc.CreateRuleSet(ctx, uuid.New(), "", []TierInput{{}})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateRuleSet(ctx, uuid.New(), "metro", nil)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateRuleSet(ctx, uuid.New(), "metro", []TierInput{
		{Threshold: decimal.RequireFromString("-1"), Charge: decimal.Zero},
	})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSnapshotFreezesTiers(t *testing.T) {
	svc, _ := newRulesService(t, time.Now())
	ctx := context.Background()
	adminID := uuid.New()

	created, err := svc.CreateRuleSet(ctx, adminID, "metro", []TierInput{
		{Threshold: decimal.RequireFromString("50"), Charge: decimal.RequireFromString("5")},
	})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx, adminID, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, snap.RuleSetID)
	require.Equal(t, "metro", snap.RuleName)
	require.Len(t, snap.Tiers, 1)

	// later edits leave the snapshot untouched
	_, err = svc.UpdateRuleSetTiers(ctx, adminID, created.ID, []TierInput{
		{Threshold: decimal.RequireFromString("10"), Charge: decimal.RequireFromString("1")},
		{Threshold: decimal.RequireFromString("20"), Charge: decimal.RequireFromString("2")},
	})
	require.NoError(t, err)
	require.Len(t, snap.Tiers, 1)
	require.True(t, snap.Tiers[0].Charge.Equal(decimal.RequireFromString("5")))
}

func TestCalendarAndNextDate(t *testing.T) {
	// monday morning, before the cutoff
	now := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	svc, conn := newRulesService(t, now)
	ctx := context.Background()

	addressID := uuid.New()
	for _, day := range []enums.Weekday{enums.Tuesday, enums.Friday} {
		require.NoError(t, conn.Create(&models.DeliveryDay{
			AddressID: addressID,
			Weekday:   day,
			Enabled:   true,
		}).Error)
	}

	calendar, err := svc.CalendarFor(ctx, addressID)
	require.NoError(t, err)
	require.True(t, calendar[enums.Tuesday])
	require.True(t, calendar[enums.Friday])
	require.False(t, calendar[enums.Monday])

	// tomorrow is enabled but the cutoff has not passed: skip to friday
	next, err := svc.NextDate(ctx, addressID)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), next)

	// no calendar at all
	_, err = svc.NextDate(ctx, uuid.New())
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

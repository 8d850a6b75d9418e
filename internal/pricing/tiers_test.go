package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

func tier(threshold, charge int64) types.RuleTier {
	return types.RuleTier{
		Threshold: decimal.NewFromInt(threshold),
		Charge:    decimal.NewFromInt(charge),
	}
}

func TestResolveTierCharge(t *testing.T) {
	t.Parallel()

	tiers := []types.RuleTier{tier(50, 5), tier(100, 8), tier(200, 12)}

	cases := []struct {
		subtotal int64
		want     int64
	}{
		{40, 0},
		{50, 5},
		{99, 5},
		{100, 8},
		{199, 8},
		{200, 12},
		{250, 12},
	}
	for _, tc := range cases {
		got := ResolveTierCharge(decimal.NewFromInt(tc.subtotal), tiers)
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("resolve(%d) = %s, want %d", tc.subtotal, got, tc.want)
		}
	}
}

func TestResolveTierChargeUnsortedInput(t *testing.T) {
	t.Parallel()

	tiers := []types.RuleTier{tier(200, 12), tier(50, 5), tier(100, 8)}
	got := ResolveTierCharge(decimal.NewFromInt(120), tiers)
	if !got.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected charge 8 after sorting, got %s", got)
	}
}

func TestResolveTierChargeEmpty(t *testing.T) {
	t.Parallel()

	if got := ResolveTierCharge(decimal.NewFromInt(500), nil); !got.IsZero() {
		t.Fatalf("empty schedule must charge zero, got %s", got)
	}
}

func TestResolveTierChargeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tiers := []types.RuleTier{tier(200, 12), tier(50, 5)}
	_ = ResolveTierCharge(decimal.NewFromInt(75), tiers)
	if !tiers[0].Threshold.Equal(decimal.NewFromInt(200)) {
		t.Fatal("input slice order must not change")
	}
}

func TestResolveTierChargeNonMonotonicPrices(t *testing.T) {
	t.Parallel()

	// prices per tier do not have to increase with the threshold
	tiers := []types.RuleTier{tier(50, 10), tier(100, 3)}
	got := ResolveTierCharge(decimal.NewFromInt(150), tiers)
	if !got.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected charge 3, got %s", got)
	}
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func allDays() [enums.DaysPerWeek]bool {
	return [enums.DaysPerWeek]bool{true, true, true, true, true, true, true}
}

func TestAggregateTotalsConsistency(t *testing.T) {
	t.Parallel()

	in := Input{
		Policy: enums.DeliveryPolicyFree,
		Lines: []Line{
			{
				Qty:            [enums.DaysPerWeek]int{2, 0, 3, 0, 0, 0, 1},
				WholesalePrice: dec("2.50"),
				RetailPrice:    dec("5.00"),
				GSTPercent:     dec("10"),
				WeightKg:       dec("0.700"),
			},
			{
				Qty:            [enums.DaysPerWeek]int{0, 4, 0, 0, 0, 0, 0},
				WholesalePrice: dec("1.20"),
				RetailPrice:    dec("2.40"),
				GSTPercent:     dec("0"),
				WeightKg:       dec("0.100"),
			},
		},
	}

	out := Aggregate(in)

	// 6 pieces of line one plus 4 of line two
	assert.Equal(t, 10, out.TotalPieces)
	// 6*2.50 + 4*1.20
	assert.True(t, out.ItemCost.Equal(dec("19.80")), "item cost %s", out.ItemCost)
	// 6*5.00 + 4*2.40
	assert.True(t, out.TotalRetailCost.Equal(dec("39.60")), "retail %s", out.TotalRetailCost)
	// GST only on line one: 15.00 * 10%
	assert.True(t, out.GSTAmount.Equal(dec("1.50")), "gst %s", out.GSTAmount)
	// 6*0.7 + 4*0.1
	assert.True(t, out.TotalWeightKg.Equal(dec("4.600")), "weight %s", out.TotalWeightKg)
	assert.True(t, out.DeliveryCharge.IsZero())
	assert.True(t, out.TotalCost.Equal(out.ItemCost))

	// per-day totals roll up exactly to the order totals
	pieces := 0
	cost := decimal.Zero
	for _, d := range enums.Weekdays() {
		pieces += out.Days[d].Quantity
		cost = cost.Add(out.Days[d].Cost)
	}
	assert.Equal(t, out.TotalPieces, pieces)
	assert.True(t, cost.Equal(out.ItemCost))
}

func TestAggregateFixedPriceAppliedOnce(t *testing.T) {
	t.Parallel()

	in := Input{
		Policy:     enums.DeliveryPolicyFixedPrice,
		FixedPrice: dec("7.50"),
		ActiveDays: allDays(),
		DeliveryOn: allDays(),
		Lines: []Line{
			{Qty: [enums.DaysPerWeek]int{1, 1, 1, 0, 0, 0, 0}, WholesalePrice: dec("10")},
		},
	}

	out := Aggregate(in)
	require.True(t, out.DeliveryCharge.Equal(dec("7.50")), "charge %s", out.DeliveryCharge)
	require.True(t, out.TotalCost.Equal(dec("37.50")), "total %s", out.TotalCost)
}

func TestAggregateTieredPerWeekday(t *testing.T) {
	t.Parallel()

	tiers := []types.RuleTier{
		{Threshold: dec("50"), Charge: dec("5")},
		{Threshold: dec("100"), Charge: dec("8")},
	}

	var active, deliveryOn, deliveryType [enums.DaysPerWeek]bool
	active[enums.Monday] = true
	active[enums.Tuesday] = true
	active[enums.Wednesday] = true
	deliveryOn = active
	deliveryType[enums.Monday] = true

	in := Input{
		Policy:       enums.DeliveryPolicyTieredRules,
		Tiers:        tiers,
		ActiveDays:   active,
		DeliveryOn:   deliveryOn,
		DeliveryType: deliveryType,
		Lines: []Line{
			// Mon cost 120, Tue cost 60, Wed cost 40
			{Qty: [enums.DaysPerWeek]int{12, 6, 4, 0, 0, 0, 0}, WholesalePrice: dec("10")},
		},
	}

	out := Aggregate(in)

	// Mon resolves to 8, Tue to 5, Wed below every threshold
	require.True(t, out.DeliveryCharge.Equal(dec("13")), "charge %s", out.DeliveryCharge)
	require.True(t, out.TotalCost.Equal(dec("233")), "total %s", out.TotalCost)

	// cost-with-delivery is only written where the caller's flag is set too
	assert.True(t, out.Days[enums.Monday].CostWithDelivery.Equal(dec("128")))
	assert.True(t, out.Days[enums.Tuesday].CostWithDelivery.Equal(dec("60")))
}

func TestAggregateTieredSkipsInactiveDays(t *testing.T) {
	t.Parallel()

	var active, deliveryOn [enums.DaysPerWeek]bool
	active[enums.Monday] = true
	// Tuesday has cost but is not an active delivery day
	deliveryOn[enums.Monday] = true
	deliveryOn[enums.Tuesday] = true

	in := Input{
		Policy:     enums.DeliveryPolicyTieredRules,
		Tiers:      []types.RuleTier{{Threshold: dec("10"), Charge: dec("2")}},
		ActiveDays: active,
		DeliveryOn: deliveryOn,
		Lines: []Line{
			{Qty: [enums.DaysPerWeek]int{5, 5, 0, 0, 0, 0, 0}, WholesalePrice: dec("10")},
		},
	}

	out := Aggregate(in)
	require.True(t, out.DeliveryCharge.Equal(dec("2")), "charge %s", out.DeliveryCharge)
}

func TestAggregateSkipsMissingItems(t *testing.T) {
	t.Parallel()

	in := Input{
		Policy: enums.DeliveryPolicyFree,
		Lines: []Line{
			{Qty: [enums.DaysPerWeek]int{5, 0, 0, 0, 0, 0, 0}, WholesalePrice: dec("3"), Missing: true},
			{Qty: [enums.DaysPerWeek]int{2, 0, 0, 0, 0, 0, 0}, WholesalePrice: dec("3")},
		},
	}

	out := Aggregate(in)
	assert.Equal(t, 1, out.SkippedLines)
	assert.Equal(t, 2, out.TotalPieces)
	assert.True(t, out.ItemCost.Equal(dec("6")), "cost %s", out.ItemCost)
}

func TestAggregateEmptyLines(t *testing.T) {
	t.Parallel()

	out := Aggregate(Input{Policy: enums.DeliveryPolicyFree})
	assert.Zero(t, out.TotalPieces)
	assert.True(t, out.ItemCost.IsZero())
	assert.True(t, out.TotalCost.IsZero())
}

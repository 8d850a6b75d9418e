package pricing

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

// ResolveTierCharge returns the delivery charge for a subtotal against a
// price-break schedule: the charge of the highest tier whose threshold is
// less than or equal to the subtotal. A subtotal below every threshold, or an
// empty schedule, yields zero. Tiers are sorted ascending by threshold before
// resolution; stored order is never trusted.
//
// A subtotal exactly equal to a threshold selects that tier, not the one
// below it.
func ResolveTierCharge(subtotal decimal.Decimal, tiers []types.RuleTier) decimal.Decimal {
	if len(tiers) == 0 {
		return decimal.Zero
	}

	sorted := make([]types.RuleTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold.LessThan(sorted[j].Threshold)
	})

	charge := decimal.Zero
	for _, tier := range sorted {
		if subtotal.LessThan(tier.Threshold) {
			break
		}
		charge = tier.Charge
	}
	return charge
}

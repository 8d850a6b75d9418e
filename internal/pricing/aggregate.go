package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/pkg/enums"
	"github.com/kamleshjangid/bakery-backend/pkg/types"
)

// Line is one order line as the aggregator sees it: weekday quantities plus
// the snapshotted unit prices. Missing marks a line whose item no longer
// resolves; it contributes nothing and is counted in Totals.SkippedLines.
type Line struct {
	Qty            [enums.DaysPerWeek]int
	WholesalePrice decimal.Decimal
	RetailPrice    decimal.Decimal
	GSTPercent     decimal.Decimal
	WeightKg       decimal.Decimal
	Missing        bool
}

// Input carries everything one aggregation pass needs. ActiveDays comes from
// the address's delivery calendar, DeliveryOn from the order's stored day
// summaries, DeliveryType from the caller's per-day flags.
type Input struct {
	Policy     enums.DeliveryPolicy
	FixedPrice decimal.Decimal
	Tiers      []types.RuleTier

	ActiveDays   [enums.DaysPerWeek]bool
	DeliveryOn   [enums.DaysPerWeek]bool
	DeliveryType [enums.DaysPerWeek]bool

	Lines []Line
}

// Totals is the full recomputed state for an order. Callers overwrite the
// persisted order with these values; nothing is patched incrementally.
type Totals struct {
	Days types.WeekSummaries

	TotalPieces     int
	ItemCost        decimal.Decimal
	DeliveryCharge  decimal.Decimal
	TotalCost       decimal.Decimal
	TotalRetailCost decimal.Decimal
	GSTAmount       decimal.Decimal
	TotalWeightKg   decimal.Decimal

	SkippedLines int
}

var oneHundred = decimal.NewFromInt(100)

// Aggregate recomputes an order's weekday summaries and totals from its lines.
//
// Per weekday it accumulates quantity, wholesale cost and retail value, then
// resolves the delivery charge per the order's policy: a fixed price is
// applied once to the whole order, tiered rules are resolved against each
// active weekday's own cost, and free delivery charges nothing.
func Aggregate(in Input) Totals {
	out := Totals{
		ItemCost:        decimal.Zero,
		DeliveryCharge:  decimal.Zero,
		TotalCost:       decimal.Zero,
		TotalRetailCost: decimal.Zero,
		GSTAmount:       decimal.Zero,
		TotalWeightKg:   decimal.Zero,
	}

	var (
		quantity [enums.DaysPerWeek]int
		cost     [enums.DaysPerWeek]decimal.Decimal
		retail   [enums.DaysPerWeek]decimal.Decimal
	)
	for d := range cost {
		cost[d] = decimal.Zero
		retail[d] = decimal.Zero
	}

	for _, line := range in.Lines {
		if line.Missing {
			out.SkippedLines++
			continue
		}
		lineQty := 0
		for d, q := range line.Qty {
			if q <= 0 {
				continue
			}
			qty := decimal.NewFromInt(int64(q))
			quantity[d] += q
			cost[d] = cost[d].Add(line.WholesalePrice.Mul(qty))
			retail[d] = retail[d].Add(line.RetailPrice.Mul(qty))
			lineQty += q
		}
		if lineQty > 0 {
			lineTotal := decimal.NewFromInt(int64(lineQty))
			lineCost := line.WholesalePrice.Mul(lineTotal)
			out.GSTAmount = out.GSTAmount.Add(lineCost.Mul(line.GSTPercent).Div(oneHundred))
			out.TotalWeightKg = out.TotalWeightKg.Add(line.WeightKg.Mul(lineTotal))
		}
	}

	for _, d := range enums.Weekdays() {
		out.TotalPieces += quantity[d]
		out.ItemCost = out.ItemCost.Add(cost[d])
		out.TotalRetailCost = out.TotalRetailCost.Add(retail[d])

		out.Days[d] = types.WeekdaySummary{
			Quantity:         quantity[d],
			Cost:             cost[d],
			DeliveryOn:       in.DeliveryOn[d],
			CostWithDelivery: cost[d],
			RetailValue:      retail[d],
		}
	}

	switch in.Policy {
	case enums.DeliveryPolicyFixedPrice:
		out.DeliveryCharge = in.FixedPrice
	case enums.DeliveryPolicyTieredRules:
		for _, d := range enums.Weekdays() {
			if !in.ActiveDays[d] || !in.DeliveryOn[d] {
				continue
			}
			charge := ResolveTierCharge(cost[d], in.Tiers)
			out.DeliveryCharge = out.DeliveryCharge.Add(charge)
			if in.DeliveryType[d] {
				out.Days[d].CostWithDelivery = cost[d].Add(charge)
			}
		}
	case enums.DeliveryPolicyFree:
		// nothing to charge
	}

	out.TotalCost = out.ItemCost.Add(out.DeliveryCharge)
	return out
}

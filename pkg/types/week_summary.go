package types

import (
	"github.com/shopspring/decimal"

	"github.com/kamleshjangid/bakery-backend/pkg/enums"
)

// WeekdaySummary is the per-day rollup stored on a standing order. Cost fields
// are always recomputed from the order's lines, never patched incrementally.
type WeekdaySummary struct {
	Quantity         int             `json:"quantity"`
	Cost             decimal.Decimal `json:"cost"`
	DeliveryOn       bool            `json:"delivery_on"`
	CostWithDelivery decimal.Decimal `json:"cost_with_delivery"`
	RetailValue      decimal.Decimal `json:"retail_value"`
}

// WeekSummaries holds one WeekdaySummary per weekday, Monday first.
type WeekSummaries [enums.DaysPerWeek]WeekdaySummary

// At returns the summary for the given weekday.
func (w WeekSummaries) At(day enums.Weekday) WeekdaySummary {
	return w[day]
}

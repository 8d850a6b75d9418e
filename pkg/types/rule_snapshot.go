package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleTier is a single price break: orders whose subtotal reaches Threshold
// pay Charge for delivery (until a higher tier matches).
type RuleTier struct {
	Threshold decimal.Decimal `json:"threshold"`
	Charge    decimal.Decimal `json:"charge"`
}

// RuleSnapshot is the frozen copy of a delivery rule set stored on an order at
// computation time. Later edits to the live rule set must not change charges
// already persisted, so orders only ever read their own snapshot.
type RuleSnapshot struct {
	RuleSetID uuid.UUID  `json:"rule_set_id"`
	RuleName  string     `json:"rule_name"`
	Tiers     []RuleTier `json:"tiers"`
}

// IsZero reports whether no rule set was snapshotted.
func (r RuleSnapshot) IsZero() bool {
	return r.RuleSetID == uuid.Nil && r.RuleName == "" && len(r.Tiers) == 0
}

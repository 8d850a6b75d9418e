package enums

import "fmt"

// DeliveryPolicy selects how an address's delivery charge is computed.
type DeliveryPolicy string

const (
	DeliveryPolicyFixedPrice  DeliveryPolicy = "fixed_price"
	DeliveryPolicyTieredRules DeliveryPolicy = "tiered_rules"
	DeliveryPolicyFree        DeliveryPolicy = "free"
)

var validDeliveryPolicies = []DeliveryPolicy{
	DeliveryPolicyFixedPrice,
	DeliveryPolicyTieredRules,
	DeliveryPolicyFree,
}

// String implements fmt.Stringer.
func (d DeliveryPolicy) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryPolicy.
func (d DeliveryPolicy) IsValid() bool {
	for _, candidate := range validDeliveryPolicies {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryPolicy converts raw input into a DeliveryPolicy.
func ParseDeliveryPolicy(value string) (DeliveryPolicy, error) {
	for _, candidate := range validDeliveryPolicies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery policy %q", value)
}

package enums

// OrderSource identifies which order feeds a customer's day view: the dated
// cart when one exists, otherwise the standing order template, otherwise none.
type OrderSource string

const (
	OrderSourceCart     OrderSource = "cart"
	OrderSourceStanding OrderSource = "standing"
	OrderSourceNone     OrderSource = "none"
)

// String implements fmt.Stringer.
func (o OrderSource) String() string {
	return string(o)
}

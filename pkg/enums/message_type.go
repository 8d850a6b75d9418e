package enums

// MessageType tells the caller whether an order submission created a new
// record or refreshed an existing one.
type MessageType string

const (
	MessageTypeInsert MessageType = "insert"
	MessageTypeUpdate MessageType = "update"
)

// String implements fmt.Stringer.
func (m MessageType) String() string {
	return string(m)
}

package enums

// LateType marks a cart line whose quantity changed after the ordering cutoff.
// It is an audit marker only and never blocks the update.
type LateType string

const (
	LateTypeNone LateType = ""
	LateTypeLate LateType = "late"
)

// String implements fmt.Stringer.
func (l LateType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LateType.
func (l LateType) IsValid() bool {
	return l == LateTypeNone || l == LateTypeLate
}

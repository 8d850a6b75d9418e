package enums

// PublishedStatus tracks whether a cart order has been invoiced.
type PublishedStatus int

const (
	PublishedStatusDraft     PublishedStatus = 0
	PublishedStatusPublished PublishedStatus = 1
)

// IsValid reports whether the value is a known PublishedStatus.
func (p PublishedStatus) IsValid() bool {
	return p == PublishedStatusDraft || p == PublishedStatusPublished
}

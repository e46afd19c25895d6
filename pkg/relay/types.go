package relay

// MediaRef identifies one downloadable attachment on the source platform.
type MediaRef struct {
	FileID string
	Size   int64
}

// InboundMessage is one new post picked up from a monitored channel. It is
// not persisted and carries no relationship to prior messages; it exists for
// exactly one routing cycle.
type InboundMessage struct {
	ID     int
	ChatID int64
	Text   string
	Media  *MediaRef
}

// DeliveryStatus classifies how one destination attempt ended.
type DeliveryStatus string

const (
	StatusDelivered DeliveryStatus = "delivered"
	StatusSkipped   DeliveryStatus = "skipped"
	StatusFailed    DeliveryStatus = "failed"
)

// Delivery is the outcome of one destination attempt.
type Delivery struct {
	Status DeliveryStatus
	Detail string
}

// Outcome reports the processed text and both destination attempts for one
// inbound message.
type Outcome struct {
	Text string
	Log  Delivery
	Post Delivery
}

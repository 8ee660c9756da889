package domain

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusDelivered Status = "delivered"
)

// Step is the wizard's main state. ViewingHistory is an orthogonal flag on
// the session, not a Step, so an open history panel never clobbers the
// underlying progress.
type Step string

const (
	StepSelectingItem    Step = "selecting_item"
	StepEnteringDelivery Step = "entering_delivery"
	StepSubmitting       Step = "submitting"
	StepConfirmed        Step = "confirmed"
)

// Next returns the following delivery status. The only legal path is
// confirmed -> preparing -> delivered; delivered is terminal.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusConfirmed:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusDelivered, true
	default:
		return s, false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	_, ok := s.Next()
	return !ok
}

// ParseStatus validates a persisted status string.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusConfirmed, StatusPreparing, StatusDelivered:
		return Status(raw), true
	default:
		return "", false
	}
}

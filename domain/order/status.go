package order

// Status Order status enum
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusFailed     Status = "failed"
)

// transitions lists the legal next states for each state.
// delivered, cancelled and failed are absorbing.
var transitions = map[Status][]Status{
	StatusPending:    {StatusPaid, StatusProcessing, StatusCancelled, StatusFailed},
	StatusPaid:       {StatusProcessing},
	StatusProcessing: {StatusShipped, StatusCancelled, StatusFailed},
	StatusShipped:    {StatusDelivered},
}

// AllStatuses in lifecycle order.
var AllStatuses = []Status{
	StatusPending, StatusPaid, StatusProcessing, StatusShipped,
	StatusDelivered, StatusCancelled, StatusFailed,
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// CanTransitionTo reports whether to is a legal next state.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CountsAsRevenue reports whether an order in this state has been paid for
// and not failed or cancelled.
func (s Status) CountsAsRevenue() bool {
	switch s {
	case StatusPaid, StatusProcessing, StatusShipped, StatusDelivered:
		return true
	default:
		return false
	}
}

func (s Status) String() string { return string(s) }

// defaultDescription is the history text recorded when the caller gives none.
func (s Status) defaultDescription() string {
	switch s {
	case StatusPending:
		return "Order received"
	case StatusPaid:
		return "Payment completed"
	case StatusProcessing:
		return "Order is being prepared"
	case StatusShipped:
		return "Order shipped"
	case StatusDelivered:
		return "Order delivered"
	case StatusCancelled:
		return "Order cancelled"
	case StatusFailed:
		return "Payment failed"
	default:
		return string(s)
	}
}

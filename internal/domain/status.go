package domain

// TransactionStatus is the lifecycle state of a sales order as seen by the
// fulfillment pipeline.
type TransactionStatus string

const (
	StatusCart      TransactionStatus = "cart"
	StatusPending   TransactionStatus = "pending"
	StatusChallenge TransactionStatus = "challenge"
	StatusPaid      TransactionStatus = "paid"
	StatusFailed    TransactionStatus = "failed"
	StatusCanceled  TransactionStatus = "canceled"
	StatusExpired   TransactionStatus = "expired"
	StatusFraud     TransactionStatus = "fraud"
	StatusRefunded  TransactionStatus = "refunded"
)

// AllStatuses lists every known status in lifecycle order.
var AllStatuses = []TransactionStatus{
	StatusCart, StatusPending, StatusChallenge, StatusPaid, StatusFailed,
	StatusCanceled, StatusExpired, StatusFraud, StatusRefunded,
}

// transitions is the allowed-move table. A status missing from the map (or
// mapped to an empty list) is terminal for this pipeline, except that paid
// may still move to refunded, which only the refund subsystem does.
var transitions = map[TransactionStatus][]TransactionStatus{
	StatusCart: {
		StatusPending, StatusChallenge, StatusPaid, StatusFailed,
		StatusCanceled, StatusExpired, StatusFraud,
	},
	StatusPending: {
		StatusChallenge, StatusPaid, StatusFailed,
		StatusCanceled, StatusExpired, StatusFraud,
	},
	StatusChallenge: {
		StatusPaid, StatusFailed, StatusCanceled, StatusExpired, StatusFraud,
	},
	StatusPaid: {StatusRefunded},
}

// IsValid reports whether s is one of the known statuses.
func (s TransactionStatus) IsValid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// String returns the raw status value.
func (s TransactionStatus) String() string { return string(s) }

// IsTerminal reports whether no further automatic processing happens once a
// transaction reaches s.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusPaid, StatusFailed, StatusCanceled, StatusExpired, StatusFraud, StatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to target is allowed.
// Staying in the same status is not a transition.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// SourcesFor returns every status from which target may be reached. The
// repository uses it to build the guard of a conditional status update.
func SourcesFor(target TransactionStatus) []TransactionStatus {
	var out []TransactionStatus
	for _, from := range AllStatuses {
		if from.CanTransitionTo(target) {
			out = append(out, from)
		}
	}
	return out
}

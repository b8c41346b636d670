// Package payment holds the gateway-facing pieces of the fulfillment
// pipeline: notification parsing, signature verification, and the single
// status mapping table used by both the webhook and the direct confirmation
// path.
package payment

import (
	"strings"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

// anyFraud matches every fraud_status value, including an empty one.
const anyFraud = "*"

type rule struct {
	status string
	fraud  string
	to     domain.TransactionStatus
}

// notificationRules maps (transaction_status, fraud_status) pairs pushed by
// the gateway. Order matters: the first matching rule wins.
var notificationRules = []rule{
	{"capture", "challenge", domain.StatusChallenge},
	{"capture", "accept", domain.StatusPaid},
	{"capture", "deny", domain.StatusFraud},
	{"settlement", anyFraud, domain.StatusPaid},
	{"pending", anyFraud, domain.StatusPending},
	{"deny", anyFraud, domain.StatusFailed},
	{"cancel", anyFraud, domain.StatusCanceled},
	{"expire", anyFraud, domain.StatusExpired},
	{"failure", anyFraud, domain.StatusFailed},
}

// directRules maps the status the client reports after the gateway's
// client-side flow completes.
var directRules = map[string]domain.TransactionStatus{
	"success": domain.StatusPaid,
}

// MapNotification returns the internal status for a gateway notification.
// ok is false for combinations the pipeline does not act on.
func MapNotification(transactionStatus, fraudStatus string) (status domain.TransactionStatus, ok bool) {
	ts := normalize(transactionStatus)
	fs := normalize(fraudStatus)
	for _, r := range notificationRules {
		if r.status != ts {
			continue
		}
		if r.fraud == anyFraud || r.fraud == fs {
			return r.to, true
		}
	}
	return "", false
}

// MapDirectStatus returns the internal status for a client-reported
// confirmation status. Only "success" is accepted.
func MapDirectStatus(status string) (domain.TransactionStatus, bool) {
	s, ok := directRules[normalize(status)]
	return s, ok
}

// Grants reports whether reaching s entitles the buyer to the purchased
// products.
func Grants(s domain.TransactionStatus) bool { return s == domain.StatusPaid }

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

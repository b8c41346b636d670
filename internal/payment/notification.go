package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed is returned when a notification body cannot be decoded or
// lacks the fields needed to verify it.
var ErrMalformed = errors.New("malformed notification")

// Notification is the subset of the gateway's HTTP notification payload the
// pipeline reads. Raw keeps the exact body for the audit trail.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time"`
	Currency          string `json:"currency"`

	Raw []byte `json:"-"`
}

// ParseNotification decodes a raw notification body. order_id,
// status_code, gross_amount and signature_key are required.
func ParseNotification(raw []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"order_id", n.OrderID},
		{"status_code", n.StatusCode},
		{"gross_amount", n.GrossAmount},
		{"signature_key", n.SignatureKey},
	} {
		if strings.TrimSpace(f.v) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Notification{}, fmt.Errorf("%w: missing %s", ErrMalformed, strings.Join(missing, ", "))
	}
	n.Raw = append([]byte(nil), raw...)
	return n, nil
}

// Amount parses GrossAmount ("150000.00").
func (n Notification) Amount() (decimal.Decimal, error) {
	return ParseAmount(n.GrossAmount)
}

// ParseAmount parses a gateway amount string.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: gross_amount %q", ErrMalformed, s)
	}
	return d, nil
}

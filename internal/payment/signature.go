package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrInvalidSignature is returned when a notification's signature_key does
// not match the one computed with the server key.
var ErrInvalidSignature = errors.New("invalid signature")

// Verifier checks notification authenticity using the gateway's scheme:
// hex(SHA-512(order_id + status_code + gross_amount + server_key)).
type Verifier struct {
	ServerKey string
}

// NewVerifier returns a Verifier for serverKey.
func NewVerifier(serverKey string) *Verifier { return &Verifier{ServerKey: serverKey} }

// Sign computes the expected signature for the given fields.
func (v *Verifier) Sign(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + v.ServerKey))
	return hex.EncodeToString(sum[:])
}

// Verify returns ErrInvalidSignature unless n carries the expected
// signature. An empty server key never verifies.
func (v *Verifier) Verify(n Notification) error {
	if v == nil || v.ServerKey == "" {
		return ErrInvalidSignature
	}
	want := v.Sign(n.OrderID, n.StatusCode, n.GrossAmount)
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

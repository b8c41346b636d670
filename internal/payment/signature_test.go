package payment

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_SignMatchesGatewayScheme(t *testing.T) {
	v := NewVerifier("SB-Mid-server-xyz")
	sum := sha512.Sum512([]byte("ORDER-1" + "200" + "150000.00" + "SB-Mid-server-xyz"))
	assert.Equal(t, hex.EncodeToString(sum[:]), v.Sign("ORDER-1", "200", "150000.00"))
}

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier("secret")
	n := Notification{OrderID: "ORDER-1", StatusCode: "200", GrossAmount: "150000.00"}
	n.SignatureKey = v.Sign(n.OrderID, n.StatusCode, n.GrossAmount)

	require.NoError(t, v.Verify(n))

	upper := n
	upper.SignatureKey = strings.ToUpper(n.SignatureKey)
	assert.NoError(t, v.Verify(upper), "hex case must not matter")

	tampered := n
	tampered.GrossAmount = "1.00"
	assert.ErrorIs(t, v.Verify(tampered), ErrInvalidSignature)

	wrongKey := NewVerifier("other")
	assert.ErrorIs(t, wrongKey.Verify(n), ErrInvalidSignature)

	assert.ErrorIs(t, NewVerifier("").Verify(n), ErrInvalidSignature)
	var nilV *Verifier
	assert.ErrorIs(t, nilV.Verify(n), ErrInvalidSignature)
}

func TestParseNotification(t *testing.T) {
	raw := []byte(`{"order_id":"ORDER-1","status_code":"200","gross_amount":"150000.00",
		"signature_key":"abc","transaction_status":"settlement","fraud_status":"accept",
		"transaction_id":"gw-1","payment_type":"bank_transfer"}`)

	n, err := ParseNotification(raw)
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", n.OrderID)
	assert.Equal(t, "settlement", n.TransactionStatus)
	assert.Equal(t, "accept", n.FraudStatus)
	assert.Equal(t, "gw-1", n.TransactionID)
	assert.Equal(t, raw, n.Raw)

	amt, err := n.Amount()
	require.NoError(t, err)
	assert.True(t, amt.Equal(decimal.NewFromInt(150000)))
}

func TestParseNotification_Malformed(t *testing.T) {
	_, err := ParseNotification([]byte(`{not json`))
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = ParseNotification([]byte(`{"order_id":"ORDER-1","status_code":"200"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "gross_amount, signature_key")

	_, err = ParseAmount("12,5")
	assert.ErrorIs(t, err, ErrMalformed)
}

package domain

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationOutcome records what a verified gateway notification did to its
// transaction.
type NotificationOutcome string

const (
	// OutcomeApplied means the mapped status was written.
	OutcomeApplied NotificationOutcome = "applied"
	// OutcomeUnchanged means the transaction already had the mapped status.
	OutcomeUnchanged NotificationOutcome = "unchanged"
	// OutcomeIgnoredRegression means the transaction was already terminal and
	// the mapped status was not applied.
	OutcomeIgnoredRegression NotificationOutcome = "ignored_regression"
	// OutcomeUnmapped means the gateway status pair has no internal mapping.
	OutcomeUnmapped NotificationOutcome = "unmapped"
	// OutcomeAmountMismatch means a paid notification carried a gross amount
	// different from the transaction total.
	OutcomeAmountMismatch NotificationOutcome = "amount_mismatch"
)

// PaymentNotification is the audit record of one signature-verified gateway
// notification for a known transaction. Every delivery is kept, including
// duplicates and ones that did not change the status, so that the history
// can be replayed.
type PaymentNotification struct {
	ID                string              `json:"id"                 gorm:"type:char(36);primaryKey"`
	TransactionID     string              `json:"transaction_id"     gorm:"type:char(36);not null;index:idx_notif_tx,priority:1"`
	OrderRef          string              `json:"order_ref"          gorm:"type:varchar(64);not null;index"`
	GatewayTxID       string              `json:"gateway_tx_id"      gorm:"type:varchar(64)"`
	TransactionStatus string              `json:"transaction_status" gorm:"type:varchar(32);not null"`
	FraudStatus       string              `json:"fraud_status"       gorm:"type:varchar(32)"`
	StatusCode        string              `json:"status_code"        gorm:"type:varchar(8)"`
	GrossAmount       string              `json:"gross_amount"       gorm:"type:varchar(32)"`
	MappedStatus      TransactionStatus   `json:"mapped_status"      gorm:"type:varchar(16)"`
	Outcome           NotificationOutcome `json:"outcome"            gorm:"type:varchar(32);not null"`
	Payload           datatypes.JSON      `json:"payload"`
	ReceivedAt        time.Time           `json:"received_at"        gorm:"not null;index:idx_notif_tx,priority:2"`
}

// TableName returns the database table name for PaymentNotification.
func (PaymentNotification) TableName() string { return "payment_notifications" }

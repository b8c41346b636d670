// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Transaction aggregate (transactions and their line items).
//
// Status changes never read-then-write. TransitionStatus issues a single
// conditional UPDATE whose WHERE clause lists the statuses from which the
// target is reachable, so two callers racing on the same order cannot both
// win and a terminal status can never be overwritten by a lesser one.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

// StatusChange describes a guarded status update of one transaction.
type StatusChange struct {
	Target  domain.TransactionStatus
	Payload datatypes.JSON
	At      time.Time
}

// CreateTransaction inserts t and its line items. IDs are generated for
// rows that do not have one yet.
func CreateTransaction(ctx context.Context, db *gorm.DB, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	for i := range t.LineItems {
		if t.LineItems[i].ID == "" {
			t.LineItems[i].ID = uuid.NewString()
		}
		t.LineItems[i].TransactionID = t.ID
	}
	return db.WithContext(ctx).Create(t).Error
}

// GetTransaction loads a transaction by id with its ordered line items and
// their products. Returns ErrNotFound when missing.
func GetTransaction(ctx context.Context, db *gorm.DB, id string) (*domain.Transaction, error) {
	var t domain.Transaction
	err := withLineItems(db.WithContext(ctx)).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTransactionByOrderRef loads a transaction by its gateway order
// reference. Returns ErrNotFound when missing.
func GetTransactionByOrderRef(ctx context.Context, db *gorm.DB, orderRef string) (*domain.Transaction, error) {
	var t domain.Transaction
	err := withLineItems(db.WithContext(ctx)).
		Where("order_ref = ?", orderRef).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTransactionStatus reads only the current status of a transaction.
func GetTransactionStatus(ctx context.Context, db *gorm.DB, id string) (domain.TransactionStatus, error) {
	var t domain.Transaction
	err := db.WithContext(ctx).
		Select("id", "status").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		return "", err
	}
	return t.Status, nil
}

// TransitionStatus moves transaction id to ch.Target if and only if its
// current status is one from which the target is reachable. It reports
// whether this call performed the move; false with a nil error means some
// other writer got there first or the current status forbids the move.
//
// The payload is written to the snapshot column of the target's outcome
// category. A move to paid also clears the pending and error snapshots and
// stamps PaidAt.
func TransitionStatus(ctx context.Context, db *gorm.DB, id string, ch StatusChange) (bool, error) {
	sources := domain.SourcesFor(ch.Target)
	if len(sources) == 0 {
		return false, nil
	}
	at := ch.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	updates := map[string]any{
		"status":     ch.Target,
		"updated_at": at,
	}
	switch ch.Target {
	case domain.StatusPaid:
		updates["success_payload"] = payloadOrNil(ch.Payload)
		updates["pending_payload"] = nil
		updates["error_payload"] = nil
		updates["paid_at"] = at
	case domain.StatusPending, domain.StatusChallenge:
		updates["pending_payload"] = payloadOrNil(ch.Payload)
	default:
		updates["error_payload"] = payloadOrNil(ch.Payload)
	}

	res := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ? AND status IN ?", id, sources).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListLineItems returns a transaction's line items in position order with
// their products loaded.
func ListLineItems(ctx context.Context, db *gorm.DB, transactionID string) ([]domain.LineItem, error) {
	var out []domain.LineItem
	err := db.WithContext(ctx).
		Preload("Product").
		Where("transaction_id = ?", transactionID).
		Order("position ASC").
		Find(&out).Error
	return out, err
}

// ListSellerLineItems returns the physical line items of a transaction whose
// product belongs to sellerID.
func ListSellerLineItems(ctx context.Context, db *gorm.DB, transactionID, sellerID string) ([]domain.LineItem, error) {
	var out []domain.LineItem
	err := db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN products ON products.id = line_items.product_id").
		Where("line_items.transaction_id = ? AND products.seller_id = ? AND products.format = ?",
			transactionID, sellerID, domain.FormatPhysical).
		Order("line_items.position ASC").
		Find(&out).Error
	return out, err
}

func withLineItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LineItems", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("LineItems.Product")
}

// payloadOrNil keeps empty snapshots as SQL NULL.
func payloadOrNil(p datatypes.JSON) any {
	if len(p) == 0 {
		return nil
	}
	return p
}

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

// CreateNotification appends one gateway notification to the audit trail.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.PaymentNotification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.ReceivedAt.IsZero() {
		n.ReceivedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(n).Error
}

// ListNotifications returns the audit trail of a transaction, oldest first.
func ListNotifications(ctx context.Context, db *gorm.DB, transactionID string) ([]domain.PaymentNotification, error) {
	var out []domain.PaymentNotification
	err := db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("received_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

// ShipmentFilter scopes shipment queries to a caller. A shipment is visible
// when the caller bought the parent transaction or is the shipment's seller.
type ShipmentFilter struct {
	CallerID string
	Status   domain.ShipmentStatus // empty means any
}

func (f ShipmentFilter) apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&domain.Shipment{}).
		Joins("JOIN transactions ON transactions.id = shipments.transaction_id").
		Where("(transactions.customer_id = ? OR shipments.seller_id = ?)", f.CallerID, f.CallerID)
	if f.Status != "" {
		q = q.Where("shipments.status = ?", f.Status)
	}
	return q
}

// CreateShipments inserts all rows with the given handle. Callers pass a
// transaction handle so the set is committed or rolled back as a unit. A
// unique violation on (transaction_id, seller_id) returns ErrDuplicate.
func CreateShipments(ctx context.Context, db *gorm.DB, rows []domain.Shipment) error {
	if len(rows) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Omit("Transaction").Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// CountShipmentsForTransaction returns the number of shipments of one
// transaction.
func CountShipmentsForTransaction(ctx context.Context, db *gorm.DB, transactionID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Shipment{}).
		Where("transaction_id = ?", transactionID).
		Count(&n).Error
	return n, err
}

// ListShipmentsForTransaction returns a transaction's shipments by seller.
func ListShipmentsForTransaction(ctx context.Context, db *gorm.DB, transactionID string) ([]domain.Shipment, error) {
	var out []domain.Shipment
	err := db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("seller_id ASC").
		Find(&out).Error
	return out, err
}

// CountShipments returns the total number of shipments visible under f.
func CountShipments(ctx context.Context, db *gorm.DB, f ShipmentFilter) (int64, error) {
	var n int64
	err := f.apply(db.WithContext(ctx)).Count(&n).Error
	return n, err
}

// ListShipmentsPage returns a page of shipments visible under f, newest
// first. Use CountShipments for the pagination total.
func ListShipmentsPage(ctx context.Context, db *gorm.DB, f ShipmentFilter, offset, limit int) ([]domain.Shipment, error) {
	var out []domain.Shipment
	err := f.apply(db.WithContext(ctx)).
		Order("shipments.created_at DESC, shipments.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetShipment loads a shipment with its parent transaction (without line
// items). Returns ErrNotFound when missing.
func GetShipment(ctx context.Context, db *gorm.DB, id string) (*domain.Shipment, error) {
	var s domain.Shipment
	err := db.WithContext(ctx).
		Preload("Transaction").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

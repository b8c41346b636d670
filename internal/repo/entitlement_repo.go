package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

var ownerConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
	DoNothing: true,
}

// EnsureEntitlement creates the (customerID, productID) entitlement unless
// one already exists. created reports whether this call inserted the row.
//
// The insert carries ON CONFLICT DO NOTHING against ux_entitlement_owner; a
// unique violation that still surfaces (for example from a concurrent
// insert on a driver that ignores the clause) is reported as not created.
func EnsureEntitlement(ctx context.Context, db *gorm.DB, customerID, productID, sourceTxID string) (created bool, err error) {
	e := &domain.Entitlement{
		ID:                  uuid.NewString(),
		CustomerID:          customerID,
		ProductID:           productID,
		AccessKey:           newAccessKey(),
		SourceTransactionID: sourceTxID,
		CreatedAt:           time.Now().UTC(),
	}
	res := db.WithContext(ctx).Clauses(ownerConflict).Create(e)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// EnsureReadingProgress creates a zero-progress row for (customerID,
// productID) unless one exists. Existing rows are never touched.
func EnsureReadingProgress(ctx context.Context, db *gorm.DB, customerID, productID string) (created bool, err error) {
	now := time.Now().UTC()
	rp := &domain.ReadingProgress{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		ProductID:  productID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	res := db.WithContext(ctx).Clauses(ownerConflict).Create(rp)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountEntitlements returns how many products customerID owns.
func CountEntitlements(ctx context.Context, db *gorm.DB, customerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Entitlement{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error
	return total, err
}

// ListEntitlementsPage returns a page of customerID's entitlements, newest
// first.
func ListEntitlementsPage(ctx context.Context, db *gorm.DB, customerID string, offset, limit int) ([]domain.Entitlement, error) {
	var out []domain.Entitlement
	err := db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetReadingProgress fetches the progress row for (customerID, productID).
func GetReadingProgress(ctx context.Context, db *gorm.DB, customerID, productID string) (*domain.ReadingProgress, error) {
	var rp domain.ReadingProgress
	err := db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&rp).Error
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

func newAccessKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

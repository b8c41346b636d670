// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

// ShipmentsStats returns the number of shipments visible under f and the
// greatest UpdatedAt among them. When nothing is visible the count is 0 and
// maxUpdatedAt is nil.
func ShipmentsStats(ctx context.Context, db *gorm.DB, f ShipmentFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = f.apply(db.WithContext(ctx)).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	err = f.apply(db.WithContext(ctx)).
		Select("shipments.updated_at AS updated_at").
		Order("shipments.updated_at DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// EntitlementsStats returns the number of entitlements a customer owns and
// the newest CreatedAt (entitlements are never updated).
func EntitlementsStats(ctx context.Context, db *gorm.DB, customerID string) (count int64, maxCreatedAt *time.Time, err error) {
	q := func() *gorm.DB {
		return db.WithContext(ctx).Model(&domain.Entitlement{}).Where("customer_id = ?", customerID)
	}
	if err = q().Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}
	var row struct {
		CreatedAt time.Time
	}
	if err = q().Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}

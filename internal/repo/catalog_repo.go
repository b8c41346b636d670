package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

// BundleProductIDs returns the member product ids of a bundle, sorted.
// An unknown bundle yields an empty slice.
func BundleProductIDs(ctx context.Context, db *gorm.DB, bundleID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.BundleItem{}).
		Where("bundle_id = ?", bundleID).
		Order("product_id ASC").
		Pluck("product_id", &ids).Error
	return ids, err
}

// GetSeller fetches a seller by id.
func GetSeller(ctx context.Context, db *gorm.DB, id string) (*domain.Seller, error) {
	var s domain.Seller
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// upsertByID inserts a row or, when the id exists, rewrites only cols.
// created_at is never in cols so a re-seed keeps the original timestamp.
func upsertByID(cols ...string) clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}
}

// UpsertCatalog writes sellers, products and bundles (with their items) in
// one database transaction. It backs the seed command and test fixtures;
// the admin side owns the catalog in production.
//
// A bundle's membership is replaced by the items given for it, and the
// bundle row is written before its items so the foreign key resolves.
func UpsertCatalog(ctx context.Context, db *gorm.DB, sellers []domain.Seller, products []domain.Product, bundles []domain.Bundle) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range sellers {
			if err := tx.Clauses(upsertByID("name", "city")).Create(&sellers[i]).Error; err != nil {
				return err
			}
		}
		for i := range products {
			if err := tx.Omit("Seller").
				Clauses(upsertByID("seller_id", "title", "format", "price")).
				Create(&products[i]).Error; err != nil {
				return err
			}
		}
		for i := range bundles {
			b := &bundles[i]
			if err := tx.Omit("Items").Clauses(upsertByID("title", "price")).Create(b).Error; err != nil {
				return err
			}
			if err := tx.Where("bundle_id = ?", b.ID).Delete(&domain.BundleItem{}).Error; err != nil {
				return err
			}
			if len(b.Items) == 0 {
				continue
			}
			items := make([]domain.BundleItem, len(b.Items))
			for j, it := range b.Items {
				items[j] = domain.BundleItem{BundleID: b.ID, ProductID: it.ProductID}
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func newMigratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

// seedCatalog writes sellers A and B, physical P1 (A) and P2 (B), digital
// P3 (A) and P4 (B), and bundle B1 = {P3, P4}.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	sellers := []domain.Seller{{ID: "A", Name: "Seller A"}, {ID: "B", Name: "Seller B"}}
	products := []domain.Product{
		{ID: "P1", SellerID: "A", Title: "Paper One", Format: domain.FormatPhysical, Price: decimal.NewFromInt(100000)},
		{ID: "P2", SellerID: "B", Title: "Paper Two", Format: domain.FormatPhysical, Price: decimal.NewFromInt(80000)},
		{ID: "P3", SellerID: "A", Title: "Ebook Three", Format: domain.FormatDigital, Price: decimal.NewFromInt(50000)},
		{ID: "P4", SellerID: "B", Title: "Ebook Four", Format: domain.FormatDigital, Price: decimal.NewFromInt(40000)},
	}
	bundles := []domain.Bundle{{
		ID: "B1", Title: "Ebook pair", Price: decimal.NewFromInt(75000),
		Items: []domain.BundleItem{{BundleID: "B1", ProductID: "P3"}, {BundleID: "B1", ProductID: "P4"}},
	}}
	if err := UpsertCatalog(context.Background(), db, sellers, products, bundles); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
}

// seedT1 creates the P1 + P2 + B1 order for customer "cust-1".
func seedT1(t *testing.T, db *gorm.DB, orderRef string) *domain.Transaction {
	t.Helper()
	l1, _ := domain.NewLineItem("P1", "", 1, decimal.NewFromInt(100000))
	l2, _ := domain.NewLineItem("P2", "", 1, decimal.NewFromInt(80000))
	l3, _ := domain.NewLineItem("", "B1", 1, decimal.NewFromInt(75000))
	tx, err := domain.NewTransaction("cust-1", orderRef, "IDR", []domain.LineItem{l1, l2, l3})
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	if err := CreateTransaction(context.Background(), db, tx); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return tx
}

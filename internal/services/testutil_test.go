package services

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	"github.com/tbourn/go-fulfillment-backend/internal/payment"
	"github.com/tbourn/go-fulfillment-backend/internal/repo"
)

const testServerKey = "SB-Mid-server-test"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// A single connection keeps PRAGMAs effective and serializes writers
	// the way the file-backed database does with busy_timeout.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys=ON;").Error)
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

// seedCatalog writes sellers A and B, physical P1 (A) and P2 (B), digital
// P3 (A) and P4 (B), bundle B1 = {P3, P4} and bundle B2 = {P3}.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	sellers := []domain.Seller{{ID: "A", Name: "Toko Buku A", City: "Bandung"}, {ID: "B", Name: "Toko Buku B", City: "Jakarta"}}
	products := []domain.Product{
		{ID: "P1", SellerID: "A", Title: "Paper One", Format: domain.FormatPhysical, Price: decimal.NewFromInt(100000)},
		{ID: "P2", SellerID: "B", Title: "Paper Two", Format: domain.FormatPhysical, Price: decimal.NewFromInt(80000)},
		{ID: "P3", SellerID: "A", Title: "Ebook Three", Format: domain.FormatDigital, Price: decimal.NewFromInt(50000)},
		{ID: "P4", SellerID: "B", Title: "Ebook Four", Format: domain.FormatDigital, Price: decimal.NewFromInt(40000)},
	}
	bundles := []domain.Bundle{
		{ID: "B1", Title: "Ebook pair", Price: decimal.NewFromInt(75000),
			Items: []domain.BundleItem{{BundleID: "B1", ProductID: "P3"}, {BundleID: "B1", ProductID: "P4"}}},
		{ID: "B2", Title: "Ebook single", Price: decimal.NewFromInt(45000),
			Items: []domain.BundleItem{{BundleID: "B2", ProductID: "P3"}}},
	}
	require.NoError(t, repo.UpsertCatalog(context.Background(), db, sellers, products, bundles))
}

type line struct {
	product, bundle string
	price           int64
}

func seedOrder(t *testing.T, db *gorm.DB, customerID, orderRef string, lines ...line) *domain.Transaction {
	t.Helper()
	items := make([]domain.LineItem, 0, len(lines))
	for _, l := range lines {
		li, err := domain.NewLineItem(l.product, l.bundle, 1, decimal.NewFromInt(l.price))
		require.NoError(t, err)
		items = append(items, li)
	}
	tx, err := domain.NewTransaction(customerID, orderRef, "IDR", items)
	require.NoError(t, err)
	require.NoError(t, repo.CreateTransaction(context.Background(), db, tx))
	return tx
}

// seedT1 creates [P1 (A, physical), P2 (B, physical), B1 -> {P3, P4}]
// for cust-1. Total 255000.
func seedT1(t *testing.T, db *gorm.DB, orderRef string) *domain.Transaction {
	return seedOrder(t, db, "cust-1", orderRef,
		line{product: "P1", price: 100000},
		line{product: "P2", price: 80000},
		line{bundle: "B1", price: 75000},
	)
}

func newPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{
		DB:       db,
		Verifier: payment.NewVerifier(testServerKey),
		Granter:  &EntitlementService{DB: db},
	}
}

// notification builds a correctly signed gateway body.
func notification(orderID, status, fraud, gross string) []byte {
	sig := payment.NewVerifier(testServerKey).Sign(orderID, "200", gross)
	return []byte(fmt.Sprintf(`{"order_id":%q,"status_code":"200","gross_amount":%q,"signature_key":%q,`+
		`"transaction_status":%q,"fraud_status":%q,"transaction_id":"gw-%s","payment_type":"bank_transfer"}`,
		orderID, gross, sig, status, fraud, orderID))
}

func countRows(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

func entitledProducts(t *testing.T, db *gorm.DB, customerID string) []string {
	t.Helper()
	var ids []string
	require.NoError(t, db.Model(&domain.Entitlement{}).
		Where("customer_id = ?", customerID).
		Order("product_id").
		Pluck("product_id", &ids).Error)
	return ids
}

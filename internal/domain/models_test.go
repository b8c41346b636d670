package domain

import (
	"errors"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func allModels() []any {
	return []any{
		&Seller{}, &Product{}, &Bundle{}, &BundleItem{},
		&Transaction{}, &LineItem{},
		&Entitlement{}, &ReadingProgress{},
		&Shipment{}, &PaymentNotification{},
	}
}

func TestTableNames(t *testing.T) {
	cases := map[string]string{
		Transaction{}.TableName():         "transactions",
		LineItem{}.TableName():            "line_items",
		Seller{}.TableName():              "sellers",
		Product{}.TableName():             "products",
		Bundle{}.TableName():              "bundles",
		BundleItem{}.TableName():          "bundle_items",
		Entitlement{}.TableName():         "entitlements",
		ReadingProgress{}.TableName():     "reading_progress",
		Shipment{}.TableName():            "shipments",
		PaymentNotification{}.TableName(): "payment_notifications",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("TableName() = %q; want %q", got, want)
		}
	}
}

func TestNewLineItem_Validation(t *testing.T) {
	price := decimal.NewFromInt(15000)

	if _, err := NewLineItem("", "", 1, price); !errors.Is(err, ErrLineItemTarget) {
		t.Fatalf("expected ErrLineItemTarget for no target, got %v", err)
	}
	if _, err := NewLineItem("p1", "b1", 1, price); !errors.Is(err, ErrLineItemTarget) {
		t.Fatalf("expected ErrLineItemTarget for both targets, got %v", err)
	}
	if _, err := NewLineItem("p1", "", 0, price); !errors.Is(err, ErrLineItemQuantity) {
		t.Fatalf("expected ErrLineItemQuantity, got %v", err)
	}

	li, err := NewLineItem("p1", "", 3, price)
	if err != nil {
		t.Fatalf("NewLineItem: %v", err)
	}
	if !li.LineTotal.Equal(decimal.NewFromInt(45000)) {
		t.Fatalf("line total = %s; want 45000", li.LineTotal)
	}
	if li.IsBundle() {
		t.Fatalf("product line reported as bundle")
	}
}

func TestNewTransaction_TotalsAndPositions(t *testing.T) {
	a, _ := NewLineItem("p1", "", 2, decimal.NewFromInt(10000))
	b, _ := NewLineItem("", "b1", 1, decimal.RequireFromString("5500.50"))

	tx, err := NewTransaction("cust-1", "ORDER-1", "IDR", []LineItem{a, b})
	if err != nil {
		t.Fatalf("NewTransaction: %v", err)
	}
	if tx.Status != StatusPending {
		t.Fatalf("status = %q; want pending", tx.Status)
	}
	if !tx.Total.Equal(decimal.RequireFromString("25500.50")) {
		t.Fatalf("total = %s; want 25500.50", tx.Total)
	}
	for i, li := range tx.LineItems {
		if li.Position != i {
			t.Fatalf("line %d has position %d", i, li.Position)
		}
	}

	tx.Total = decimal.NewFromInt(1)
	if err := tx.Validate(); !errors.Is(err, ErrTotalMismatch) {
		t.Fatalf("expected ErrTotalMismatch, got %v", err)
	}

	if _, err := NewTransaction("cust-1", "ORDER-2", "IDR", nil); !errors.Is(err, ErrNoLineItems) {
		t.Fatalf("expected ErrNoLineItems, got %v", err)
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range allModels() {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	// Indexes from tags exist
	indexes := []struct {
		model any
		name  string
	}{
		{&Transaction{}, "ux_tx_order_ref"},
		{&Transaction{}, "idx_tx_customer"},
		{&LineItem{}, "idx_line_tx"},
		{&Entitlement{}, "ux_entitlement_owner"},
		{&ReadingProgress{}, "ux_progress_owner"},
		{&Shipment{}, "ux_shipment_tx_seller"},
		{&PaymentNotification{}, "idx_notif_tx"},
	}
	for _, ix := range indexes {
		if !m.HasIndex(ix.model, ix.name) {
			t.Fatalf("expected index %s on %T", ix.name, ix.model)
		}
	}

	now := time.Now().UTC()
	pid := "p1"

	if err := db.Create(&Seller{ID: "sA", Name: "Seller A", CreatedAt: now}).Error; err != nil {
		t.Fatalf("insert seller: %v", err)
	}
	if err := db.Create(&Product{ID: pid, SellerID: "sA", Title: "Book", Format: FormatPhysical, Price: decimal.NewFromInt(100)}).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}
	tx := &Transaction{
		ID: "t1", CustomerID: "u1", Status: StatusPending, OrderRef: "ORD-1", Currency: "IDR",
		Total: decimal.NewFromInt(100),
		LineItems: []LineItem{{
			ID: "li1", ProductID: &pid, Quantity: 1,
			UnitPrice: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(100),
		}},
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	sh := &Shipment{
		ID: "s1", TransactionID: "t1", SellerID: "sA",
		Recipient: Recipient{Name: "R", Phone: "1", Address: "A", City: "C", PostalCode: "1"},
		Carrier:   "JNE", Service: "REG", Cost: decimal.NewFromInt(15000), Status: ShipmentCreated,
	}
	if err := db.Create(sh).Error; err != nil {
		t.Fatalf("insert shipment: %v", err)
	}

	// UNIQUE: one shipment per (transaction, seller)
	dup := *sh
	dup.ID = "s2"
	if err := db.Create(&dup).Error; err == nil {
		t.Fatalf("expected unique violation on (transaction_id, seller_id)")
	}

	// UNIQUE: one entitlement per (customer, product)
	e1 := &Entitlement{ID: "e1", CustomerID: "u1", ProductID: pid, AccessKey: "k1", SourceTransactionID: "t1"}
	e2 := &Entitlement{ID: "e2", CustomerID: "u1", ProductID: pid, AccessKey: "k2", SourceTransactionID: "t1"}
	if err := db.Create(e1).Error; err != nil {
		t.Fatalf("insert entitlement: %v", err)
	}
	if err := db.Create(e2).Error; err == nil {
		t.Fatalf("expected unique violation on (customer_id, product_id)")
	}

	// CHECK: quantity must be positive
	bad := &LineItem{ID: "li2", TransactionID: "t1", Position: 1, ProductID: &pid, Quantity: 0,
		UnitPrice: decimal.Zero, LineTotal: decimal.Zero}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected CHECK violation for quantity 0")
	}

	// CASCADE: deleting the transaction removes its line items and shipments
	if err := db.Delete(&Transaction{}, "id = ?", "t1").Error; err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	var cnt int64
	if err := db.Model(&LineItem{}).Where("transaction_id = ?", "t1").Count(&cnt).Error; err != nil {
		t.Fatalf("count line items: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected line items to cascade-delete, got %d", cnt)
	}
	if err := db.Model(&Shipment{}).Where("transaction_id = ?", "t1").Count(&cnt).Error; err != nil {
		t.Fatalf("count shipments: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected shipments to cascade-delete, got %d", cnt)
	}
}

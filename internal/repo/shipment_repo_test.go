package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
)

func newShipment(id, txID, sellerID string, at time.Time) domain.Shipment {
	return domain.Shipment{
		ID:            id,
		TransactionID: txID,
		SellerID:      sellerID,
		Recipient:     domain.Recipient{Name: "Budi", Phone: "0812", Address: "Jl. Mawar 1", City: "Bandung", PostalCode: "40111"},
		Carrier:       "JNE",
		Service:       "REG",
		Cost:          decimal.NewFromInt(15000),
		Status:        domain.ShipmentCreated,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
}

func TestCreateShipments_DuplicateSellerRollsBack(t *testing.T) {
	db := newMigratedDB(t)
	seedCatalog(t, db)
	tx := seedT1(t, db, "ORD-SHIP")
	ctx := context.Background()
	now := time.Now().UTC()

	if err := CreateShipments(ctx, db, []domain.Shipment{newShipment("s1", tx.ID, "A", now)}); err != nil {
		t.Fatalf("CreateShipments: %v", err)
	}

	err := db.Transaction(func(g *gorm.DB) error {
		return CreateShipments(ctx, g, []domain.Shipment{
			newShipment("s2", tx.ID, "B", now),
			newShipment("s3", tx.ID, "A", now),
		})
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	n, err := CountShipmentsForTransaction(ctx, db, tx.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 shipment after rollback, got %d, %v", n, err)
	}

	if err := CreateShipments(ctx, db, nil); err != nil {
		t.Fatalf("empty create should be a no-op, got %v", err)
	}
}

func TestListShipments_VisibilityStatusAndOrder(t *testing.T) {
	db := newMigratedDB(t)
	seedCatalog(t, db)
	tx := seedT1(t, db, "ORD-LIST")
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	sA := newShipment("sA", tx.ID, "A", base)
	sB := newShipment("sB", tx.ID, "B", base.Add(time.Hour))
	sB.Status = domain.ShipmentDelivered
	if err := CreateShipments(ctx, db, []domain.Shipment{sA, sB}); err != nil {
		t.Fatalf("seed shipments: %v", err)
	}

	// Buyer sees both, newest first.
	buyer := ShipmentFilter{CallerID: "cust-1"}
	rows, err := ListShipmentsPage(ctx, db, buyer, 0, 10)
	if err != nil {
		t.Fatalf("ListShipmentsPage: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != "sB" || rows[1].ID != "sA" {
		t.Fatalf("unexpected buyer list: %+v", rows)
	}
	if n, err := CountShipments(ctx, db, buyer); err != nil || n != 2 {
		t.Fatalf("CountShipments buyer = %d, %v", n, err)
	}

	// Seller A sees only its shipment.
	rows, err = ListShipmentsPage(ctx, db, ShipmentFilter{CallerID: "A"}, 0, 10)
	if err != nil || len(rows) != 1 || rows[0].ID != "sA" {
		t.Fatalf("unexpected seller list: %+v, %v", rows, err)
	}

	// Status filter.
	rows, err = ListShipmentsPage(ctx, db, ShipmentFilter{CallerID: "cust-1", Status: domain.ShipmentDelivered}, 0, 10)
	if err != nil || len(rows) != 1 || rows[0].ID != "sB" {
		t.Fatalf("unexpected filtered list: %+v, %v", rows, err)
	}

	// Stranger sees nothing.
	if n, err := CountShipments(ctx, db, ShipmentFilter{CallerID: "stranger"}); err != nil || n != 0 {
		t.Fatalf("CountShipments stranger = %d, %v", n, err)
	}

	got, err := GetShipment(ctx, db, "sA")
	if err != nil {
		t.Fatalf("GetShipment: %v", err)
	}
	if got.Transaction == nil || got.Transaction.CustomerID != "cust-1" || got.Recipient.City != "Bandung" {
		t.Fatalf("unexpected shipment: %+v", got)
	}
	if _, err := GetShipment(ctx, db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	byTx, err := ListShipmentsForTransaction(ctx, db, tx.ID)
	if err != nil || len(byTx) != 2 || byTx[0].SellerID != "A" {
		t.Fatalf("ListShipmentsForTransaction = %+v, %v", byTx, err)
	}
}

func TestNotifications_AppendAndList(t *testing.T) {
	db := newMigratedDB(t)
	ctx := context.Background()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, outcome := range []domain.NotificationOutcome{domain.OutcomeApplied, domain.OutcomeIgnoredRegression} {
		n := &domain.PaymentNotification{
			TransactionID:     "t1",
			OrderRef:          "ORD-1",
			TransactionStatus: "settlement",
			Outcome:           outcome,
			ReceivedAt:        t0.Add(time.Duration(i) * time.Minute),
		}
		if err := CreateNotification(ctx, db, n); err != nil {
			t.Fatalf("CreateNotification: %v", err)
		}
		if n.ID == "" {
			t.Fatalf("expected generated id")
		}
	}

	rows, err := ListNotifications(ctx, db, "t1")
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(rows) != 2 || rows[0].Outcome != domain.OutcomeApplied || rows[1].Outcome != domain.OutcomeIgnoredRegression {
		t.Fatalf("unexpected audit trail: %+v", rows)
	}
}

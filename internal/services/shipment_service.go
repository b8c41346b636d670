// Package services – ShipmentService
//
// ShipmentService splits a paid order's physical items into one shipment per
// seller and serves the seller- or buyer-scoped read paths over them.
//
// Access rule: a shipment is visible to the buyer of its transaction and to
// its seller. Anyone else gets ErrShipmentNotFound, never a "forbidden"
// error, so shipment ids cannot be probed.
package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tbourn/go-fulfillment-backend/internal/domain"
	"github.com/tbourn/go-fulfillment-backend/internal/repo"
	"github.com/tbourn/go-fulfillment-backend/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ShippingChoice is the buyer's carrier selection for one seller.
type ShippingChoice struct {
	SellerID string          `json:"seller_id" validate:"required,max=64"`
	Carrier  string          `json:"carrier"   validate:"required,max=32"`
	Service  string          `json:"service"   validate:"required,max=32"`
	Cost     decimal.Decimal `json:"cost"      validate:"gte=0"`
}

// ShipmentDetail is a shipment with the identities of both parties and the
// line items it carries.
type ShipmentDetail struct {
	Shipment domain.Shipment
	Seller   domain.Seller
	BuyerID  string
	OrderRef string
	Items    []domain.LineItem
}

// ShipmentService creates and reads shipments.
type ShipmentService struct {
	DB *gorm.DB
}

// defaultPageSize applies to list calls that pass a non-positive page size.
const defaultPageSize = 20

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Validate decimals by their numeric value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Split creates one shipment per seller present among the transaction's
// physical line items.
//
// Every such seller needs exactly one choice; choices for sellers without
// physical items are ignored. The shipments of one call are written in a
// single database transaction, so a failure leaves none behind. An order
// without physical items yields an empty slice and no error.
func (s *ShipmentService) Split(ctx context.Context, callerID, transactionID string, recipient domain.Recipient, choices []ShippingChoice) ([]domain.Shipment, error) {
	tr := otel.Tracer("services/ShipmentService")
	ctx, span := tr.Start(ctx, "Split",
		trace.WithAttributes(
			attribute.String("transaction.id", transactionID),
			attribute.String("user.id", callerID),
			attribute.Int("choices", len(choices)),
		),
	)
	defer span.End()

	bySeller := make(map[string]ShippingChoice, len(choices))
	for i, c := range choices {
		c.SellerID = strings.TrimSpace(c.SellerID)
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("%w: shipments[%d]: %v", ErrInvalidShippingChoice, i, err)
		}
		if _, dup := bySeller[c.SellerID]; dup {
			return nil, fmt.Errorf("%w: duplicate seller %s", ErrInvalidShippingChoice, c.SellerID)
		}
		bySeller[c.SellerID] = c
	}

	tx, err := repo.GetTransaction(ctx, s.DB, transactionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("load transaction: %w", err)
	}
	if tx.CustomerID != callerID {
		return nil, ErrTransactionNotFound
	}
	if tx.Status != domain.StatusPaid {
		return nil, ErrTransactionNotPaid
	}

	groups := groupPhysicalBySeller(tx.LineItems)
	if len(groups) == 0 {
		return []domain.Shipment{}, nil
	}
	sellers := make([]string, 0, len(groups))
	for sid := range groups {
		sellers = append(sellers, sid)
	}
	sort.Strings(sellers)

	for _, sid := range sellers {
		if _, ok := bySeller[sid]; !ok {
			return nil, fmt.Errorf("%w: seller %s", ErrMissingShippingChoice, sid)
		}
	}
	if err := validate.Struct(recipient); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}

	now := time.Now().UTC()
	rows := make([]domain.Shipment, 0, len(sellers))
	for _, sid := range sellers {
		c := bySeller[sid]
		rows = append(rows, domain.Shipment{
			ID:            uuid.NewString(),
			TransactionID: tx.ID,
			SellerID:      sid,
			Recipient:     recipient,
			Carrier:       c.Carrier,
			Service:       c.Service,
			Cost:          c.Cost,
			Status:        domain.ShipmentCreated,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	err = s.DB.WithContext(ctx).Transaction(func(g *gorm.DB) error {
		n, err := repo.CountShipmentsForTransaction(ctx, g, tx.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrShipmentsExist
		}
		return repo.CreateShipments(ctx, g, rows)
	})
	switch {
	case errors.Is(err, repo.ErrDuplicate), errors.Is(err, ErrShipmentsExist):
		return nil, ErrShipmentsExist
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "create")
		return nil, fmt.Errorf("create shipments: %w", err)
	}

	shipmentsCreated.Add(float64(len(rows)))
	span.SetAttributes(attribute.Int("shipments", len(rows)))
	return rows, nil
}

// groupPhysicalBySeller returns the physical product lines keyed by the
// owning seller. Bundle lines never ship on their own.
func groupPhysicalBySeller(items []domain.LineItem) map[string][]domain.LineItem {
	out := make(map[string][]domain.LineItem)
	for _, li := range items {
		if li.IsBundle() || li.Product == nil || !li.Product.IsPhysical() {
			continue
		}
		out[li.Product.SellerID] = append(out[li.Product.SellerID], li)
	}
	return out
}

// ForTransaction returns the shipments of a transaction the caller bought.
// It backs idempotent replays of shipment creation.
func (s *ShipmentService) ForTransaction(ctx context.Context, callerID, transactionID string) ([]domain.Shipment, error) {
	tr := otel.Tracer("services/ShipmentService")
	ctx, span := tr.Start(ctx, "ForTransaction",
		trace.WithAttributes(attribute.String("transaction.id", transactionID)),
	)
	defer span.End()

	tx, err := repo.GetTransaction(ctx, s.DB, transactionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if tx.CustomerID != callerID {
		return nil, ErrTransactionNotFound
	}
	return repo.ListShipmentsForTransaction(ctx, s.DB, transactionID)
}

// ListPage returns the caller's shipments (as buyer or seller), newest
// first, optionally filtered by status, plus the total count.
func (s *ShipmentService) ListPage(ctx context.Context, callerID, status string, page, pageSize int) ([]domain.Shipment, int64, error) {
	tr := otel.Tracer("services/ShipmentService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", callerID),
			attribute.String("status", status),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	f, err := shipmentFilter(callerID, status)
	if err != nil {
		return nil, 0, err
	}
	_, pageSize, offset := utils.Page(page, pageSize, defaultPageSize, 0)

	total, err := repo.CountShipments(ctx, s.DB, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Shipment{}, 0, nil
	}
	items, err := repo.ListShipmentsPage(ctx, s.DB, f, offset, pageSize)
	return items, total, err
}

// Stats returns count and latest update time of the caller's shipments for
// conditional GETs.
func (s *ShipmentService) Stats(ctx context.Context, callerID, status string) (int64, *time.Time, error) {
	f, err := shipmentFilter(callerID, status)
	if err != nil {
		return 0, nil, err
	}
	return repo.ShipmentsStats(ctx, s.DB, f)
}

// Detail loads one shipment with its seller, buyer and the line items that
// belong to its seller. Only physical items of that seller are included;
// other sellers' items in the same order are never exposed.
func (s *ShipmentService) Detail(ctx context.Context, shipmentID, callerID string) (*ShipmentDetail, error) {
	tr := otel.Tracer("services/ShipmentService")
	ctx, span := tr.Start(ctx, "Detail",
		trace.WithAttributes(
			attribute.String("shipment.id", shipmentID),
			attribute.String("user.id", callerID),
		),
	)
	defer span.End()

	sh, err := repo.GetShipment(ctx, s.DB, shipmentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	if sh.Transaction == nil {
		return nil, ErrShipmentNotFound
	}
	buyer := sh.Transaction.CustomerID
	if callerID == "" || (callerID != buyer && callerID != sh.SellerID) {
		return nil, ErrShipmentNotFound
	}

	items, err := repo.ListSellerLineItems(ctx, s.DB, sh.TransactionID, sh.SellerID)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	seller := domain.Seller{ID: sh.SellerID}
	if sl, err := repo.GetSeller(ctx, s.DB, sh.SellerID); err == nil {
		seller = *sl
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("load seller: %w", err)
	}

	d := &ShipmentDetail{
		Shipment: *sh,
		Seller:   seller,
		BuyerID:  buyer,
		OrderRef: sh.Transaction.OrderRef,
		Items:    items,
	}
	d.Shipment.Transaction = nil
	return d, nil
}

func shipmentFilter(callerID, status string) (repo.ShipmentFilter, error) {
	f := repo.ShipmentFilter{CallerID: callerID}
	if status = strings.TrimSpace(status); status != "" {
		st := domain.ShipmentStatus(strings.ToLower(status))
		if !st.IsValid() {
			return f, ErrInvalidShipmentStatus
		}
		f.Status = st
	}
	return f, nil
}

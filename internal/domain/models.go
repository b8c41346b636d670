// Package domain defines the persistence models for sales orders, their line
// items, the catalog they reference, digital entitlements, and per-seller
// shipments. These types are mapped with GORM and shared across the
// repository, service, and HTTP layers.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Validation errors raised by model constructors.
var (
	ErrLineItemTarget   = errors.New("line item must reference exactly one of product or bundle")
	ErrLineItemQuantity = errors.New("line item quantity must be positive")
	ErrTotalMismatch    = errors.New("transaction total must equal the sum of line totals")
	ErrNoLineItems      = errors.New("transaction must have at least one line item")
)

// Transaction is a sales order created at checkout and reconciled against
// the payment gateway.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - CustomerID: the buyer; indexed for buyer-scoped queries.
//   - Status: lifecycle state, see TransactionStatus.
//   - OrderRef: order reference shared with the gateway (unique).
//   - Currency / Total: order amount; Total equals the sum of line totals.
//   - SuccessPayload / PendingPayload / ErrorPayload: raw gateway payload
//     snapshots, one per outcome category.
//   - PaidAt: set once when the order first becomes paid.
//   - LineItems: ordered by Position.
type Transaction struct {
	ID             string            `json:"id"              gorm:"type:char(36);primaryKey"`
	CustomerID     string            `json:"customer_id"     gorm:"type:varchar(64);not null;index:idx_tx_customer"`
	Status         TransactionStatus `json:"status"          gorm:"type:varchar(16);not null;index"`
	OrderRef       string            `json:"order_ref"       gorm:"type:varchar(64);not null;uniqueIndex:ux_tx_order_ref"`
	Currency       string            `json:"currency"        gorm:"type:varchar(3);not null;default:'IDR'"`
	Total          decimal.Decimal   `json:"total"           gorm:"type:decimal(18,2);not null"`
	SuccessPayload datatypes.JSON    `json:"-"`
	PendingPayload datatypes.JSON    `json:"-"`
	ErrorPayload   datatypes.JSON    `json:"-"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	LineItems []LineItem `json:"line_items,omitempty" gorm:"foreignKey:TransactionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Transaction.
func (Transaction) TableName() string { return "transactions" }

// Validate checks the line-item invariants and that Total matches them.
func (t *Transaction) Validate() error {
	if len(t.LineItems) == 0 {
		return ErrNoLineItems
	}
	sum := decimal.Zero
	for i := range t.LineItems {
		if err := t.LineItems[i].Validate(); err != nil {
			return err
		}
		sum = sum.Add(t.LineItems[i].LineTotal)
	}
	if !sum.Equal(t.Total) {
		return ErrTotalMismatch
	}
	return nil
}

// LineItem is one product-or-bundle entry of a Transaction. Exactly one of
// ProductID and BundleID is set; the owning seller is derived through the
// product. Line items are immutable once created.
type LineItem struct {
	ID            string          `json:"id"                  gorm:"type:char(36);primaryKey"`
	TransactionID string          `json:"transaction_id"      gorm:"type:char(36);not null;index:idx_line_tx,priority:1"`
	Position      int             `json:"position"            gorm:"not null;index:idx_line_tx,priority:2"`
	ProductID     *string         `json:"product_id,omitempty" gorm:"type:char(36);index"`
	BundleID      *string         `json:"bundle_id,omitempty"  gorm:"type:char(36);index;check:chk_line_target,(product_id IS NULL) <> (bundle_id IS NULL)"`
	Quantity      int             `json:"quantity"            gorm:"not null;check:quantity > 0"`
	UnitPrice     decimal.Decimal `json:"unit_price"          gorm:"type:decimal(18,2);not null"`
	LineTotal     decimal.Decimal `json:"line_total"          gorm:"type:decimal(18,2);not null"`
	CreatedAt     time.Time       `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID"`
	Bundle  *Bundle  `json:"bundle,omitempty"  gorm:"foreignKey:BundleID;references:ID"`
}

// TableName returns the database table name for LineItem.
func (LineItem) TableName() string { return "line_items" }

// Validate enforces the product-xor-bundle rule and a positive quantity.
func (li *LineItem) Validate() error {
	hasProduct := li.ProductID != nil && *li.ProductID != ""
	hasBundle := li.BundleID != nil && *li.BundleID != ""
	if hasProduct == hasBundle {
		return ErrLineItemTarget
	}
	if li.Quantity <= 0 {
		return ErrLineItemQuantity
	}
	return nil
}

// IsBundle reports whether the line references a bundle.
func (li *LineItem) IsBundle() bool { return li.BundleID != nil && *li.BundleID != "" }

// NewLineItem builds a line item for a product or a bundle (pass "" for the
// unused reference) and computes its line total.
func NewLineItem(productID, bundleID string, qty int, unitPrice decimal.Decimal) (LineItem, error) {
	li := LineItem{
		Quantity:  qty,
		UnitPrice: unitPrice,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(qty))),
	}
	if productID != "" {
		li.ProductID = &productID
	}
	if bundleID != "" {
		li.BundleID = &bundleID
	}
	if err := li.Validate(); err != nil {
		return LineItem{}, err
	}
	return li, nil
}

// NewTransaction assembles a pending transaction whose Total is the sum of
// the given line items. Positions are assigned in order.
func NewTransaction(customerID, orderRef, currency string, items []LineItem) (*Transaction, error) {
	t := &Transaction{
		CustomerID: customerID,
		Status:     StatusPending,
		OrderRef:   orderRef,
		Currency:   currency,
		Total:      decimal.Zero,
	}
	for i, li := range items {
		li.Position = i
		t.Total = t.Total.Add(li.LineTotal)
		t.LineItems = append(t.LineItems, li)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// IsEmptyPayload reports whether a payload snapshot is unset. NULL columns
// scan into datatypes.JSON as the literal null.
func IsEmptyPayload(p datatypes.JSON) bool {
	return len(p) == 0 || string(p) == "null"
}

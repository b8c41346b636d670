package domain

import "time"

// Entitlement grants a customer access to a product. At most one row exists
// per (customer_id, product_id), enforced by the ux_entitlement_owner index;
// writers rely on that index rather than on a prior existence check.
type Entitlement struct {
	ID                  string    `json:"id"                    gorm:"type:char(36);primaryKey"`
	CustomerID          string    `json:"customer_id"           gorm:"type:varchar(64);not null;uniqueIndex:ux_entitlement_owner,priority:1"`
	ProductID           string    `json:"product_id"            gorm:"type:char(36);not null;uniqueIndex:ux_entitlement_owner,priority:2"`
	AccessKey           string    `json:"access_key"            gorm:"type:varchar(64);not null;uniqueIndex"`
	SourceTransactionID string    `json:"source_transaction_id" gorm:"type:char(36);not null;index"`
	CreatedAt           time.Time `json:"created_at"`
}

// TableName returns the database table name for Entitlement.
func (Entitlement) TableName() string { return "entitlements" }

// ReadingProgress tracks how far a customer got in a product. It is created
// with zero progress alongside the first entitlement and is never
// overwritten by the fulfillment pipeline.
type ReadingProgress struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	CustomerID   string    `json:"customer_id"   gorm:"type:varchar(64);not null;uniqueIndex:ux_progress_owner,priority:1"`
	ProductID    string    `json:"product_id"    gorm:"type:char(36);not null;uniqueIndex:ux_progress_owner,priority:2"`
	Percent      float64   `json:"percent"       gorm:"not null;default:0"`
	LastPosition string    `json:"last_position" gorm:"type:varchar(255);not null;default:''"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for ReadingProgress.
func (ReadingProgress) TableName() string { return "reading_progress" }

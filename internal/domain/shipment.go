package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentStatus is the delivery state of a shipment. Only ShipmentCreated is
// written here; later states belong to the carrier integration.
type ShipmentStatus string

const (
	ShipmentCreated   ShipmentStatus = "created"
	ShipmentPacked    ShipmentStatus = "packed"
	ShipmentInTransit ShipmentStatus = "in_transit"
	ShipmentDelivered ShipmentStatus = "delivered"
	ShipmentCanceled  ShipmentStatus = "canceled"
)

// IsValid reports whether s is a known shipment status.
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentCreated, ShipmentPacked, ShipmentInTransit, ShipmentDelivered, ShipmentCanceled:
		return true
	default:
		return false
	}
}

// Recipient is the delivery address copied into a shipment at creation
// time. It is a snapshot: later address edits by the buyer do not change it.
type Recipient struct {
	Name       string `json:"name"        gorm:"type:varchar(255);not null" validate:"required,max=255"`
	Phone      string `json:"phone"       gorm:"type:varchar(32);not null"  validate:"required,max=32"`
	Address    string `json:"address"     gorm:"type:text;not null"         validate:"required,max=1024"`
	City       string `json:"city"        gorm:"type:varchar(128);not null" validate:"required,max=128"`
	Province   string `json:"province"    gorm:"type:varchar(128)"          validate:"max=128"`
	PostalCode string `json:"postal_code" gorm:"type:varchar(16);not null"  validate:"required,max=16"`
}

// Shipment is the physical fulfillment of one seller's part of a paid
// transaction. At most one shipment exists per (transaction_id, seller_id).
type Shipment struct {
	ID            string          `json:"id"             gorm:"type:char(36);primaryKey"`
	TransactionID string          `json:"transaction_id" gorm:"type:char(36);not null;uniqueIndex:ux_shipment_tx_seller,priority:1"`
	SellerID      string          `json:"seller_id"      gorm:"type:varchar(64);not null;uniqueIndex:ux_shipment_tx_seller,priority:2;index:idx_shipment_seller"`
	Recipient     Recipient       `json:"recipient"      gorm:"embedded;embeddedPrefix:recipient_"`
	Carrier       string          `json:"carrier"        gorm:"type:varchar(32);not null"`
	Service       string          `json:"service"        gorm:"type:varchar(32);not null"`
	Cost          decimal.Decimal `json:"cost"           gorm:"type:decimal(18,2);not null"`
	Status        ShipmentStatus  `json:"status"         gorm:"type:varchar(16);not null;index"`
	CreatedAt     time.Time       `json:"created_at"     gorm:"index"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Transaction *Transaction `json:"-" gorm:"foreignKey:TransactionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Shipment.
func (Shipment) TableName() string { return "shipments" }

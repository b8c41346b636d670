package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductFormat distinguishes downloadable products from ones that ship.
type ProductFormat string

const (
	FormatDigital  ProductFormat = "digital"
	FormatPhysical ProductFormat = "physical"
)

// Seller owns products and is the unit by which physical orders are split.
// Sellers are managed by the admin side; this pipeline only reads them.
type Seller struct {
	ID        string    `json:"id"   gorm:"type:varchar(64);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	City      string    `json:"city,omitempty" gorm:"type:varchar(128)"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Seller.
func (Seller) TableName() string { return "sellers" }

// Product is a sellable title in a given format.
type Product struct {
	ID        string          `json:"id"        gorm:"type:char(36);primaryKey"`
	SellerID  string          `json:"seller_id" gorm:"type:varchar(64);not null;index"`
	Title     string          `json:"title"     gorm:"type:varchar(255);not null"`
	Format    ProductFormat   `json:"format"    gorm:"type:varchar(16);not null;check:format IN ('digital','physical')"`
	Price     decimal.Decimal `json:"price"     gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `json:"created_at"`

	Seller *Seller `json:"-" gorm:"foreignKey:SellerID;references:ID"`
}

// TableName returns the database table name for Product.
func (Product) TableName() string { return "products" }

// IsPhysical reports whether the product ships.
func (p Product) IsPhysical() bool { return p.Format == FormatPhysical }

// Bundle is a priced group of products sold as one line item.
type Bundle struct {
	ID        string          `json:"id"    gorm:"type:char(36);primaryKey"`
	Title     string          `json:"title" gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	CreatedAt time.Time       `json:"created_at"`

	Items []BundleItem `json:"items,omitempty" gorm:"foreignKey:BundleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Bundle.
func (Bundle) TableName() string { return "bundles" }

// BundleItem links a bundle to one member product.
type BundleItem struct {
	BundleID  string `json:"bundle_id"  gorm:"type:char(36);primaryKey"`
	ProductID string `json:"product_id" gorm:"type:char(36);primaryKey;index"`
}

// TableName returns the database table name for BundleItem.
func (BundleItem) TableName() string { return "bundle_items" }

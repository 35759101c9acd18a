package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ArticlePhoto is a picture attached to an article.
type ArticlePhoto struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Article represents a product or service that can be put on a document.
type Article struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name              string `gorm:"size:255;not null;index" json:"name"`
	ShortDescription  string `gorm:"size:500" json:"short_description"`
	LongDescription   string `gorm:"type:text" json:"long_description,omitempty"`
	WarehouseLocation string `gorm:"size:100" json:"warehouse_location,omitempty"`

	// UnitPrice is excluding VAT.
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	// VATRate and DiscountRate are percentages (21 = 21%).
	VATRate      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"vat_rate"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_rate"`
	Unit         string          `gorm:"size:50;not null" json:"unit"`

	Photos []ArticlePhoto `gorm:"serializer:json;type:text" json:"photos"`
	URLs   []string       `gorm:"serializer:json;type:text" json:"urls"`
}

// BeforeCreate assigns a random identifier when none was provided.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrMalformedRecord is returned when a persisted document does not satisfy
// the document schema.
var ErrMalformedRecord = errors.New("malformed document record")

// DocumentType is the kind of commercial document.
type DocumentType string

const (
	DocumentTypeQuote     DocumentType = "Quote"
	DocumentTypeWorkOrder DocumentType = "Work Order"
	DocumentTypeInvoice   DocumentType = "Invoice"
)

// DocumentTypes lists every supported type in display order.
var DocumentTypes = []DocumentType{DocumentTypeQuote, DocumentTypeWorkOrder, DocumentTypeInvoice}

// Prefix returns the document number prefix for the type.
func (t DocumentType) Prefix() string {
	switch t {
	case DocumentTypeQuote:
		return "Q"
	case DocumentTypeWorkOrder:
		return "WO"
	case DocumentTypeInvoice:
		return "I"
	}
	return ""
}

// Valid reports whether t is a supported document type.
func (t DocumentType) Valid() bool { return slices.Contains(DocumentTypes, t) }

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	DocumentStatusDraft DocumentStatus = "draft"
	DocumentStatusSent  DocumentStatus = "sent"
	DocumentStatusPaid  DocumentStatus = "paid"

	// DocumentStatusConcept is the legacy spelling of the draft state.
	//
	// Deprecated: use DocumentStatusDraft. Kept so older records still load.
	DocumentStatusConcept DocumentStatus = "concept"
)

// ParseDocumentStatus normalizes s to a canonical status. The legacy
// "concept" spelling and any casing of "Draft" map to DocumentStatusDraft.
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch DocumentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case DocumentStatusDraft, DocumentStatusConcept:
		return DocumentStatusDraft, nil
	case DocumentStatusSent:
		return DocumentStatusSent, nil
	case DocumentStatusPaid:
		return DocumentStatusPaid, nil
	}
	return "", fmt.Errorf("unknown document status %q", s)
}

// IsDraft returns true if the document is still in its initial state.
func (d *Document) IsDraft() bool {
	return d.Status == DocumentStatusDraft
}

// DocumentLine is one priced entry on a document. Pricing fields are copied
// from the article when the line is added and never follow later edits.
type DocumentLine struct {
	ID           string          `json:"id"`
	ArticleID    string          `json:"article_id"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	VATRate      decimal.Decimal `json:"vat_rate"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	// Total is the extended amount excluding VAT, after discount.
	Total decimal.Decimal `json:"total"`
}

// Document is a quote, work order or invoice for a client.
// Subtotal, VATAmount and Total cache the aggregate of Lines and are always
// written together with them.
type Document struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID   string `gorm:"column:client_id;size:36;not null;index" json:"client_id"`
	ClientName string `gorm:"-" json:"client_name,omitempty"`

	Type   DocumentType   `gorm:"column:document_type;size:20;not null;index" json:"document_type"`
	Number string         `gorm:"column:document_number;size:32;not null;uniqueIndex" json:"document_number"`
	Date   time.Time      `gorm:"column:document_date;not null;index" json:"document_date"`
	Status DocumentStatus `gorm:"column:document_status;size:20;not null" json:"document_status"`

	Lines []DocumentLine `gorm:"column:lines;serializer:json;type:text" json:"lines"`

	Subtotal  decimal.Decimal `gorm:"column:subtotal_excl_vat;type:decimal(14,2);not null" json:"subtotal_excl_vat"`
	VATAmount decimal.Decimal `gorm:"column:vat_amount;type:decimal(14,2);not null" json:"vat_amount"`
	Total     decimal.Decimal `gorm:"column:total_incl_vat;type:decimal(14,2);not null" json:"total_incl_vat"`

	// Version is bumped on every line mutation and guards concurrent writers.
	Version int `gorm:"not null;default:1" json:"version"`
}

// BeforeCreate assigns a random identifier when none was provided.
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// AfterFind validates records coming out of the database.
func (d *Document) AfterFind(tx *gorm.DB) error {
	return d.Normalize()
}

// Normalize maps legacy values to their canonical form and rejects records
// that do not match the document schema.
func (d *Document) Normalize() error {
	if d.ID == "" || d.ClientID == "" || d.Number == "" {
		return fmt.Errorf("%w: document %q is missing identifiers", ErrMalformedRecord, d.ID)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: document %s has unknown type %q", ErrMalformedRecord, d.ID, d.Type)
	}
	st, err := ParseDocumentStatus(string(d.Status))
	if err != nil {
		return fmt.Errorf("%w: document %s: %v", ErrMalformedRecord, d.ID, err)
	}
	d.Status = st
	if d.Lines == nil {
		d.Lines = []DocumentLine{}
	}
	for i, l := range d.Lines {
		if l.ID == "" || l.Quantity < 1 {
			return fmt.Errorf("%w: document %s line %d is invalid", ErrMalformedRecord, d.ID, i)
		}
	}
	return nil
}

// FindLine returns the index of the line with the given id, or -1.
func (d *Document) FindLine(lineID string) int {
	for i, l := range d.Lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}

// Clone returns a copy of d whose line slice can be modified independently.
func (d *Document) Clone() *Document {
	c := *d
	c.Lines = append([]DocumentLine(nil), d.Lines...)
	return &c
}

// DocumentCounter holds the last sequence number issued per document type.
type DocumentCounter struct {
	DocumentType DocumentType `gorm:"primaryKey;size:20"`
	Value        int          `gorm:"not null"`
	UpdatedAt    time.Time
}

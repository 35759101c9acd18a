package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientStatus is the commercial relationship state of a client.
type ClientStatus string

const (
	ClientStatusLead     ClientStatus = "Lead"
	ClientStatusActive   ClientStatus = "Active"
	ClientStatusInactive ClientStatus = "Inactive"
)

// ClientStatuses lists every known client status.
var ClientStatuses = []ClientStatus{ClientStatusLead, ClientStatusActive, ClientStatusInactive}

// Valid reports whether s is one of the known client statuses.
func (s ClientStatus) Valid() bool { return slices.Contains(ClientStatuses, s) }

// Address is the postal address of a client, stored inline on the clients table.
type Address struct {
	Street string `gorm:"size:255" json:"street"`
	City   string `gorm:"size:100" json:"city"`
	State  string `gorm:"size:100" json:"state"`
	Zip    string `gorm:"size:20" json:"zip"`
}

// Client represents a customer the business issues documents to.
type Client struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name  string `gorm:"size:255;not null;index" json:"name"`
	Email string `gorm:"size:255" json:"email"`
	Phone string `gorm:"size:50" json:"phone"`

	Address Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	Status ClientStatus `gorm:"size:20;not null;default:'Lead'" json:"status"`
	Notes  string       `gorm:"type:text" json:"notes,omitempty"`
}

// BeforeCreate assigns a random identifier when none was provided.
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

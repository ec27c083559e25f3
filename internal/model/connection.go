package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
)

// Connection is a directed request from a requester to an addressee. The
// relationship itself is unordered: at most one row may exist per user pair
// in either direction, enforced by the unique index on PairKey.
type Connection struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;index" json:"addressee_id"`
	PairKey     string           `gorm:"uniqueIndex;size:43;not null" json:"-"`
	Status      ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Message     string           `gorm:"size:500" json:"message,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// PairKey returns the order-independent key for a user pair.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// BeforeCreate fills the canonical pair key so every insert path is covered
// by the uniqueness constraint.
func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	c.PairKey = PairKey(c.RequesterID, c.AddresseeID)
	return nil
}

// OtherUserID resolves the side of the connection that is not userID. The
// resolution is symmetric: it works no matter which side sent the request.
func (c *Connection) OtherUserID(userID uint) uint {
	if c.RequesterID == userID {
		return c.AddresseeID
	}
	return c.RequesterID
}

// Resolved reports whether the connection has reached a terminal status.
func (c *Connection) Resolved() bool {
	return c.Status != ConnectionPending
}

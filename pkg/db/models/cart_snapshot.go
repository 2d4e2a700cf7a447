package models

import "time"

// CartSnapshot mirrors one session's serialized cart. The in-memory cart is
// authoritative; this row is overwritten whole on every mutation.
type CartSnapshot struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}

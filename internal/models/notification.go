package models

import "time"

// Notification is an append-only record for a user. The only mutation after
// creation is flipping the read flag.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"not null" json:"content"`
	Link      string    `gorm:"size:255" json:"link,omitempty"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

// User is a foreign-key anchor for an externally managed identity. The
// identity provider owns registration and credentials; rows here are
// provisioned when an authenticated user is first seen.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

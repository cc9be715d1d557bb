package models

import "time"

// Share records a share event for a post. Token is a stable identifier for
// the generated share link; posts.shares_count is maintained alongside the
// row insert.
type Share struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index" json:"user_id"` // zero for anonymous shares
	Token     string    `gorm:"size:36;uniqueIndex;not null" json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

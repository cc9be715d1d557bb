package models

import "time"

// Like marks a post as liked by a user. The composite unique index keeps one
// like per user and post; posts.likes_count is maintained in the same
// transaction as the row.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_like_user_post,unique" json:"user_id"`
	PostID    uint      `gorm:"not null;index;index:idx_like_user_post,unique" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

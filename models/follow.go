package models

import "time"

// Follow records that FollowerID follows FollowingID. The composite unique
// index prevents duplicate edges; the users' followers_count/following_count
// are maintained in the same transaction as the row.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;index;index:idx_follow_pair,unique" json:"follower_id"`
	FollowingID uint      `gorm:"not null;index;index:idx_follow_pair,unique" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

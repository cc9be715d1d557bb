package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an application user. Passwords are stored as bcrypt hashes only.
// The streak and level fields are denormalized counters maintained by the streak
// service; they must only be written inside its transaction.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email          string         `gorm:"size:255" json:"email,omitempty"`
	PasswordHash   string         `gorm:"size:255" json:"-"`
	FirstName      string         `gorm:"size:64" json:"first_name"`
	LastName       string         `gorm:"size:64" json:"last_name"`
	Bio            string         `gorm:"size:500" json:"bio"`
	AvatarURL      string         `gorm:"size:512" json:"avatar_url"`
	CurrentStreak  int            `gorm:"default:0" json:"current_streak"`
	LongestStreak  int            `gorm:"default:0" json:"longest_streak"`
	Level          int            `gorm:"default:1" json:"level"`
	TotalPosts     int            `gorm:"default:0" json:"total_posts"`
	FollowersCount int            `gorm:"default:0" json:"followers_count"`
	FollowingCount int            `gorm:"default:0" json:"following_count"`
	LastPostDate   *time.Time     `gorm:"type:date" json:"last_post_date"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Posts          []Post         `json:"-"`
	Comments       []Comment      `json:"-"`
}

// BeforeCreate hook ensures timestamps and the starting level are set even when
// not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Level == 0 {
		u.Level = 1
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

package models

import "time"

// Post represents a single entry published by a user. MediaURLs and Tags are
// stored as JSON encoded arrays; Location is an opaque JSON string captured by
// the client.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Category      string    `gorm:"size:32;not null;default:'other'" json:"category"`
	IsPublic      bool      `gorm:"default:true" json:"is_public"`
	Level         int       `gorm:"not null" json:"level"` // author level at publish time
	MediaURLs     string    `gorm:"type:text" json:"media_urls"`
	MediaType     string    `gorm:"size:16;default:'text'" json:"media_type"` // text, image, video, reel, location
	Location      string    `gorm:"type:text" json:"location"`
	Tags          string    `gorm:"type:text" json:"tags"`
	LikesCount    int       `gorm:"default:0" json:"likes_count"`
	CommentsCount int       `gorm:"default:0" json:"comments_count"`
	SharesCount   int       `gorm:"default:0" json:"shares_count"`
	PostDate      time.Time `gorm:"type:date;not null;index" json:"post_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	User          User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Comments      []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
}

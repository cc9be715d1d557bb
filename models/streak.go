package models

import "time"

// Streak records one contiguous run of posting days for a user. Rows are
// append-only history: only the single active streak per user is ever mutated
// (its EndDate and Length advance day by day), and deactivation is the only
// write a closed streak receives.
type Streak struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	Length    int       `gorm:"not null" json:"length"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

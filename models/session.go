package models

import "time"

// Session is the revocable server-side record of one login (one per
// user+device). Valid only ever transitions true -> false; the row is never
// flipped back and never deleted by the auth subsystem. Renewal consults
// this row as the source of truth, regardless of what the refresh token says.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	UserAgent string    `gorm:"size:512" json:"userAgent"`
	Valid     bool      `gorm:"default:true;not null" json:"valid"`
}

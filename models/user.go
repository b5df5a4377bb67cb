package models

import (
	"time"
)

// User is the authoritative principal record. Tokens embed a snapshot of the
// auth-relevant fields (id, username, admin/guest flags); that snapshot can
// go stale, so guards that need freshness re-read this row.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Username       string    `gorm:"size:100;not null;uniqueIndex" json:"username"`
	HashedPassword []byte    `gorm:"not null" json:"-"`
	FirstName      string    `gorm:"size:100;not null" json:"firstName"`
	LastName       string    `gorm:"size:100;not null" json:"lastName"`
	ImageURL       string    `gorm:"size:512" json:"imageUrl"`
	City           string    `gorm:"size:200" json:"city"`
	State          string    `gorm:"size:200" json:"state"`
	Country        string    `gorm:"size:200" json:"country"`
	IsAdmin        bool      `gorm:"default:false;not null" json:"isAdmin"`
	IsGuest        bool      `gorm:"default:false;not null" json:"isGuest"`
	Following      []*User   `gorm:"many2many:user_follows;joinForeignKey:FollowerID;joinReferences:FolloweeID" json:"-"`
	Followers      []*User   `gorm:"many2many:user_follows;joinForeignKey:FolloweeID;joinReferences:FollowerID" json:"-"`
}

// FullName mirrors the display name the frontend shows in lists and search.
func (u *User) FullName() string {
	if u.FirstName == "" || u.LastName == "" {
		return ""
	}
	return u.FirstName + " " + u.LastName
}

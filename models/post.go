package models

import "time"

// Post belongs to an author; guests only produce private posts.
type Post struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	AuthorID     uint       `gorm:"index;not null" json:"authorId"`
	Author       User       `gorm:"foreignKey:AuthorID" json:"author"`
	Text         string     `gorm:"not null" json:"text"`
	PostDate     time.Time  `gorm:"not null;index" json:"postDate"`
	LastEditDate *time.Time `json:"lastEditDate"`
	IsPublicPost bool       `gorm:"default:false;not null" json:"isPublicPost"`
	Likes        []User     `gorm:"many2many:post_likes" json:"-"`
	Comments     []Comment  `gorm:"foreignKey:PostID" json:"-"`

	// Filled by handlers before serialization, not stored.
	LikeIDs     []uint `gorm:"-" json:"likes"`
	NumLikes    int64  `gorm:"-" json:"numLikes"`
	NumComments int64  `gorm:"-" json:"numComments"`
}

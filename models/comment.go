package models

import "time"

// Comment hangs off a post. Same visibility rule as posts: guests only
// produce private comments.
type Comment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	PostID          uint       `gorm:"index;not null" json:"postId"`
	AuthorID        uint       `gorm:"index;not null" json:"authorId"`
	Author          User       `gorm:"foreignKey:AuthorID" json:"author"`
	Text            string     `gorm:"not null" json:"text"`
	PostDate        time.Time  `gorm:"not null;index" json:"postDate"`
	LastEditDate    *time.Time `json:"lastEditDate"`
	IsPublicComment bool       `gorm:"default:false;not null" json:"isPublicComment"`
	Likes           []User     `gorm:"many2many:comment_likes" json:"-"`

	LikeIDs  []uint `gorm:"-" json:"likes"`
	NumLikes int64  `gorm:"-" json:"numLikes"`
}

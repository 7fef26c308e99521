package models

import "time"

// Like joins a user and a post. The pair is unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"PostId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user;index" json:"UserId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

package models

import "time"

// Comment represents a reply to a post. Comments are never edited.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommentText string    `gorm:"size:2000;not null" json:"commentText"`
	Username    string    `gorm:"size:64;not null" json:"username"`
	PostID      uint      `gorm:"index;not null" json:"PostId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

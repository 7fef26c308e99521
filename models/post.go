package models

import "time"

// Post is authored by a user. Username is a denormalised copy, not a foreign key,
// so posts outlive the account that wrote them.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255" json:"title"`
	PostText  string    `gorm:"type:text;not null" json:"postText"`
	Username  string    `gorm:"size:64;not null;index" json:"username"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Likes     []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"Likes"`
}

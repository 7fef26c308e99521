package models

import "time"

// ActionType classifies an audit record.
type ActionType string

const (
	ActionInsert ActionType = "insert"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// Model names recorded in LogEntry.ModelName.
const (
	ModelUsers    = "Users"
	ModelPosts    = "Posts"
	ModelComments = "Comments"
	ModelLikes    = "Likes"
)

// LogEntry is an append-only audit record. InvokerID is nil for self-registration.
type LogEntry struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ActionType  ActionType `gorm:"size:16;not null;index" json:"actionType"`
	ModelName   string     `gorm:"size:32;not null;index" json:"modelName"`
	InvokerID   *uint      `gorm:"index" json:"invokerId"`
	Description string     `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName keeps the table name short.
func (LogEntry) TableName() string {
	return "logs"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}, &Like{}, &LogEntry{}}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType tags what kind of event a notification records.
type NotificationType string

const (
	NotificationTypeQuestCompleted NotificationType = "quest_completed"
)

// Notification is an immutable event record addressed to a user.
// Only ReadAt ever changes, and only once, from unset to set.
type Notification struct {
	ID      string           `gorm:"primaryKey;type:uuid" json:"id"`
	UserID  string           `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestID *string          `gorm:"type:uuid" json:"quest_id,omitempty"`
	Type    NotificationType `gorm:"size:32;not null" json:"type"`
	Message string           `gorm:"size:500;not null" json:"message"`

	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CrowdLevel is the reported busyness of a spot.
type CrowdLevel string

const (
	CrowdLevelLow    CrowdLevel = "low"
	CrowdLevelMedium CrowdLevel = "medium"
	CrowdLevelHigh   CrowdLevel = "high"
)

func (c CrowdLevel) Valid() bool {
	switch c {
	case CrowdLevelLow, CrowdLevelMedium, CrowdLevelHigh:
		return true
	}
	return false
}

// Spot is a user-authored, located post. SkinID freezes the author's
// equipped skin at post time so later re-equips don't repaint old pins.
type Spot struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	AuthorID string `gorm:"type:uuid;not null;index" json:"author_id"`
	SkinID   string `gorm:"type:uuid;not null" json:"skin_id"`

	Latitude  float64 `gorm:"not null;index" json:"latitude"`
	Longitude float64 `gorm:"not null;index" json:"longitude"`

	Title       string  `gorm:"size:50;not null" json:"title"`
	Description *string `gorm:"size:200" json:"description,omitempty"`
	ImageURL    *string `gorm:"size:500" json:"image_url,omitempty"`

	CrowdLevel CrowdLevel `gorm:"size:16;not null;default:'medium'" json:"crowd_level"`
	Rating     int        `gorm:"not null;default:3" json:"rating"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Skin   *Skin `gorm:"foreignKey:SkinID" json:"skin,omitempty"`
}

func (s *Spot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultSkinName is the well-known catalog entry every new user is
// granted at signup. It is seeded on first use with price 0.
const DefaultSkinName = "Default Pin"

// Skin is a purchasable map-pin cosmetic.
type Skin struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"size:50;not null;index" json:"name"`
	ImageURL  string    `gorm:"size:500;not null" json:"image_url"`
	Price     int       `gorm:"not null;default:100" json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Skin) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// UserSkin is an ownership fact. The composite unique index is what
// actually guarantees one row per (user, skin) under concurrent
// purchases; the pre-insert ownership check is only a fast path.
type UserSkin struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_skin" json:"user_id"`
	SkinID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_skin" json:"skin_id"`
	PurchasedAt time.Time `gorm:"autoCreateTime" json:"purchased_at"`

	Skin *Skin `gorm:"foreignKey:SkinID" json:"skin,omitempty"`
}

func (us *UserSkin) BeforeCreate(tx *gorm.DB) error {
	if us.ID == "" {
		us.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account record. Coins is only ever mutated through the
// coin ledger so the non-negativity invariant lives in one place.
type User struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username       string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	IconURL        *string   `gorm:"size:500" json:"icon_url,omitempty"`
	Coins          int       `gorm:"not null;default:0" json:"coins"`
	CurrentSkinID  *string   `gorm:"type:uuid" json:"current_skin_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	CurrentSkin *Skin `gorm:"foreignKey:CurrentSkinID" json:"current_skin,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

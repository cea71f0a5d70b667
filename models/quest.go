package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestStatus is the quest-level lifecycle state.
type QuestStatus string

const (
	QuestStatusOpen      QuestStatus = "open"
	QuestStatusAccepted  QuestStatus = "accepted"
	QuestStatusCompleted QuestStatus = "completed"
	QuestStatusExpired   QuestStatus = "expired"
	QuestStatusCancelled QuestStatus = "cancelled"
)

// Terminal reports whether no further transitions are allowed.
func (s QuestStatus) Terminal() bool {
	switch s {
	case QuestStatusCompleted, QuestStatusExpired, QuestStatusCancelled:
		return true
	}
	return false
}

// ParticipantStatus is one walker's state on one quest.
type ParticipantStatus string

const (
	ParticipantStatusInvited  ParticipantStatus = "invited"
	ParticipantStatusAccepted ParticipantStatus = "accepted"
	ParticipantStatusReported ParticipantStatus = "reported"
	ParticipantStatusSettled  ParticipantStatus = "settled"
	ParticipantStatusExpired  ParticipantStatus = "expired"
	ParticipantStatusDeclined ParticipantStatus = "declined"
)

// Quest is a bounty-bearing request for another user to visit a
// location and report back. LockedBountyCoins mirrors BountyCoins at
// creation; settlement of the lock is deferred, nothing in the
// lifecycle moves coins yet.
type Quest struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	RequesterID string `gorm:"type:uuid;not null;index" json:"requester_id"`

	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
	// RadiusM is accepted and stored but not used for filtering.
	RadiusM float64 `gorm:"not null;default:0" json:"radius_m"`

	Title       string  `gorm:"size:50;not null" json:"title"`
	Description *string `gorm:"size:500" json:"description,omitempty"`

	BountyCoins       int `gorm:"not null;default:0" json:"bounty_coins"`
	LockedBountyCoins int `gorm:"not null;default:0" json:"locked_bounty_coins"`

	Status              QuestStatus `gorm:"size:16;not null;default:'open';index" json:"status"`
	ActiveParticipantID *string     `gorm:"type:uuid" json:"active_participant_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at,omitempty"`
	ExpiredAt   *time.Time `json:"expired_at,omitempty"`

	Requester    *User              `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Participants []QuestParticipant `gorm:"foreignKey:QuestID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
}

func (q *Quest) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// QuestParticipant records one walker's engagement with one quest.
// At most one row exists per (quest, walker); at most one participant
// is the quest's active one.
type QuestParticipant struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	QuestID  string `gorm:"type:uuid;not null;uniqueIndex:idx_quest_walker" json:"quest_id"`
	WalkerID string `gorm:"type:uuid;not null;uniqueIndex:idx_quest_walker" json:"walker_id"`

	Status           ParticipantStatus `gorm:"size:16;not null;default:'invited'" json:"status"`
	DistanceAtAccept float64           `gorm:"not null;default:0" json:"distance_at_accept"`
	AcceptedAt       *time.Time        `json:"accepted_at,omitempty"`
	ReportedAt       *time.Time        `json:"reported_at,omitempty"`

	ReportPhotoURL  *string  `gorm:"size:500" json:"report_photo_url,omitempty"`
	ReportComment   *string  `gorm:"size:500" json:"report_comment,omitempty"`
	ReportLatitude  *float64 `json:"report_latitude,omitempty"`
	ReportLongitude *float64 `json:"report_longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Walker *User `gorm:"foreignKey:WalkerID" json:"walker,omitempty"`
}

func (p *QuestParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

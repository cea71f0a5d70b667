package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"numyp-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestService struct {
	DB *gorm.DB
}

func NewQuestService(db *gorm.DB) *QuestService {
	return &QuestService{DB: db}
}

// CreateQuestInput is the payload for a new quest.
type CreateQuestInput struct {
	Latitude    float64
	Longitude   float64
	RadiusM     float64
	Title       string
	Description *string
	BountyCoins int
	ExpiresAt   *time.Time
}

// ReportInput is a walker's completion report.
type ReportInput struct {
	PhotoURL  *string
	Comment   *string
	Latitude  *float64
	Longitude *float64
}

// CompletionReport is the requester-facing view of a finished quest.
type CompletionReport struct {
	Quest       *models.Quest            `json:"quest"`
	Participant *models.QuestParticipant `json:"participant,omitempty"`
}

// CreateQuest creates a quest in the open state. The full bounty is
// recorded as locked, but the requester's balance is not debited here:
// bounty settlement is deferred, no lifecycle operation moves coins.
func (s *QuestService) CreateQuest(requesterID string, in CreateQuestInput) (*models.Quest, error) {
	if in.BountyCoins < 0 {
		return nil, fmt.Errorf("negative bounty: %w", ErrInvalidState)
	}

	var quest models.Quest
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var requester models.User
		if err := tx.First(&requester, "id = ?", requesterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("requester %s: %w", requesterID, ErrNotFound)
			}
			return err
		}

		quest = models.Quest{
			RequesterID:       requesterID,
			Latitude:          in.Latitude,
			Longitude:         in.Longitude,
			RadiusM:           in.RadiusM,
			Title:             in.Title,
			Description:       in.Description,
			BountyCoins:       in.BountyCoins,
			LockedBountyCoins: in.BountyCoins,
			Status:            models.QuestStatusOpen,
			ExpiresAt:         in.ExpiresAt,
		}
		if err := tx.Create(&quest).Error; err != nil {
			return err
		}

		quest.Requester = &requester
		quest.Participants = []models.QuestParticipant{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &quest, nil
}

// AcceptQuest records a walker's acceptance. Re-accepting is idempotent:
// the existing (quest, walker) row is refreshed in place rather than
// duplicated. The quest moves to accepted; accepted_at is written only
// by the first acceptance, and the active participant slot is
// first-accepter-wins — later walkers get rows but do not displace it.
func (s *QuestService) AcceptQuest(questID, walkerID string, distanceAtAccept float64) (*models.Quest, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var quest models.Quest
		if err := tx.First(&quest, "id = ?", questID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("quest %s: %w", questID, ErrNotFound)
			}
			return err
		}
		if quest.Status.Terminal() {
			return fmt.Errorf("quest %s is %s: %w", questID, quest.Status, ErrInvalidState)
		}

		var walker models.User
		if err := tx.First(&walker, "id = ?", walkerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("walker %s: %w", walkerID, ErrNotFound)
			}
			return err
		}

		now := time.Now()

		// Upsert keyed on (quest, walker): a re-accept — or a
		// concurrent accept by the same walker — refreshes the
		// existing row in place instead of failing the insert.
		// One statement, so the transaction never sees a
		// constraint error (postgres aborts the tx on any failed
		// statement, recovery inside it is impossible).
		participant := models.QuestParticipant{
			QuestID:          questID,
			WalkerID:         walkerID,
			Status:           models.ParticipantStatusAccepted,
			DistanceAtAccept: distanceAtAccept,
			AcceptedAt:       &now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "quest_id"}, {Name: "walker_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":             models.ParticipantStatusAccepted,
				"distance_at_accept": distanceAtAccept,
				"accepted_at":        &now,
				"updated_at":         now,
			}),
		}).Create(&participant).Error; err != nil {
			return err
		}

		// On conflict the stored row keeps its original id; reload
		// so markAccepted records the right participant.
		if err := tx.Where("quest_id = ? AND walker_id = ?", questID, walkerID).
			First(&participant).Error; err != nil {
			return err
		}

		return s.markAccepted(tx, &quest, &participant, now)
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestByID(questID)
}

// markAccepted moves the quest into the accepted state. Idempotent:
// accepted_at keeps the first acceptance's timestamp and the active
// participant slot is only filled when empty.
func (s *QuestService) markAccepted(tx *gorm.DB, quest *models.Quest, participant *models.QuestParticipant, now time.Time) error {
	updates := map[string]interface{}{
		"status": models.QuestStatusAccepted,
	}
	if quest.AcceptedAt == nil {
		updates["accepted_at"] = &now
	}
	if quest.ActiveParticipantID == nil {
		updates["active_participant_id"] = participant.ID
	}
	return tx.Model(quest).Updates(updates).Error
}

// SubmitReport marks the walker's participation as reported and the
// quest as completed, then emits a notification to the requester, all
// in one transaction. A walker with no participant row never accepted
// the quest, which is ErrForbidden.
func (s *QuestService) SubmitReport(questID, walkerID string, in ReportInput) (*models.Quest, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var quest models.Quest
		if err := tx.First(&quest, "id = ?", questID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("quest %s: %w", questID, ErrNotFound)
			}
			return err
		}
		if quest.Status.Terminal() {
			return fmt.Errorf("quest %s is %s: %w", questID, quest.Status, ErrInvalidState)
		}

		var participant models.QuestParticipant
		if err := tx.Where("quest_id = ? AND walker_id = ?", questID, walkerID).
			First(&participant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("walker %s never accepted quest %s: %w", walkerID, questID, ErrForbidden)
			}
			return err
		}

		now := time.Now()
		participant.Status = models.ParticipantStatusReported
		participant.ReportedAt = &now
		participant.ReportPhotoURL = in.PhotoURL
		participant.ReportComment = in.Comment
		participant.ReportLatitude = in.Latitude
		participant.ReportLongitude = in.Longitude
		if err := tx.Save(&participant).Error; err != nil {
			return err
		}

		// The walker whose report completed the quest becomes the
		// active participant, so the completion report always shows
		// the report that closed it out.
		if err := tx.Model(&quest).Updates(map[string]interface{}{
			"status":                models.QuestStatusCompleted,
			"completed_at":          &now,
			"active_participant_id": participant.ID,
		}).Error; err != nil {
			return err
		}

		// Self-completed quests don't notify anyone.
		if walkerID == quest.RequesterID {
			return nil
		}

		var walker models.User
		if err := tx.First(&walker, "id = ?", walkerID).Error; err != nil {
			return err
		}
		notification := models.Notification{
			UserID:  quest.RequesterID,
			QuestID: &quest.ID,
			Type:    models.NotificationTypeQuestCompleted,
			Message: fmt.Sprintf("%s completed your quest %q", walker.Username, quest.Title),
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestByID(questID)
}

// GetCompletionReport returns the quest and its active participant's
// report fields. Only the requester may see it.
func (s *QuestService) GetCompletionReport(questID, callerID string) (*CompletionReport, error) {
	quest, err := s.GetQuestByID(questID)
	if err != nil {
		return nil, err
	}
	if quest.RequesterID != callerID {
		return nil, fmt.Errorf("caller %s is not the requester: %w", callerID, ErrForbidden)
	}

	report := &CompletionReport{Quest: quest}
	if quest.ActiveParticipantID != nil {
		for i := range quest.Participants {
			if quest.Participants[i].ID == *quest.ActiveParticipantID {
				report.Participant = &quest.Participants[i]
				break
			}
		}
	}
	return report, nil
}

// CancelQuest lets the requester call off a quest that has not yet
// reached a terminal state. Participants who neither reported nor
// already left the quest are marked declined.
func (s *QuestService) CancelQuest(questID, callerID string) (*models.Quest, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var quest models.Quest
		if err := tx.First(&quest, "id = ?", questID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("quest %s: %w", questID, ErrNotFound)
			}
			return err
		}
		if quest.RequesterID != callerID {
			return fmt.Errorf("caller %s is not the requester: %w", callerID, ErrForbidden)
		}
		if quest.Status.Terminal() {
			return fmt.Errorf("quest %s is %s: %w", questID, quest.Status, ErrInvalidState)
		}

		if err := tx.Model(&models.QuestParticipant{}).
			Where("quest_id = ? AND status IN ?", questID,
				[]models.ParticipantStatus{models.ParticipantStatusInvited, models.ParticipantStatusAccepted}).
			Update("status", models.ParticipantStatusDeclined).Error; err != nil {
			return err
		}

		return tx.Model(&quest).Update("status", models.QuestStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestByID(questID)
}

// ExpireOverdue flips quests whose deadline has passed to expired,
// along with their undecided participants. Used by the scheduler.
func (s *QuestService) ExpireOverdue(now time.Time) (int, error) {
	var expired int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var quests []models.Quest
		if err := tx.Where("status IN ? AND expires_at IS NOT NULL AND expires_at <= ?",
			[]models.QuestStatus{models.QuestStatusOpen, models.QuestStatusAccepted}, now).
			Find(&quests).Error; err != nil {
			return err
		}

		for i := range quests {
			q := &quests[i]
			if err := tx.Model(&models.QuestParticipant{}).
				Where("quest_id = ? AND status IN ?", q.ID,
					[]models.ParticipantStatus{models.ParticipantStatusInvited, models.ParticipantStatusAccepted}).
				Update("status", models.ParticipantStatusExpired).Error; err != nil {
				return err
			}
			if err := tx.Model(q).Updates(map[string]interface{}{
				"status":     models.QuestStatusExpired,
				"expired_at": &now,
			}).Error; err != nil {
				return err
			}
			log.Printf("⏳ Quest expired: %s (%s)", q.Title, q.ID)
		}
		expired = len(quests)
		return nil
	})
	return expired, err
}

// ListQuests returns all quests with requester, participants and each
// participant's walker eagerly loaded. Pure read, no transitions.
func (s *QuestService) ListQuests(limit int) ([]models.Quest, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var quests []models.Quest
	err := s.DB.
		Preload("Requester").
		Preload("Participants").
		Preload("Participants.Walker").
		Order("created_at DESC").
		Limit(limit).
		Find(&quests).Error
	if err != nil {
		return nil, err
	}
	return quests, nil
}

// GetQuestByID loads one quest with its full relational graph.
func (s *QuestService) GetQuestByID(id string) (*models.Quest, error) {
	var quest models.Quest
	err := s.DB.
		Preload("Requester").
		Preload("Participants").
		Preload("Participants.Walker").
		First(&quest, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quest %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &quest, nil
}

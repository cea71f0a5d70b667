package services

import (
	"errors"
	"fmt"
	"time"

	"numyp-backend/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

// ListNotifications returns the user's feed, newest first.
func (s *NotificationService) ListNotifications(userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.DB.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread returns total and unread counts for the user's feed.
func (s *NotificationService) CountUnread(userID string) (total int64, unread int64, err error) {
	if err = s.DB.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&unread).Error; err != nil {
		return 0, 0, err
	}
	return total, unread, nil
}

// MarkRead sets read_at once. The lookup is scoped to the caller, and a
// miss is ErrNotFound either way — another user's notification is
// indistinguishable from a nonexistent one. Already-read is a no-op.
func (s *NotificationService) MarkRead(notificationID, userID string) (*models.Notification, error) {
	var notification models.Notification
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", notificationID, userID).
			First(&notification).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("notification %s: %w", notificationID, ErrNotFound)
			}
			return err
		}

		if notification.ReadAt != nil {
			return nil
		}

		now := time.Now()
		notification.ReadAt = &now
		return tx.Model(&notification).Update("read_at", &now).Error
	})
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

package services

import (
	"testing"
	"time"

	"numyp-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNotificationsOrderAndFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	user := createTestUser(t, db, "alice", 0)

	older := models.Notification{
		UserID:    user.ID,
		Type:      models.NotificationTypeQuestCompleted,
		Message:   "older",
		CreatedAt: time.Now().Add(-time.Hour),
	}
	newer := models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationTypeQuestCompleted,
		Message: "newer",
	}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	all, err := svc.ListNotifications(user.ID, false, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "newer", all[0].Message, "newest first")

	_, err = svc.MarkRead(newer.ID, user.ID)
	require.NoError(t, err)

	unread, err := svc.ListNotifications(user.ID, true, 10)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "older", unread[0].Message)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	user := createTestUser(t, db, "bob", 0)

	n := models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationTypeQuestCompleted,
		Message: "hello",
	}
	require.NoError(t, db.Create(&n).Error)

	first, err := svc.MarkRead(n.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)
	firstReadAt := *first.ReadAt

	second, err := svc.MarkRead(n.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, second.ReadAt.Equal(firstReadAt), "read_at transitions exactly once")
}

func TestMarkReadDoesNotLeakOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	owner := createTestUser(t, db, "owner", 0)
	snoop := createTestUser(t, db, "snoop", 0)

	n := models.Notification{
		UserID:  owner.ID,
		Type:    models.NotificationTypeQuestCompleted,
		Message: "private",
	}
	require.NoError(t, db.Create(&n).Error)

	// Another user's notification reads as missing, never forbidden.
	_, err := svc.MarkRead(n.ID, snoop.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCountUnread(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	user := createTestUser(t, db, "carol", 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Notification{
			UserID:  user.ID,
			Type:    models.NotificationTypeQuestCompleted,
			Message: "n",
		}).Error)
	}

	var first models.Notification
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&first).Error)
	_, err := svc.MarkRead(first.ID, user.ID)
	require.NoError(t, err)

	total, unread, err := svc.CountUnread(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.EqualValues(t, 2, unread)
}

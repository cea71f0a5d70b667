package services

import (
	"testing"
	"time"

	"numyp-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuest(t *testing.T, svc *QuestService, requesterID string, bounty int) *models.Quest {
	t.Helper()
	quest, err := svc.CreateQuest(requesterID, CreateQuestInput{
		Latitude:    35.6812,
		Longitude:   139.7671,
		RadiusM:     500,
		Title:       "Check the shrine",
		BountyCoins: bounty,
	})
	require.NoError(t, err)
	return quest
}

func TestCreateQuestLocksBounty(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 100)

	quest := newQuest(t, svc, requester.ID, 30)
	assert.Equal(t, models.QuestStatusOpen, quest.Status)
	assert.Equal(t, 30, quest.BountyCoins)
	assert.Equal(t, 30, quest.LockedBountyCoins)
	assert.NotNil(t, quest.Requester)
	assert.Empty(t, quest.Participants)

	// Settlement is deferred: creating a quest must not debit.
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", requester.ID).Error)
	assert.Equal(t, 100, reloaded.Coins)
}

func TestCreateQuestMissingRequester(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)

	_, err := svc.CreateQuest("00000000-0000-0000-0000-000000000009", CreateQuestInput{Title: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptQuest(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	walker := createTestUser(t, db, "walker", 0)

	quest := newQuest(t, svc, requester.ID, 10)

	accepted, err := svc.AcceptQuest(quest.ID, walker.ID, 120.5)
	require.NoError(t, err)
	assert.Equal(t, models.QuestStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	require.Len(t, accepted.Participants, 1)

	p := accepted.Participants[0]
	assert.Equal(t, walker.ID, p.WalkerID)
	assert.Equal(t, models.ParticipantStatusAccepted, p.Status)
	assert.Equal(t, 120.5, p.DistanceAtAccept)
	require.NotNil(t, p.AcceptedAt)
	require.NotNil(t, accepted.ActiveParticipantID)
	assert.Equal(t, p.ID, *accepted.ActiveParticipantID)
}

func TestAcceptQuestIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	walker := createTestUser(t, db, "walker", 0)

	quest := newQuest(t, svc, requester.ID, 10)

	first, err := svc.AcceptQuest(quest.ID, walker.ID, 100)
	require.NoError(t, err)
	firstAcceptedAt := *first.AcceptedAt

	second, err := svc.AcceptQuest(quest.ID, walker.ID, 80)
	require.NoError(t, err)

	require.Len(t, second.Participants, 1, "re-accepting must not duplicate the row")
	assert.Equal(t, 80.0, second.Participants[0].DistanceAtAccept)
	assert.Equal(t, models.QuestStatusAccepted, second.Status)
	assert.True(t, second.AcceptedAt.Equal(firstAcceptedAt), "first acceptance wins the timestamp")
}

func TestAcceptQuestFirstAccepterStaysActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	w1 := createTestUser(t, db, "walker1", 0)
	w2 := createTestUser(t, db, "walker2", 0)

	quest := newQuest(t, svc, requester.ID, 10)

	afterW1, err := svc.AcceptQuest(quest.ID, w1.ID, 50)
	require.NoError(t, err)
	require.NotNil(t, afterW1.ActiveParticipantID)
	activeID := *afterW1.ActiveParticipantID

	afterW2, err := svc.AcceptQuest(quest.ID, w2.ID, 20)
	require.NoError(t, err)
	require.Len(t, afterW2.Participants, 2, "every accepting walker gets a row")
	require.NotNil(t, afterW2.ActiveParticipantID)
	assert.Equal(t, activeID, *afterW2.ActiveParticipantID, "a later accepter must not displace the active walker")
}

func TestAcceptQuestRefreshesExistingRowInPlace(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	walker := createTestUser(t, db, "walker", 0)

	quest := newQuest(t, svc, requester.ID, 10)

	// A participant row that already landed — as after a concurrent
	// accept by the same walker — must be updated, not re-inserted.
	existing := models.QuestParticipant{
		QuestID:          quest.ID,
		WalkerID:         walker.ID,
		Status:           models.ParticipantStatusInvited,
		DistanceAtAccept: 999,
	}
	require.NoError(t, db.Create(&existing).Error)

	accepted, err := svc.AcceptQuest(quest.ID, walker.ID, 42)
	require.NoError(t, err)
	require.Len(t, accepted.Participants, 1)

	p := accepted.Participants[0]
	assert.Equal(t, existing.ID, p.ID, "the stored row keeps its identity")
	assert.Equal(t, models.ParticipantStatusAccepted, p.Status)
	assert.Equal(t, 42.0, p.DistanceAtAccept)
	require.NotNil(t, p.AcceptedAt)
	require.NotNil(t, accepted.ActiveParticipantID)
	assert.Equal(t, existing.ID, *accepted.ActiveParticipantID)
}

func TestAcceptQuestRejectsTerminal(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	walker := createTestUser(t, db, "walker", 0)

	quest := newQuest(t, svc, requester.ID, 10)
	_, err := svc.CancelQuest(quest.ID, requester.ID)
	require.NoError(t, err)

	_, err = svc.AcceptQuest(quest.ID, walker.ID, 10)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSubmitReportCompletesAndNotifies(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	walker := createTestUser(t, db, "walker", 0)

	quest := newQuest(t, svc, requester.ID, 10)
	_, err := svc.AcceptQuest(quest.ID, walker.ID, 25)
	require.NoError(t, err)

	photo := "https://cdn.test/reports/p.jpg"
	comment := "All quiet at the shrine"
	lat, lng := 35.68, 139.76
	completed, err := svc.SubmitReport(quest.ID, walker.ID, ReportInput{
		PhotoURL:  &photo,
		Comment:   &comment,
		Latitude:  &lat,
		Longitude: &lng,
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuestStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	require.Len(t, completed.Participants, 1)
	p := completed.Participants[0]
	assert.Equal(t, models.ParticipantStatusReported, p.Status)
	require.NotNil(t, p.ReportedAt)
	assert.Equal(t, photo, *p.ReportPhotoURL)
	assert.Equal(t, comment, *p.ReportComment)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", requester.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, models.NotificationTypeQuestCompleted, n.Type)
	require.NotNil(t, n.QuestID)
	assert.Equal(t, quest.ID, *n.QuestID)
	assert.Contains(t, n.Message, "walker")
	assert.Nil(t, n.ReadAt)
}

func TestSubmitReportByOwnRequesterSkipsNotification(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)

	quest := newQuest(t, svc, requester.ID, 10)
	_, err := svc.AcceptQuest(quest.ID, requester.ID, 0)
	require.NoError(t, err)

	_, err = svc.SubmitReport(quest.ID, requester.ID, ReportInput{})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitReportWithoutAcceptIsForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	stranger := createTestUser(t, db, "stranger", 0)

	quest := newQuest(t, svc, requester.ID, 10)

	_, err := svc.SubmitReport(quest.ID, stranger.ID, ReportInput{})
	require.ErrorIs(t, err, ErrForbidden)

	reloaded, getErr := svc.GetQuestByID(quest.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.QuestStatusOpen, reloaded.Status, "a forbidden report must leave the quest unchanged")
}

func TestGetCompletionReport(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	walker := createTestUser(t, db, "walker", 0)

	quest := newQuest(t, svc, requester.ID, 10)
	_, err := svc.AcceptQuest(quest.ID, walker.ID, 30)
	require.NoError(t, err)
	comment := "done"
	_, err = svc.SubmitReport(quest.ID, walker.ID, ReportInput{Comment: &comment})
	require.NoError(t, err)

	report, err := svc.GetCompletionReport(quest.ID, requester.ID)
	require.NoError(t, err)
	require.NotNil(t, report.Participant)
	assert.Equal(t, comment, *report.Participant.ReportComment)

	_, err = svc.GetCompletionReport(quest.ID, walker.ID)
	require.ErrorIs(t, err, ErrForbidden, "only the requester may view the completion report")
}

func TestCompletionReportShowsReportingWalker(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	w1 := createTestUser(t, db, "walker1", 0)
	w2 := createTestUser(t, db, "walker2", 0)

	quest := newQuest(t, svc, requester.ID, 10)
	_, err := svc.AcceptQuest(quest.ID, w1.ID, 10)
	require.NoError(t, err)
	_, err = svc.AcceptQuest(quest.ID, w2.ID, 20)
	require.NoError(t, err)

	// The second walker reports, not the active first accepter.
	comment := "found it"
	completed, err := svc.SubmitReport(quest.ID, w2.ID, ReportInput{Comment: &comment})
	require.NoError(t, err)

	report, err := svc.GetCompletionReport(quest.ID, requester.ID)
	require.NoError(t, err)
	require.NotNil(t, report.Participant)
	assert.Equal(t, w2.ID, report.Participant.WalkerID, "the reporting walker becomes active")
	require.NotNil(t, report.Participant.ReportComment)
	assert.Equal(t, comment, *report.Participant.ReportComment)
	require.NotNil(t, completed.ActiveParticipantID)
	assert.Equal(t, report.Participant.ID, *completed.ActiveParticipantID)
}

func TestCancelQuest(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	walker := createTestUser(t, db, "walker", 0)

	quest := newQuest(t, svc, requester.ID, 10)
	_, err := svc.AcceptQuest(quest.ID, walker.ID, 5)
	require.NoError(t, err)

	_, err = svc.CancelQuest(quest.ID, walker.ID)
	require.ErrorIs(t, err, ErrForbidden)

	cancelled, err := svc.CancelQuest(quest.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestStatusCancelled, cancelled.Status)
	require.Len(t, cancelled.Participants, 1)
	assert.Equal(t, models.ParticipantStatusDeclined, cancelled.Participants[0].Status)

	_, err = svc.CancelQuest(quest.ID, requester.ID)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestExpireOverdue(t *testing.T) {
	db := newTestDB(t)
	svc := NewQuestService(db)
	requester := createTestUser(t, db, "requester", 0)
	walker := createTestUser(t, db, "walker", 0)

	past := time.Now().Add(-time.Hour)
	overdue, err := svc.CreateQuest(requester.ID, CreateQuestInput{
		Title:       "old quest",
		BountyCoins: 5,
		ExpiresAt:   &past,
	})
	require.NoError(t, err)
	_, err = svc.AcceptQuest(overdue.ID, walker.ID, 10)
	require.NoError(t, err)

	fresh := newQuest(t, svc, requester.ID, 5)

	n, err := svc.ExpireOverdue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	expired, err := svc.GetQuestByID(overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestStatusExpired, expired.Status)
	require.NotNil(t, expired.ExpiredAt)
	require.Len(t, expired.Participants, 1)
	assert.Equal(t, models.ParticipantStatusExpired, expired.Participants[0].Status)

	untouched, err := svc.GetQuestByID(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestStatusOpen, untouched.Status)
}

package services

import (
	"testing"

	"numyp-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAdjustBalanceAccumulates(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", 5)

	deltas := []int{10, -3, 7, -5, 20}
	want := 5
	for _, d := range deltas {
		var got int
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			got, err = AdjustBalance(tx, user.ID, d)
			return err
		})
		require.NoError(t, err)
		want += d
		assert.Equal(t, want, got)
	}

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, want, reloaded.Coins)
}

func TestAdjustBalanceRejectsNegative(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "bob", 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := AdjustBalance(tx, user.ID, -11)
		return err
	})
	require.ErrorIs(t, err, ErrInsufficientCoins)
	require.ErrorIs(t, err, ErrInvalidState, "a rejected delta is an invariant violation")

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 10, reloaded.Coins, "rejected delta must leave the balance unchanged")
}

func TestAdjustBalanceMissingUser(t *testing.T) {
	db := newTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := AdjustBalance(tx, "00000000-0000-0000-0000-000000000000", 5)
		return err
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdjustBalanceIsPendingUntilCommit(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "carol", 0)

	// A failing transaction must roll the adjustment back.
	sentinel := assert.AnError
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := AdjustBalance(tx, user.ID, 50); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 0, reloaded.Coins)
}

package services

import (
	"errors"
	"fmt"

	"numyp-backend/models"

	"gorm.io/gorm"
)

// SpotRewardCoins is credited to an author for every posted spot.
const SpotRewardCoins = 10

// AdjustBalance applies a signed delta to a user's coin balance on the
// caller's transaction scope and returns the new balance. It never
// commits; the write becomes visible only when tx commits, so callers
// can compose the adjustment with their own writes atomically.
//
// Returns ErrNotFound for a missing user and ErrInsufficientCoins when
// the delta would take the balance negative (balance is untouched).
func AdjustBalance(tx *gorm.DB, userID string, delta int) (int, error) {
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("adjust balance for %s: %w", userID, ErrNotFound)
		}
		return 0, err
	}

	newBalance := user.Coins + delta
	if newBalance < 0 {
		return user.Coins, fmt.Errorf("balance %d + delta %d: %w", user.Coins, delta, ErrInsufficientCoins)
	}

	if err := tx.Model(&user).Update("coins", newBalance).Error; err != nil {
		return user.Coins, err
	}
	return newBalance, nil
}

package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"

	"numyp-backend/models"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Placeholder asset seeded for the default skin on first use.
//
//go:embed assets/default_pin.png
var defaultPinAsset []byte

// PurchaseResult is the outcome of a purchase attempt. These are
// expected, user-facing branches, not errors.
type PurchaseResult string

const (
	PurchaseSuccess           PurchaseResult = "success"
	PurchaseUserNotFound      PurchaseResult = "user_not_found"
	PurchaseSkinNotFound      PurchaseResult = "skin_not_found"
	PurchaseAlreadyOwned      PurchaseResult = "already_owned"
	PurchaseInsufficientCoins PurchaseResult = "insufficient_coins"
)

type SkinService struct {
	DB      *gorm.DB
	Storage Uploader
}

func NewSkinService(db *gorm.DB, storage Uploader) *SkinService {
	return &SkinService{DB: db, Storage: storage}
}

// Purchase runs the skin-purchase protocol. The checks short-circuit in
// order: user, skin, ownership, funds — a caller always learns about a
// missing entity before a funds problem. On success the debit and the
// ownership row commit atomically.
//
// remaining is the user's balance after the call; it is meaningful for
// every outcome except PurchaseUserNotFound.
func (s *SkinService) Purchase(userID, skinID string) (result PurchaseResult, remaining int, err error) {
	result = PurchaseSuccess
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = PurchaseUserNotFound
				return nil
			}
			return err
		}
		remaining = user.Coins

		var skin models.Skin
		if err := tx.First(&skin, "id = ?", skinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = PurchaseSkinNotFound
				return nil
			}
			return err
		}

		var owned int64
		if err := tx.Model(&models.UserSkin{}).
			Where("user_id = ? AND skin_id = ?", userID, skinID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			result = PurchaseAlreadyOwned
			return nil
		}

		if user.Coins < skin.Price {
			result = PurchaseInsufficientCoins
			return nil
		}

		newBalance, err := AdjustBalance(tx, userID, -skin.Price)
		if err != nil {
			return err
		}

		if err := tx.Create(&models.UserSkin{UserID: userID, SkinID: skinID}).Error; err != nil {
			// A concurrent purchase won the insert; roll back the
			// debit and report it as already owned.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result = PurchaseAlreadyOwned
				return err
			}
			return err
		}

		remaining = newBalance
		return nil
	})
	if err != nil && result == PurchaseAlreadyOwned {
		return result, remaining, nil
	}
	if err != nil {
		return result, remaining, err
	}
	return result, remaining, nil
}

// GetOrCreateDefault returns the well-known default skin, seeding it on
// first use. The asset goes to storage before the row is inserted so a
// failed upload never leaves a half-created catalog entry. The upload
// uses a fixed key, so retries overwrite the same object.
func (s *SkinService) GetOrCreateDefault(ctx context.Context, tx *gorm.DB) (*models.Skin, error) {
	var skin models.Skin
	err := tx.Where("name = ?", models.DefaultSkinName).First(&skin).Error
	if err == nil {
		return &skin, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	key := fmt.Sprintf("skins/%s.png", slug.Make(models.DefaultSkinName))
	url, err := s.Storage.Upload(ctx, defaultPinAsset, key, "image/png")
	if err != nil {
		return nil, fmt.Errorf("failed to upload default skin asset: %w", err)
	}

	skin = models.Skin{
		Name:     models.DefaultSkinName,
		ImageURL: url,
		Price:    0,
	}
	if err := tx.Create(&skin).Error; err != nil {
		return nil, err
	}
	log.Printf("✅ Seeded default skin %q (%s)", skin.Name, skin.ID)
	return &skin, nil
}

// ListSkins returns the full catalog.
func (s *SkinService) ListSkins() ([]models.Skin, error) {
	var skins []models.Skin
	if err := s.DB.Order("price ASC, created_at ASC").Find(&skins).Error; err != nil {
		return nil, err
	}
	return skins, nil
}

// SetCurrentSkin equips an owned skin. A skin the user does not own is
// ErrForbidden; a skin that does not exist is ErrNotFound.
func (s *SkinService) SetCurrentSkin(userID, skinID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var skin models.Skin
		if err := tx.First(&skin, "id = ?", skinID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("skin %s: %w", skinID, ErrNotFound)
			}
			return err
		}

		var owned int64
		if err := tx.Model(&models.UserSkin{}).
			Where("user_id = ? AND skin_id = ?", userID, skinID).
			Count(&owned).Error; err != nil {
			return err
		}
		if owned == 0 {
			return fmt.Errorf("skin %s not owned: %w", skinID, ErrForbidden)
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).Update("current_skin_id", skinID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil
	})
}

package services

import (
	"errors"
	"fmt"
	"log"

	"numyp-backend/models"

	"gorm.io/gorm"
)

type SpotService struct {
	DB      *gorm.DB
	Storage Uploader
	Skins   *SkinService
}

func NewSpotService(db *gorm.DB, storage Uploader, skins *SkinService) *SpotService {
	return &SpotService{DB: db, Storage: storage, Skins: skins}
}

// CreateSpotInput is the payload for a new spot. ImageURL is resolved
// by the handler (upload happens before any write, so a failed upload
// never costs a transaction).
type CreateSpotInput struct {
	Latitude    float64
	Longitude   float64
	Title       string
	Description *string
	ImageURL    *string
	CrowdLevel  models.CrowdLevel
	Rating      int
}

// UpdateSpotInput carries optional field updates; nil means unchanged.
type UpdateSpotInput struct {
	Title       *string
	Description *string
	CrowdLevel  *models.CrowdLevel
	Rating      *int
}

// CreateSpotWithReward inserts the spot and credits the author the
// posting reward in one transaction: either both exist afterwards or
// neither does. The author's currently equipped skin is frozen onto
// the row; the balance update is deferred until the spot has an
// identity, then everything commits once.
func (s *SpotService) CreateSpotWithReward(authorID string, in CreateSpotInput) (*models.Spot, error) {
	var spot models.Spot
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var author models.User
		if err := tx.First(&author, "id = ?", authorID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("author %s: %w", authorID, ErrNotFound)
			}
			return err
		}

		skinID := ""
		if author.CurrentSkinID != nil {
			skinID = *author.CurrentSkinID
		} else {
			def, err := s.Skins.GetOrCreateDefault(tx.Statement.Context, tx)
			if err != nil {
				return err
			}
			skinID = def.ID
		}

		crowd := in.CrowdLevel
		if !crowd.Valid() {
			crowd = models.CrowdLevelMedium
		}
		rating := in.Rating
		if rating < 1 || rating > 5 {
			rating = 3
		}

		spot = models.Spot{
			AuthorID:    authorID,
			SkinID:      skinID,
			Latitude:    in.Latitude,
			Longitude:   in.Longitude,
			Title:       in.Title,
			Description: in.Description,
			ImageURL:    in.ImageURL,
			CrowdLevel:  crowd,
			Rating:      rating,
		}
		if err := tx.Create(&spot).Error; err != nil {
			return err
		}

		newBalance, err := AdjustBalance(tx, authorID, SpotRewardCoins)
		if err != nil {
			return err
		}
		log.Printf("🪙 Spot reward: +%d coins for %s (balance %d)", SpotRewardCoins, author.Username, newBalance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetSpot(spot.ID)
}

// ListSpots is the lightweight map view: newest first, descriptions
// elided, author and skin preloaded.
func (s *SpotService) ListSpots(limit int) ([]models.Spot, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var spots []models.Spot
	err := s.DB.
		Preload("Author").
		Preload("Skin").
		Order("created_at DESC").
		Limit(limit).
		Find(&spots).Error
	if err != nil {
		return nil, err
	}
	for i := range spots {
		spots[i].Description = nil
	}
	return spots, nil
}

// GetSpot returns the full detail view of one spot.
func (s *SpotService) GetSpot(id string) (*models.Spot, error) {
	var spot models.Spot
	err := s.DB.
		Preload("Author").
		Preload("Skin").
		First(&spot, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("spot %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &spot, nil
}

// UpdateSpot applies the author's edits. Non-authors get ErrForbidden.
func (s *SpotService) UpdateSpot(spotID, callerID string, in UpdateSpotInput) (*models.Spot, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var spot models.Spot
		if err := tx.First(&spot, "id = ?", spotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("spot %s: %w", spotID, ErrNotFound)
			}
			return err
		}
		if spot.AuthorID != callerID {
			return fmt.Errorf("caller %s is not the author: %w", callerID, ErrForbidden)
		}

		if in.Title != nil {
			spot.Title = *in.Title
		}
		if in.Description != nil {
			spot.Description = in.Description
		}
		if in.CrowdLevel != nil && in.CrowdLevel.Valid() {
			spot.CrowdLevel = *in.CrowdLevel
		}
		if in.Rating != nil && *in.Rating >= 1 && *in.Rating <= 5 {
			spot.Rating = *in.Rating
		}
		return tx.Save(&spot).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetSpot(spotID)
}

// DeleteSpot removes a spot. Only the author may delete it.
func (s *SpotService) DeleteSpot(spotID, callerID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var spot models.Spot
		if err := tx.First(&spot, "id = ?", spotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("spot %s: %w", spotID, ErrNotFound)
			}
			return err
		}
		if spot.AuthorID != callerID {
			return fmt.Errorf("caller %s is not the author: %w", callerID, ErrForbidden)
		}
		return tx.Delete(&spot).Error
	})
}

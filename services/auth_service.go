package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"numyp-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccessTokenValidity is how long issued tokens stay good.
const AccessTokenValidity = 30 * time.Minute

type AuthService struct {
	DB        *gorm.DB
	Skins     *SkinService
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, skins *SkinService, jwtSecret string) *AuthService {
	return &AuthService{DB: db, Skins: skins, jwtSecret: []byte(jwtSecret)}
}

// Signup creates an account. One transaction: the user row, ownership
// of the default skin, and equipping it all land together.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUsernameTaken
		}

		defaultSkin, err := s.Skins.GetOrCreateDefault(ctx, tx)
		if err != nil {
			return err
		}

		user = models.User{
			Username:       username,
			HashedPassword: string(hash),
			Coins:          0,
			CurrentSkinID:  &defaultSkin.ID,
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUsernameTaken
			}
			return err
		}

		return tx.Create(&models.UserSkin{UserID: user.ID, SkinID: defaultSkin.ID}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues a signed access token.
func (s *AuthService) Login(username, password string) (string, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("bad credentials: %w", ErrNotFound)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return "", fmt.Errorf("bad credentials: %w", ErrNotFound)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenValidity)),
	})
	return token.SignedString(s.jwtSecret)
}

// Me returns the caller's profile with wallet and equipped skin.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Preload("CurrentSkin").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

package services

import (
	"context"
	"fmt"
	"testing"

	"numyp-backend/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. TranslateError
// matches the production postgres config so duplicate-key handling
// behaves the same way.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Each in-memory sqlite connection is its own database; pin the
	// pool to one so every query sees the migrated schema.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Skin{},
		&models.UserSkin{},
		&models.Spot{},
		&models.Quest{},
		&models.QuestParticipant{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// fakeUploader stands in for R2 in tests.
type fakeUploader struct {
	uploads []string
	fail    bool
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("upload failed")
	}
	f.uploads = append(f.uploads, key)
	return "https://cdn.test/" + key, nil
}

func createTestUser(t *testing.T, db *gorm.DB, username string, coins int) *models.User {
	t.Helper()
	user := &models.User{
		Username:       username,
		HashedPassword: "x",
		Coins:          coins,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func createTestSkin(t *testing.T, db *gorm.DB, name string, price int) *models.Skin {
	t.Helper()
	skin := &models.Skin{
		Name:     name,
		ImageURL: "https://cdn.test/skins/" + name + ".png",
		Price:    price,
	}
	if err := db.Create(skin).Error; err != nil {
		t.Fatalf("failed to create skin %s: %v", name, err)
	}
	return skin
}

// file: services/testutil_test.go
package services

import (
	"NovaCTF/config"
	"NovaCTF/database"
	"NovaCTF/models"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// newTestDB wires the package-global database handle to a fresh in-memory
// SQLite and migrates the full schema. Redis stays nil: every cache path is
// nil-tolerant.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.Load()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	// A :memory: database exists per connection; pin the pool to one.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.ChallengeLink{},
		&models.FlagCredential{},
		&models.Submission{},
		&models.SecurityAlert{},
		&models.AuditLogEntry{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.DB = db
	database.RDB = nil
	return db
}

func createUser(t *testing.T, username string, role models.UserRole, status models.UserStatus) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Password: "correct-horse-battery",
		Email:    username + "@example.com",
		Role:     role,
		Status:   status,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createChallenge(t *testing.T, title string, points uint, published bool) models.Challenge {
	t.Helper()
	chal := models.Challenge{
		Title:       title,
		Category:    "misc",
		Points:      points,
		IsPublished: published,
	}
	if err := database.DB.Create(&chal).Error; err != nil {
		t.Fatalf("create challenge %s: %v", title, err)
	}
	return chal
}

func countSubmissions(t *testing.T, userID uint32, challengeID uint32) int64 {
	t.Helper()
	var count int64
	q := database.DB.Model(&models.Submission{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if challengeID != 0 {
		q = q.Where("challenge_id = ?", challengeID)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	return count
}

// file: services/credential_service.go
package services

import (
	"NovaCTF/config"
	"NovaCTF/database"
	"NovaCTF/models"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrChallengeNotFound = errors.New("challenge does not exist")
	// ErrFlagNotConfigured means a published challenge has no credential.
	// This is a configuration error and must surface loudly, never as a
	// plain "incorrect" answer.
	ErrFlagNotConfigured = errors.New("no flag configured for challenge")
)

// SetFlag computes a fresh salted hash of the plaintext and upserts the
// challenge's credential atomically, writing one audit entry in the same
// transaction. The plaintext is never persisted or logged.
func SetFlag(actorID uint32, challengeID uint32, plaintext string) error {
	var challenge models.Challenge
	if err := database.DB.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChallengeNotFound
		}
		return err
	}

	// bcrypt generates a new salt on every call, so re-setting the same
	// plaintext still yields a different stored value.
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), config.C.BcryptCost)
	if err != nil {
		return err
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		cred := models.FlagCredential{
			ChallengeID: challengeID,
			FlagHash:    string(hash),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		// Update-in-place on conflict: at most one credential per challenge,
		// never an orphaned second row.
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "challenge_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"flag_hash", "updated_at"}),
		}).Create(&cred).Error; err != nil {
			return err
		}

		return RecordAudit(tx, actorID, models.AuditActionSetFlag, map[string]interface{}{
			"challenge_id": challengeID,
		})
	})
}

// GetFlagHash returns the stored hash for a challenge. The hash is bcrypt
// output; nothing recoverable faster than brute force.
func GetFlagHash(challengeID uint32) (string, error) {
	var cred models.FlagCredential
	err := database.DB.Where("challenge_id = ?", challengeID).First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrFlagNotConfigured
		}
		return "", err
	}
	return cred.FlagHash, nil
}

// HasFlag reports whether a credential exists; used by the admin listing so
// operators can spot published-but-unsolvable challenges.
func HasFlag(challengeID uint32) bool {
	var count int64
	database.DB.Model(&models.FlagCredential{}).Where("challenge_id = ?", challengeID).Count(&count)
	return count > 0
}

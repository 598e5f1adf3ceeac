// file: services/verifier_service.go
package services

import (
	"NovaCTF/database"
	"NovaCTF/models"
	"NovaCTF/utils"
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBanned               = errors.New("account is banned")
	ErrChallengeUnavailable = errors.New("challenge does not exist or is not published")
)

// SubmittedPrefixLimit bounds how much of an incorrect submission the ledger
// retains for the audit trail.
const SubmittedPrefixLimit = 64

type SubmitOutcome struct {
	Result  models.FlagResult
	Points  uint
	Message string
}

// SubmitFlag decides CORRECT / INCORRECT / LOCKED for one attempt and appends
// exactly one ledger row per genuine attempt (none for replays of an already
// solved challenge, none for rejected callers).
//
// The checks are ordered so that banned, unpublished and already-solved all
// short-circuit before the hash comparison runs.
func SubmitFlag(ctx context.Context, userID uint32, challengeID uint32, candidate string, ip string) (SubmitOutcome, error) {
	db := database.DB.WithContext(ctx)

	// The middleware has already checked the ban, but the verifier re-derives
	// it from the store: defense in depth at both layers.
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return SubmitOutcome{}, err
	}
	if user.IsBanned() {
		return SubmitOutcome{}, ErrBanned
	}

	var challenge models.Challenge
	if err := db.First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SubmitOutcome{}, ErrChallengeUnavailable
		}
		return SubmitOutcome{}, err
	}
	if !challenge.IsPublished {
		return SubmitOutcome{}, ErrChallengeUnavailable
	}

	var outcome SubmitOutcome
	err := db.Transaction(func(tx *gorm.DB) error {
		// Serialize concurrent submissions for this challenge so that only
		// one transaction can be "the" solving event for any user.
		if err := lockForUpdate(tx).First(&challenge, challengeID).Error; err != nil {
			return err
		}

		// Already solved: a pure read. The LOCKED reply is not part of the
		// abuse-relevant history, so there is no ledger write on this path.
		var solved int64
		if err := tx.Model(&models.Submission{}).
			Where("user_id = ? AND challenge_id = ? AND result = ?",
				userID, challengeID, models.FlagResultCorrect).
			Count(&solved).Error; err != nil {
			return err
		}
		if solved > 0 {
			outcome = SubmitOutcome{
				Result:  models.FlagResultLocked,
				Points:  0,
				Message: "You have already solved this challenge.",
			}
			return nil
		}

		var cred models.FlagCredential
		if err := tx.Where("challenge_id = ?", challengeID).First(&cred).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// An unsolvable published challenge is worse than a crash;
				// fail loudly instead of answering "incorrect" forever.
				return ErrFlagNotConfigured
			}
			return err
		}

		// bcrypt's verify is the constant-time comparison for its own
		// hashes; never compare flag strings directly.
		result := models.FlagResultCorrect
		if err := bcrypt.CompareHashAndPassword([]byte(cred.FlagHash), []byte(candidate)); err != nil {
			if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return err
			}
			result = models.FlagResultIncorrect
		}

		sub := models.Submission{
			UserID:      userID,
			ChallengeID: challengeID,
			Result:      result,
			IPAddress:   ip,
			SubmittedAt: time.Now().UTC(),
		}
		if result == models.FlagResultIncorrect {
			sub.SubmittedPrefix = truncate(candidate, SubmittedPrefixLimit)
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		if result == models.FlagResultCorrect {
			outcome = SubmitOutcome{
				Result:  models.FlagResultCorrect,
				Points:  challenge.Points,
				Message: "Correct flag, points awarded.",
			}
		} else {
			outcome = SubmitOutcome{
				Result:  models.FlagResultIncorrect,
				Points:  0,
				Message: "Incorrect flag.",
			}
		}
		return nil
	})
	if err != nil {
		return SubmitOutcome{}, err
	}

	if outcome.Result == models.FlagResultCorrect {
		InvalidateScoreboardCache()
		utils.Logger.Info("challenge solved",
			"user_id", userID, "challenge_id", challengeID, "points", outcome.Points)
	}
	return outcome, nil
}

// HasSolved reports whether a CORRECT ledger row exists for (user, challenge).
func HasSolved(userID uint32, challengeID uint32) bool {
	var count int64
	database.DB.Model(&models.Submission{}).
		Where("user_id = ? AND challenge_id = ? AND result = ?",
			userID, challengeID, models.FlagResultCorrect).
		Count(&count)
	return count > 0
}

// lockForUpdate applies a row lock on dialects that support it. SQLite (used
// by the test databases) has no FOR UPDATE; its single-writer model
// serializes the transaction anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

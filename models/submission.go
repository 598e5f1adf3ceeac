// file: models/submission.go
package models

import (
	"time"
)

type FlagResult string

const (
	FlagResultCorrect   FlagResult = "correct"
	FlagResultIncorrect FlagResult = "incorrect"
	// FlagResultLocked is returned when a user resubmits an already-solved
	// challenge. It is a response value only and is never persisted.
	FlagResultLocked FlagResult = "locked"
)

// Submission is the append-only flag-attempt ledger. Rows are never updated
// (besides the advisory suspected bit) or deleted; "already solved" and all
// scoring derive from this table alone.
type Submission struct {
	ID          uint64     `gorm:"primarykey"`
	UserID      uint32     `gorm:"not null;index:idx_submission_user_challenge"`
	ChallengeID uint32     `gorm:"not null;index:idx_submission_user_challenge"`
	Result      FlagResult `gorm:"size:20;not null;index:idx_submission_user_challenge"`
	// SubmittedPrefix keeps a bounded prefix of incorrect submissions for the
	// audit trail. Correct submissions store nothing: their text is the flag.
	SubmittedPrefix string    `gorm:"size:64"`
	IPAddress       string    `gorm:"size:45"`
	Suspected       bool      `gorm:"default:false"`
	SubmittedAt     time.Time `gorm:"index"`
}

func (Submission) TableName() string {
	return "novactf_submission"
}

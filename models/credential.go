// file: models/credential.go
package models

import (
	"time"
)

// FlagCredential stores the salted one-way hash of a challenge's flag,
// one row per challenge. The plaintext flag is never persisted anywhere.
type FlagCredential struct {
	ID          uint32    `gorm:"primarykey"`
	ChallengeID uint32    `gorm:"uniqueIndex;not null"`
	FlagHash    string    `gorm:"size:255;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (FlagCredential) TableName() string {
	return "novactf_flag_credential"
}

// file: models/audit_log.go
package models

import (
	"time"
)

// AuditLogEntry records privileged actions (flag changes, role changes,
// bans). Append-only; rows are immutable once written.
type AuditLogEntry struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	ActorID uint32 `gorm:"not null;index" json:"actor_id"`
	Action  string `gorm:"size:50;not null" json:"action"`
	// Metadata is a JSON blob with action-specific context. It must never
	// contain flag plaintext or hash material.
	Metadata  string    `gorm:"type:text" json:"metadata"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (AuditLogEntry) TableName() string {
	return "novactf_audit_log"
}

const (
	AuditActionSetFlag          = "set_flag"
	AuditActionCreateChallenge  = "create_challenge"
	AuditActionUpdateChallenge  = "update_challenge"
	AuditActionUpdateUserStatus = "update_user_status"
	AuditActionUpdateUserRole   = "update_user_role"
)

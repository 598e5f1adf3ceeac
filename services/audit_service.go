// file: services/audit_service.go
package services

import (
	"NovaCTF/models"
	"NovaCTF/utils"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// RecordAudit appends one immutable audit row. Metadata must never contain
// flag plaintext or hash material; callers pass identifiers only.
func RecordAudit(tx *gorm.DB, actorID uint32, action string, metadata map[string]interface{}) error {
	blob := ""
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		blob = string(b)
	}
	entry := models.AuditLogEntry{
		ActorID:   actorID,
		Action:    action,
		Metadata:  blob,
		CreatedAt: time.Now().UTC(),
	}
	return tx.Create(&entry).Error
}

// RecordAuditBestEffort is for paths where a failed audit write must not fail
// the operation itself (bans, role changes outside a transaction).
func RecordAuditBestEffort(tx *gorm.DB, actorID uint32, action string, metadata map[string]interface{}) {
	if err := RecordAudit(tx, actorID, action, metadata); err != nil {
		utils.Logger.Warn("audit write failed", "action", action, "actor_id", actorID, "err", err.Error())
	}
}

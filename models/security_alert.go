// file: models/security_alert.go
package models

import (
	"time"
)

type AlertType string
type AlertSeverity string

const (
	AlertTypeRapidSubmission   AlertType = "rapid_submission"
	AlertTypeBruteforce        AlertType = "bruteforce"
	AlertTypeSuspiciousPattern AlertType = "suspicious_pattern"

	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// SecurityAlert is written only by the abuse monitor and acknowledged only by
// an operator. Alerts are never auto-deleted.
type SecurityAlert struct {
	ID       uint64        `gorm:"primarykey" json:"id"`
	UserID   uint32        `gorm:"not null;index" json:"user_id"`
	Type     AlertType     `gorm:"size:30;not null" json:"type"`
	Severity AlertSeverity `gorm:"size:10;not null" json:"severity"`
	// Details carries the rule evidence as a JSON blob.
	Details   string `gorm:"type:text" json:"details"`
	Rationale string `gorm:"type:text" json:"rationale"`

	AcknowledgedBy *uint32    `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (SecurityAlert) TableName() string {
	return "novactf_security_alert"
}

func (a *SecurityAlert) Acknowledged() bool {
	return a.AcknowledgedAt != nil
}

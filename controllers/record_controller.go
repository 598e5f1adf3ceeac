// file: controllers/record_controller.go
package controllers

import (
	"NovaCTF/database"
	"NovaCTF/models"
	"NovaCTF/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// GetFlagLogs is the admin view over the submission ledger.
func GetFlagLogs(c *gin.Context) {
	type LogDetail struct {
		ID              uint64    `json:"id"`
		ChallengeID     uint32    `json:"challenge_id"`
		ChallengeTitle  string    `json:"challenge_title"`
		UserID          uint32    `json:"user_id"`
		Username        string    `json:"username"`
		SubmittedPrefix string    `json:"submitted_prefix"`
		Result          string    `json:"result"`
		SubmittedAt     time.Time `json:"submitted_at"`
		IPAddress       string    `json:"ip_address"`
		Suspected       bool      `json:"suspected"`
	}

	db := database.DB.Table("novactf_submission l").
		Select("l.id, l.challenge_id, c.title as challenge_title, l.user_id, u.username, l.submitted_prefix, l.result, l.submitted_at, l.ip_address, l.suspected").
		Joins("LEFT JOIN novactf_challenge c ON l.challenge_id = c.id").
		Joins("LEFT JOIN novactf_user u ON l.user_id = u.id")

	if challengeID := c.Query("challenge_id"); challengeID != "" {
		db = db.Where("l.challenge_id = ?", challengeID)
	}
	if userID := c.Query("user_id"); userID != "" {
		db = db.Where("l.user_id = ?", userID)
	}
	if result := c.Query("result"); result != "" {
		db = db.Where("l.result = ?", result)
	}
	if suspected := c.Query("suspected"); suspected == "1" {
		db = db.Where("l.suspected = ?", true)
	}

	var results []LogDetail
	db.Order("l.submitted_at desc").Find(&results)

	utils.Success(c, "success", results)
}

// MarkSuspectSubmission lets an operator set or clear the advisory suspected
// bit manually, the only mutation the ledger ever sees.
func MarkSuspectSubmission(c *gin.Context) {
	logID, _ := strconv.Atoi(c.Param("id"))

	var req struct {
		Suspected bool `json:"suspected"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "Invalid request body")
		return
	}

	result := database.DB.Model(&models.Submission{}).Where("id = ?", logID).Update("suspected", req.Suspected)
	if result.Error != nil {
		utils.Error(c, 5000, "Database update failed: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "Submission log not found")
		return
	}

	utils.Success(c, "Submission marked", nil)
}

// GetAuditLogs is the read-only audit trail for admins, newest first.
func GetAuditLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db := database.DB.Model(&models.AuditLogEntry{})
	if action := c.Query("action"); action != "" {
		db = db.Where("action = ?", action)
	}
	if actorID := c.Query("actor_id"); actorID != "" {
		db = db.Where("actor_id = ?", actorID)
	}

	var entries []models.AuditLogEntry
	if err := db.Order("created_at desc").Limit(limit).Find(&entries).Error; err != nil {
		utils.ServerError(c)
		return
	}

	utils.Success(c, "success", entries)
}

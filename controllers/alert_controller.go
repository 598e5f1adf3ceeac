// file: controllers/alert_controller.go
package controllers

import (
	"NovaCTF/database"
	"NovaCTF/dto"
	"NovaCTF/middlewares"
	"NovaCTF/models"
	"NovaCTF/utils"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ListAlerts shows security alerts for operator review, newest first.
func ListAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db := database.DB.Model(&models.SecurityAlert{})
	if alertType := c.Query("type"); alertType != "" {
		db = db.Where("type = ?", models.AlertType(alertType))
	}
	if severity := c.Query("severity"); severity != "" {
		db = db.Where("severity = ?", models.AlertSeverity(severity))
	}
	switch c.Query("acknowledged") {
	case "1", "true":
		db = db.Where("acknowledged_at IS NOT NULL")
	case "0", "false":
		db = db.Where("acknowledged_at IS NULL")
	}

	var alerts []models.SecurityAlert
	if err := db.Order("created_at desc").Limit(limit).Find(&alerts).Error; err != nil {
		utils.ServerError(c)
		return
	}

	items := make([]dto.AlertItemResp, 0, len(alerts))
	for _, a := range alerts {
		var user models.User
		database.DB.Select("username").First(&user, a.UserID)
		items = append(items, dto.AlertItemResp{
			ID:             a.ID,
			UserID:         a.UserID,
			Username:       user.Username,
			Type:           string(a.Type),
			Severity:       string(a.Severity),
			Details:        a.Details,
			Rationale:      a.Rationale,
			Acknowledged:   a.Acknowledged(),
			AcknowledgedBy: a.AcknowledgedBy,
			CreatedAt:      a.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.Success(c, "success", gin.H{"total": len(items), "alerts": items})
}

// AcknowledgeAlert transitions an alert once from unacknowledged to
// acknowledged, recording who and when. Already-acknowledged alerts keep
// their original reviewer.
func AcknowledgeAlert(c *gin.Context) {
	alertID, _ := strconv.Atoi(c.Param("id"))

	var alert models.SecurityAlert
	if err := database.DB.First(&alert, alertID).Error; err != nil {
		utils.Error(c, 4004, "alert not found")
		return
	}
	if alert.Acknowledged() {
		utils.Error(c, 2006, "alert already acknowledged")
		return
	}

	actorID, _ := middlewares.UserID(c)
	now := time.Now().UTC()
	err := database.DB.Model(&alert).Updates(map[string]interface{}{
		"acknowledged_by": actorID,
		"acknowledged_at": now,
	}).Error
	if err != nil {
		utils.ServerError(c)
		return
	}

	utils.Success(c, "Alert acknowledged", nil)
}

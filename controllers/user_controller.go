// file: controllers/user_controller.go
package controllers

import (
	"NovaCTF/database"
	"NovaCTF/middlewares"
	"NovaCTF/models"
	"NovaCTF/services"
	"NovaCTF/utils"
	"strconv"

	"github.com/gin-gonic/gin"
)

// --- public endpoints ---

func Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
		Email    string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "invalid parameters: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Email).First(&user).Error; err == nil {
		utils.Error(c, 2001, "username or email already registered")
		return
	}

	newUser := models.User{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		utils.Logger.Error("user create failed", "err", err.Error())
		utils.ServerError(c)
		return
	}

	utils.Success(c, "User registered successfully", gin.H{
		"id":       newUser.ID,
		"username": newUser.Username,
		"role":     newUser.Role,
	})
}

func Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "invalid parameters: "+err.Error())
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.Error(c, 2002, "unknown account or wrong password")
		return
	}
	if !user.CheckPassword(req.Password) {
		utils.Error(c, 2002, "unknown account or wrong password")
		return
	}
	if user.IsBanned() {
		utils.Error(c, 2005, "account is banned")
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		utils.Logger.Error("token generation failed", "err", err.Error())
		utils.ServerError(c)
		return
	}

	utils.Success(c, "Login success", gin.H{
		"token":    token,
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// --- admin endpoints ---

func GetUserList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	db := database.DB.Model(&models.User{})
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", models.UserStatus(status))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		utils.ServerError(c)
		return
	}
	var users []models.User
	if err := db.Order("id asc").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		utils.ServerError(c)
		return
	}

	utils.Success(c, "success", gin.H{"total": total, "page": page, "limit": limit, "users": users})
}

// UpdateUserStatus bans or reinstates an account. Banned users are rejected
// at login, at the auth middleware, and again inside the verifier.
func UpdateUserStatus(c *gin.Context) {
	userID, _ := strconv.Atoi(c.Param("id"))
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "invalid parameters")
		return
	}
	status := models.UserStatus(req.Status)
	if status != models.StatusActive && status != models.StatusBanned {
		utils.Error(c, 1001, "status must be active or banned")
		return
	}

	result := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("status", status)
	if result.Error != nil {
		utils.ServerError(c)
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "user not found")
		return
	}

	actorID, _ := middlewares.UserID(c)
	services.RecordAuditBestEffort(database.DB, actorID, models.AuditActionUpdateUserStatus, map[string]interface{}{
		"user_id": userID,
		"status":  string(status),
	})
	utils.Success(c, "User status updated", nil)
}

// UpdateUserRole is root_admin-only (enforced in the route table).
func UpdateUserRole(c *gin.Context) {
	userID, _ := strconv.Atoi(c.Param("id"))
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "invalid parameters")
		return
	}
	role := models.UserRole(req.Role)
	if role != models.RoleUser && role != models.RoleAdmin && role != models.RoleRootAdmin {
		utils.Error(c, 1001, "invalid role")
		return
	}

	result := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		utils.ServerError(c)
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "user not found")
		return
	}

	actorID, _ := middlewares.UserID(c)
	services.RecordAuditBestEffort(database.DB, actorID, models.AuditActionUpdateUserRole, map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
	})
	utils.Success(c, "User role updated", nil)
}

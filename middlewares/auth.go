// file: middlewares/auth.go
package middlewares

import (
	"NovaCTF/database"
	"NovaCTF/models"
	"NovaCTF/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware authenticates the session token and then reloads the
// account from the database. The token only proves identity; role and banned
// status are always the store's current values, never a claim the client
// could cache or manufacture.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			utils.Error(c, 4001, "missing Authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			utils.Error(c, 4002, "malformed Authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			utils.Error(c, 4003, "invalid token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			utils.Error(c, 4003, "invalid token")
			c.Abort()
			return
		}
		if user.IsBanned() {
			utils.Error(c, 2005, "account is banned")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)
		c.Next()
	}
}

// RoleAuthMiddleware gates a route on the roles loaded by JWTAuthMiddleware.
// root_admin passes every gate.
func RoleAuthMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleAny, exists := c.Get("user_role")
		if !exists {
			utils.Error(c, 5001, "missing role context")
			c.Abort()
			return
		}

		role := roleAny.(models.UserRole)

		hasPermission := role == models.RoleRootAdmin
		for _, requiredRole := range requiredRoles {
			if role == requiredRole {
				hasPermission = true
				break
			}
		}

		if !hasPermission {
			c.JSON(http.StatusForbidden, gin.H{"code": 4003, "msg": "insufficient privileges"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(c *gin.Context) (uint32, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint32)
	return id, ok
}

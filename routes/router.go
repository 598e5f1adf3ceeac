// file: routes/router.go
package routes

import (
	"NovaCTF/controllers"
	"NovaCTF/middlewares"
	"NovaCTF/models"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	apiV1 := r.Group("/api/v1")
	{
		usersPublic := apiV1.Group("/users")
		{
			usersPublic.POST("/register", controllers.Register)
			usersPublic.POST("/login", controllers.Login)
		}

		// Scoreboard is public read-only.
		scoreboardRoutes := apiV1.Group("/scoreboard")
		{
			scoreboardRoutes.GET("", controllers.GetScoreboard)
			scoreboardRoutes.GET("/solves", controllers.GetSolveFeed)
		}

		challengeRoutes := apiV1.Group("/challenges")
		challengeRoutes.Use(middlewares.JWTAuthMiddleware())
		{
			challengeRoutes.GET("", controllers.ListChallenges)
			challengeRoutes.GET("/:id", controllers.GetChallengeDetail)
			challengeRoutes.POST("/:id/submit", controllers.SubmitFlag)
		}

		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(middlewares.JWTAuthMiddleware(), middlewares.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/users", controllers.GetUserList)
			adminRoutes.PUT("/users/:id/status", controllers.UpdateUserStatus)
			adminRoutes.PUT("/users/:id/role", middlewares.RoleAuthMiddleware(models.RoleRootAdmin), controllers.UpdateUserRole)

			adminRoutes.POST("/challenges", controllers.CreateChallenge)
			adminRoutes.PUT("/challenges/:id", controllers.UpdateChallenge)
			adminRoutes.GET("/challenges", controllers.AdminListChallenges)
			adminRoutes.PUT("/challenges/:id/flag", controllers.SetChallengeFlag)

			adminRoutes.GET("/flag-logs", controllers.GetFlagLogs)
			adminRoutes.PUT("/flag-logs/:id/suspected", controllers.MarkSuspectSubmission)

			adminRoutes.GET("/alerts", controllers.ListAlerts)
			adminRoutes.PUT("/alerts/:id/ack", controllers.AcknowledgeAlert)

			adminRoutes.GET("/audit-logs", controllers.GetAuditLogs)
		}
	}

	return r
}

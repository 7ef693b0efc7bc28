package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/burakc/scholarhub/internal/app/controllers"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/middleware"
	"github.com/burakc/scholarhub/internal/pkg/websocket"
)

// RateLimits carries the per-group request budgets applied at routing time.
// A nil Limiter disables rate limiting entirely.
type RateLimits struct {
	Limiter       middleware.Limiter
	AuthPerWindow int
	APIPerWindow  int
	Window        time.Duration
}

// SetupRouter wires every endpoint to its controller and guards.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	scholarshipController *controllers.ScholarshipController,
	applicationController *controllers.ApplicationController,
	notificationController *controllers.NotificationController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
	limits RateLimits,
) {
	v1 := router.Group("/api/v1")
	if limits.Limiter != nil {
		v1.Use(middleware.RateLimit(limits.Limiter, "api", limits.APIPerWindow, limits.Window))
	}

	// --- Public routes ---
	auth := v1.Group("/auth")
	if limits.Limiter != nil {
		// Credential endpoints get a tighter budget than the rest of the API.
		auth.Use(middleware.RateLimit(limits.Limiter, "auth", limits.AuthPerWindow, limits.Window))
	}
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// Browsing scholarships needs no account.
	scholarships := v1.Group("/scholarships")
	{
		scholarships.GET("", scholarshipController.GetAll)
		scholarships.GET("/:id", scholarshipController.GetByID)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		authenticated.GET("/scholarships/saved", scholarshipController.GetSaved)
		authenticated.POST("/scholarships/save", scholarshipController.ToggleSave)

		me := authenticated.Group("/users/me")
		{
			me.GET("", userController.GetProfile)
			me.PUT("", userController.UpdateProfile)
			me.POST("/photo", userController.UploadProfilePhoto)
		}

		applications := authenticated.Group("/applications")
		{
			applications.POST("", applicationController.Submit)
			applications.POST("/validate-step", applicationController.ValidateStep)
			applications.GET("/me", applicationController.GetMine)
			applications.GET("/:id", applicationController.GetByID)
			applications.DELETE("/:id", applicationController.Withdraw)
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.GET("/unread-count", notificationController.UnreadCount)
			notifications.PUT("/:id/read", notificationController.MarkRead)
			notifications.PUT("/read-all", notificationController.MarkAllRead)
			notifications.DELETE("/:id", notificationController.Delete)
		}

		authenticated.GET("/ws/notifications", wsHandler.HandleConnection)

		// --- Admin routes ---
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.AdminRequired())
		{
			admin.GET("/scholarships", scholarshipController.GetAllAdmin)
			admin.GET("/scholarships/:id", scholarshipController.GetByIDAdmin)
			admin.POST("/scholarships", scholarshipController.Create)
			admin.PUT("/scholarships/:id", scholarshipController.Update)
			admin.DELETE("/scholarships/:id", scholarshipController.Delete)
			admin.POST("/scholarships/:id/publish", scholarshipController.Publish)
			admin.POST("/scholarships/:id/pause", scholarshipController.Pause)

			admin.GET("/applications", applicationController.GetAll)
			admin.PUT("/applications/:id/status", applicationController.UpdateStatus)

			// --- Super admin routes ---
			superAdmin := admin.Group("")
			superAdmin.Use(authMiddleware.SuperAdminRequired())
			{
				superAdmin.POST("/scholarships/:id/approve", scholarshipController.Approve)
				superAdmin.POST("/scholarships/:id/reject", scholarshipController.Reject)

				superAdmin.POST("/notifications/announce", notificationController.Announce)

				superAdmin.GET("/users", userController.GetAll)
				superAdmin.GET("/users/:id", userController.GetByID)
				superAdmin.PUT("/users/:id", userController.Update)
				superAdmin.POST("/users/:id/approve", userController.Approve)
				superAdmin.POST("/users/:id/revoke", userController.Revoke)
				superAdmin.POST("/users/:id/block", userController.Block)
				superAdmin.POST("/users/:id/unblock", userController.Unblock)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}

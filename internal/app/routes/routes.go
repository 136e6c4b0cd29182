package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vaxtrack/vaxtrack/internal/app/controllers"
	"github.com/vaxtrack/vaxtrack/internal/app/models"
	"github.com/vaxtrack/vaxtrack/internal/app/models/dto"
	"github.com/vaxtrack/vaxtrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	driveController *controllers.DriveController,
	reportController *controllers.ReportController,
	dashboardController *controllers.DashboardController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.List)
			students.GET("/:id", studentController.Get)

			// Mutations are restricted to coordinators.
			studentsCoordinator := students.Group("")
			studentsCoordinator.Use(authMiddleware.RoleRequired(string(models.RoleCoordinator)))
			{
				studentsCoordinator.POST("", studentController.Create)
				studentsCoordinator.PUT("/:id", studentController.Update)
				studentsCoordinator.POST("/import", studentController.Import)
				studentsCoordinator.POST("/:id/vaccinate", studentController.Vaccinate)
			}
		}

		drives := authenticated.Group("/drives")
		{
			drives.GET("", driveController.List)
			drives.GET("/:id", driveController.Get)

			drivesCoordinator := drives.Group("")
			drivesCoordinator.Use(authMiddleware.RoleRequired(string(models.RoleCoordinator)))
			{
				drivesCoordinator.POST("", driveController.Create)
				drivesCoordinator.PUT("/:id", driveController.Update)
				drivesCoordinator.POST("/:id/disable", driveController.Disable)
			}
		}

		reports := authenticated.Group("/reports")
		{
			reports.GET("", reportController.Get)
			reports.GET("/export", reportController.Export)
		}

		dashboard := authenticated.Group("/dashboard")
		{
			dashboard.GET("/overview", dashboardController.Overview)
			dashboard.GET("/stats", dashboardController.Stats)
		}
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"mediconnect-server/internal/config"
	"mediconnect-server/internal/handlers"
	"mediconnect-server/internal/middleware"
	"mediconnect-server/internal/models"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	patientHandler := handlers.NewPatientHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	nurseHandler := handlers.NewNurseHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	// Public routes (no authentication required), throttled per IP
	public := router.Group("/api/v1")
	public.Use(middleware.RateLimitMiddleware(rate.Limit(5), 10))
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Patient routes: booking, payments, lab responses, records
		patientRoutes := private.Group("/patient")
		patientRoutes.Use(middleware.RoleAuthMiddleware(models.RolePatient))
		{
			patientRoutes.GET("/doctors", patientHandler.SearchDoctors)
			patientRoutes.POST("/appointments", patientHandler.BookAppointment)
			patientRoutes.GET("/appointments", patientHandler.GetMyAppointments)
			patientRoutes.PATCH("/appointments/:id/cancel", patientHandler.CancelAppointment)
			patientRoutes.POST("/appointments/:id/pay", patientHandler.PayConsultation)
			patientRoutes.GET("/lab-requests", patientHandler.GetLabSuggestions)
			patientRoutes.PATCH("/lab-requests/:id", patientHandler.RespondToLabRequest)
			patientRoutes.GET("/prescriptions", patientHandler.GetPrescriptions)
		}

		// Doctor routes: triage, nurse assignment, consultations, earnings
		doctorRoutes := private.Group("/doctor")
		doctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
		{
			doctorRoutes.GET("/appointments/pending", doctorHandler.GetPendingAppointments)
			doctorRoutes.PATCH("/appointments/:id/respond", doctorHandler.RespondToAppointment)
			doctorRoutes.GET("/appointments/awaiting-nurse", doctorHandler.GetAppointmentsAwaitingNurse)
			doctorRoutes.GET("/nurses/available", doctorHandler.GetAvailableNurses)
			doctorRoutes.PATCH("/appointments/:id/assign-nurse", doctorHandler.AssignNurse)
			doctorRoutes.GET("/schedule", doctorHandler.GetSchedule)
			doctorRoutes.POST("/consultations", doctorHandler.InitialConsultation)
			doctorRoutes.PATCH("/consultations/:appointmentId/finalize", doctorHandler.FinalizeConsultation)
			doctorRoutes.GET("/earnings", doctorHandler.GetEarnings)
			doctorRoutes.PUT("/profile", doctorHandler.UpdateProfile)
		}

		// Nurse routes: assignments, lab work
		nurseRoutes := private.Group("/nurse")
		nurseRoutes.Use(middleware.RoleAuthMiddleware(models.RoleNurse))
		{
			nurseRoutes.GET("/assignments", nurseHandler.GetAssignedAppointments)
			nurseRoutes.GET("/appointments/:id/lab-requests", nurseHandler.GetLabRequests)
			nurseRoutes.PATCH("/lab-requests/:id/result", nurseHandler.SubmitLabResult)
			nurseRoutes.PATCH("/availability", nurseHandler.ToggleAvailability)
		}

		// Admin routes: approvals, catalog, reporting
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/users/pending", adminHandler.GetPendingApprovals)
			adminRoutes.GET("/users", adminHandler.GetAllUsers)
			adminRoutes.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			adminRoutes.GET("/lab-tests", adminHandler.GetLabTests)
			adminRoutes.POST("/lab-tests", adminHandler.CreateLabTest)
			adminRoutes.PUT("/lab-tests/:id", adminHandler.UpdateLabTest)
			adminRoutes.GET("/stats", adminHandler.GetStats)
			adminRoutes.GET("/earnings", adminHandler.GetHospitalEarnings)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}

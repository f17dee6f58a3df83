package routes

import (
	"time"

	"appointly/handlers"
	"appointly/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes sets up the public registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
	}
}

// RegisterAppointmentRoutes sets up the scheduling endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo, hb.RoleCache))
	{
		api.POST("", hb.Appointments.BookHandler)
		api.POST("/book-slot", hb.Appointments.BookSlotHandler)
		api.GET("/me", hb.Appointments.ListMineHandler)
		api.GET("/:id", hb.Appointments.GetHandler)
		api.PUT("/:id/cancel", hb.Appointments.CancelHandler)
		api.PUT("/:id/reschedule", hb.Appointments.RescheduleHandler)

		admin := api.Group("")
		admin.Use(middleware.AdminOnly())
		admin.GET("", hb.Appointments.ListAllHandler)
		admin.PUT("/:id/approve", hb.Appointments.ApproveHandler)
		admin.PUT("/:id/reject", hb.Appointments.RejectHandler)
	}
}

// RegisterProviderRoutes sets up provider management and slot endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/providers")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo, hb.RoleCache))
	{
		api.GET("", hb.Providers.GetProvidersHandler)
		api.GET("/:id", hb.Providers.GetProviderHandler)
		api.GET("/:id/slots", hb.Providers.GetSlotsHandler)

		admin := api.Group("")
		admin.Use(middleware.AdminOnly())
		admin.POST("", hb.Providers.CreateProviderHandler)
		admin.PUT("/:id", hb.Providers.UpdateProviderHandler)
		admin.DELETE("/:id", hb.Providers.DeleteProviderHandler)
		admin.PUT("/:id/availability", hb.Providers.SetAvailabilityHandler)
		admin.PUT("/:id/unavailable-dates", hb.Providers.AddUnavailableDatesHandler)
		admin.DELETE("/:id/unavailable-dates", hb.Providers.RemoveUnavailableDatesHandler)
		admin.PUT("/:id/slots/lock", hb.Providers.LockSlotHandler)
		admin.PUT("/:id/slots/unlock", hb.Providers.UnlockSlotHandler)
	}
}

// RegisterNotificationRoutes sets up the caller's inbox endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	api.Use(middleware.JWTAuthMiddleware(hb.UserRepo, hb.RoleCache))
	{
		api.GET("", hb.Notifications.ListHandler)
		api.PUT("/read-all", hb.Notifications.MarkAllReadHandler)
		api.PUT("/:id/read", hb.Notifications.MarkReadHandler)
		api.DELETE("/:id", hb.Notifications.DeleteHandler)
		api.DELETE("", hb.Notifications.ClearHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Check)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
}

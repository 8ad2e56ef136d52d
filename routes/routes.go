package routes

import (
	"time"

	"patitas/handlers"
	"patitas/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint group onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}

// RegisterAvailabilityRoutes registers slot management and listing endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/slots")
	{
		// Public listing consumed by the booking form.
		api.GET("/open/:professionalID", hb.Availability.OpenSlotsHandler)

		// Managing availability requires a professional token.
		protected := api.Group("")
		protected.Use(middleware.JWTAuthProfessionalMiddleware(hb.RecordsRepo))
		protected.POST("/publish", hb.Availability.PublishSlotsHandler)
		protected.DELETE("/:slotID", hb.Availability.DeleteSlotHandler)
	}
}

// RegisterBookingRoutes registers appointment endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		// Public booking form; rate limited, tutor resolved by email.
		api.POST("/public", middleware.RateLimitMiddleware(), hb.Booking.PublicBookHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthProfessionalMiddleware(hb.RecordsRepo))
		protected.POST("", hb.Booking.BookHandler)
		protected.GET("/calendar", hb.Booking.CalendarHandler)
		protected.GET("/:appointmentID", hb.Booking.GetAppointmentHandler)
		protected.PATCH("/:appointmentID", hb.Booking.UpdateAppointmentHandler)
		protected.DELETE("/:appointmentID", hb.Booking.CancelAppointmentHandler)
	}
}

// RegisterCatalogRoutes registers consultation-type lookups.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/consultation-types")
	{
		api.GET("", hb.Catalog.ListConsultationTypesHandler)
		api.GET("/:typeID", hb.Catalog.GetConsultationTypeHandler)
	}
}

// RegisterAdminRoutes registers operational endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.JWTAuthProfessionalMiddleware(hb.RecordsRepo))
		api.POST("/reminders/run", hb.Admin.RunRemindersHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

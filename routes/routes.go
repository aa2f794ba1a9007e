package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"frontdesk/handlers"
	"frontdesk/middleware"
	"frontdesk/utils"
)

// RegisterVoiceRoutes registers the telephony webhook endpoints. These
// are hit by the provider, not by browsers, so they stay unauthenticated.
func RegisterVoiceRoutes(r *gin.Engine, vh *handlers.VoiceHandler) {
	r.POST("/incoming_call", vh.IncomingCall)
	r.GET("/voice", vh.OutboundVoice)
	r.POST("/voice", vh.OutboundVoice)
	r.POST("/gather", vh.Gather)
	r.POST("/confirm-time", vh.ConfirmTime)
}

// RegisterAdminRoutes registers the operator-facing endpoints.
func RegisterAdminRoutes(r *gin.Engine, ah *handlers.AdminHandler, vh *handlers.VoiceHandler) {
	r.POST("/admin/login", ah.Login)

	api := r.Group("/admin")
	{
		api.Use(middleware.JWTAuthAdminMiddleware())
		api.GET("/slots", ah.ListSlots)
		api.POST("/slots", ah.OpenSlot)
		api.DELETE("/slots", ah.CloseSlot)
		api.GET("/bookings", ah.ListBookings)
		api.GET("/interactions", ah.ListInteractions)
		api.GET("/knowledge/services", ah.ListServices)
		api.POST("/knowledge/services", ah.UpsertService)
		api.GET("/knowledge/faqs", ah.ListFAQs)
		api.POST("/knowledge/faqs", ah.UpsertFAQ)
		api.POST("/trigger_call", vh.TriggerCall)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Front desk is running.")
	})
}

// RegisterRoutes wires up CORS and all route groups.
func RegisterRoutes(r *gin.Engine, vh *handlers.VoiceHandler, ah *handlers.AdminHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterVoiceRoutes(r, vh)
	RegisterAdminRoutes(r, ah, vh)
	RegisterHealthRoute(r)
}

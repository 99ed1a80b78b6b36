package routes

import (
	"context"
	"net/http"
	"time"

	"spa-backend/config"
	"spa-backend/controllers"
	"spa-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the controllers mounted by SetupRouter.
type Handlers struct {
	Reservations *controllers.ReservationController
	Staff        *controllers.StaffController
	Services     *controllers.ServiceController
	Invoices     *controllers.InvoiceController
	Reports      *controllers.ReportController
	Reminders    *controllers.ReminderController
	// Ping checks the database behind /healthz when set.
	Ping func(ctx context.Context) error
}

func SetupRouter(settings config.Settings, h Handlers, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		if h.Ping != nil {
			if err := h.Ping(c.Request.Context()); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if settings.JWTSecret != "" {
		api.Use(utils.AuthMiddleware(settings.JWTSecret))
	}
	{
		// Reservation routes
		reservations := api.Group("/reservations")
		{
			reservations.POST("", h.Reservations.CreateReservation)
			reservations.GET("", h.Reservations.GetReservations)
			reservations.GET("/:id", h.Reservations.GetReservation)
			reservations.PUT("/:id", h.Reservations.UpdateReservation)
			reservations.DELETE("/:id", h.Reservations.DeleteReservation)
		}

		// Client routes
		clients := api.Group("/clients/:id")
		{
			clients.GET("/reservations", h.Reservations.GetClientReservations)
			clients.GET("/invoices/:number", h.Invoices.GetInvoice)
			clients.GET("/invoices/:number/pdf", h.Invoices.GetInvoicePDF)
		}

		// Staff routes
		staff := api.Group("/staff")
		{
			staff.GET("", h.Staff.GetStaff)
			staff.GET("/:id/reservations", h.Reservations.GetStaffReservations)
		}

		// Service catalog routes
		services := api.Group("/services")
		{
			services.POST("", h.Services.CreateService)
			services.GET("", h.Services.GetServices)
			services.GET("/:id", h.Services.GetService)
			services.PUT("/:id", h.Services.UpdateService)
			services.DELETE("/:id", h.Services.DeleteService)
		}

		api.GET("/reports/revenue", h.Reports.GetRevenue)
		api.POST("/reminders/run", h.Reminders.RunReminders)
	}

	return r
}

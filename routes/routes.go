package routes

import (
	"net/http"
	"time"

	"reserva/handlers"
	"reserva/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle carries every handler the router needs.
type HandlerBundle struct {
	Webhook  *handlers.WebhookHandler
	Tenant   *handlers.TenantHandler
	Staff    *handlers.StaffHandler
	Service  *handlers.ServiceHandler
	Customer *handlers.CustomerHandler
	Booking  *handlers.BookingHandler
	Point    *handlers.PointHandler

	TenantMiddleware gin.HandlerFunc
}

// RegisterRoutes wires every endpoint onto the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Tenant-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})

	// Chat platform webhook. The tenant is resolved before any event is
	// touched so every downstream call carries an explicit tenant id.
	r.POST("/api/webhook/:tenantID", hb.TenantMiddleware, hb.Webhook.HandleWebhook)

	// Tenant administration.
	r.POST("/api/tenants", hb.Tenant.CreateTenantHandler)
	r.GET("/api/tenants", hb.Tenant.ListTenantsHandler)

	tenant := r.Group("/api/tenants/:tenantID", hb.TenantMiddleware)
	{
		tenant.GET("", hb.Tenant.GetTenantHandler)
		tenant.PUT("", hb.Tenant.UpdateTenantHandler)
		tenant.DELETE("", hb.Tenant.DeleteTenantHandler)

		tenant.POST("/staff", hb.Staff.CreateStaffHandler)
		tenant.GET("/staff", hb.Staff.ListStaffHandler)
		tenant.GET("/staff/:id", hb.Staff.GetStaffHandler)
		tenant.PUT("/staff/:id", hb.Staff.UpdateStaffHandler)
		tenant.DELETE("/staff/:id", hb.Staff.DeleteStaffHandler)

		tenant.POST("/services", hb.Service.CreateServiceHandler)
		tenant.GET("/services", hb.Service.ListServicesHandler)
		tenant.GET("/services/:id", hb.Service.GetServiceHandler)
		tenant.PUT("/services/:id", hb.Service.UpdateServiceHandler)
		tenant.DELETE("/services/:id", hb.Service.DeleteServiceHandler)

		tenant.GET("/customers", hb.Customer.ListCustomersHandler)
		tenant.GET("/customers/:id", hb.Customer.GetCustomerHandler)
		tenant.PUT("/customers/:id", hb.Customer.UpdateCustomerHandler)
		tenant.DELETE("/customers/:id", hb.Customer.DeleteCustomerHandler)

		tenant.GET("/bookings", hb.Booking.ListBookingsHandler)
		tenant.GET("/bookings/:id", hb.Booking.GetBookingHandler)
		tenant.PATCH("/bookings/:id/status", hb.Booking.UpdateBookingStatusHandler)

		tenant.GET("/points", hb.Point.GetPointBalanceHandler)
		tenant.GET("/points/history", hb.Point.ListPointEntriesHandler)
		tenant.POST("/points/credit", hb.Point.CreditPointsHandler)
		tenant.POST("/points/debit", hb.Point.DebitPointsHandler)
	}
}

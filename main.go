// File: reserva/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reserva/config"
	"reserva/cron"
	"reserva/database"
	bookingRepoPkg "reserva/database/repository/booking"
	customerRepoPkg "reserva/database/repository/customer"
	pointRepoPkg "reserva/database/repository/point"
	serviceRepoPkg "reserva/database/repository/service"
	staffRepoPkg "reserva/database/repository/staff"
	tenantRepoPkg "reserva/database/repository/tenant"
	"reserva/handlers"
	"reserva/middleware"
	"reserva/routes"
	"reserva/services/booking"
	"reserva/services/conversation"
	"reserva/services/notification"
	"reserva/services/point"
	"reserva/services/tasks"

	"reserva/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	tenantRepo := tenantRepoPkg.NewMongoTenantRepo()
	staffRepo := staffRepoPkg.NewMongoStaffRepo()
	serviceRepo := serviceRepoPkg.NewMongoServiceRepo()
	customerRepo := customerRepoPkg.NewMongoCustomerRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	pointRepo := pointRepoPkg.NewMongoPointRepo()

	// services.
	responder := notification.NewChatResponder(utils.GetQuotaCacheClient())

	bookingService := &booking.DefaultBookingService{
		Repo:      bookingRepo,
		Reminders: tasks.NewScheduler(),
	}

	pointService := &point.DefaultPointService{
		Repo: pointRepo,
	}

	sessionTTL := time.Duration(config.AppConfig.SessionTTLSeconds) * time.Second
	sessionStore := conversation.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)

	conversationService := &conversation.DefaultConversationService{
		Store:        sessionStore,
		BookingSvc:   bookingService,
		ServiceRepo:  serviceRepo,
		StaffRepo:    staffRepo,
		CustomerRepo: customerRepo,
		Responder:    responder,
	}

	// Assemble the handler bundle.
	handlerBundle := &routes.HandlerBundle{
		Webhook:  handlers.NewWebhookHandler(conversationService),
		Tenant:   handlers.NewTenantHandler(tenantRepo),
		Staff:    handlers.NewStaffHandler(staffRepo),
		Service:  handlers.NewServiceHandler(serviceRepo),
		Customer: handlers.NewCustomerHandler(customerRepo),
		Booking:  handlers.NewBookingHandler(bookingService),
		Point:    handlers.NewPointHandler(pointService),

		TenantMiddleware: middleware.TenantMiddleware(tenantRepo),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background reminder worker and health probes.
	go cron.InitReminderWorker(responder)
	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetQuotaCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

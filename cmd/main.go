package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/auth"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/caching"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/handlers"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/jobs/background"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/mailer"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/middleware"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/repositories"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/services"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/storage"
	"github.com/AmineshOptisoft/next-crm-sub003/pkg/database"
)

const version = "1.0.0"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func main() {
	if err := auth.ValidateModules(); err != nil {
		log.Fatalf("Permission module table is inconsistent: %v", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		log.Println("WARNING: JWT_SECRET not set, using a generated secret; tokens will not survive restarts")
	}
	tokenTTL := time.Duration(envIntOr("TOKEN_TTL_HOURS", 24)) * time.Hour

	redisAddr := envOr("REDIS_ADDR", "localhost:6379")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := envIntOr("REDIS_DB", 0)

	minioEndpoint := envOr("MINIO_ENDPOINT", "localhost:9000")
	minioAccessKey := envOr("MINIO_ACCESS_KEY", "minioadmin")
	minioSecretKey := envOr("MINIO_SECRET_KEY", "minioadmin")
	minioBucket := envOr("MINIO_BUCKET", "nextcrm-assets")
	minioUseSSL := os.Getenv("MINIO_USE_SSL") == "true"

	scanInterval := time.Duration(envIntOr("REMINDER_SCAN_SECONDS", 300)) * time.Second

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	companyRepo := repositories.NewCompanyRepo(pool)
	mailSettingsRepo := repositories.NewMailSettingsRepo(pool)
	contactRepo := repositories.NewContactRepo(pool)
	dealRepo := repositories.NewDealRepo(pool)
	taskRepo := repositories.NewTaskRepo(pool)
	activityRepo := repositories.NewActivityRepo(pool)
	meetingRepo := repositories.NewMeetingRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	reminderLogRepo := repositories.NewReminderLogRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	promocodeRepo := repositories.NewPromocodeRepo(pool)
	zipCodeRepo := repositories.NewZipCodeRepo(pool)
	serviceAreaRepo := repositories.NewServiceAreaRepo(pool)
	notificationRepo := repositories.NewNotificationRepo(pool)

	// Infrastructure services
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	assetStore, err := storage.NewMinioAssetStore(minioEndpoint, minioAccessKey, minioSecretKey, minioBucket, minioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize asset store: %v", err)
	}
	if err := assetStore.EnsureBucket(context.Background()); err != nil {
		log.Printf("WARNING: asset bucket check failed: %v", err)
	}
	mailSvc := mailer.NewSMTPMailer(mailSettingsRepo, 30*time.Second)

	// Campaign pipeline. The grace window equals the scan interval so a
	// reminder due between two ticks is still picked up by the next one.
	campaignSvc := services.NewCampaignService(
		campaignRepo, bookingRepo, contactRepo, companyRepo,
		reminderLogRepo, mailSvc, scanInterval,
	)
	scheduler, err := background.NewReminderScheduler(campaignSvc, scanInterval)
	if err != nil {
		log.Fatalf("Failed to create reminder scheduler: %v", err)
	}

	// Handlers
	authHandlers := handlers.NewAuthHandlers(userRepo, cacheSvc, jwtSecret, tokenTTL)
	userHandlers := handlers.NewUserHandlers(userRepo, cacheSvc)
	companyHandlers := handlers.NewCompanyHandlers(companyRepo, mailSettingsRepo, assetStore, cacheSvc)
	contactHandlers := handlers.NewContactHandlers(contactRepo)
	dealHandlers := handlers.NewDealHandlers(dealRepo)
	taskHandlers := handlers.NewTaskHandlers(taskRepo)
	activityHandlers := handlers.NewActivityHandlers(activityRepo, meetingRepo)
	productHandlers := handlers.NewProductHandlers(productRepo)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceRepo)
	employeeHandlers := handlers.NewEmployeeHandlers(employeeRepo)
	campaignHandlers := handlers.NewCampaignHandlers(campaignRepo, reminderLogRepo, campaignSvc)
	bookingHandlers := handlers.NewBookingHandlers(bookingRepo)
	promocodeHandlers := handlers.NewPromocodeHandlers(promocodeRepo)
	geoHandlers := handlers.NewGeoHandlers(zipCodeRepo, serviceAreaRepo)
	notificationHandlers := handlers.NewNotificationHandlers(notificationRepo)
	schedulerHandlers := handlers.NewSchedulerHandlers(scheduler)
	publicHandlers := handlers.NewPublicHandlers(companyRepo, serviceAreaRepo, productRepo, zipCodeRepo, assetStore, cacheSvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = common.HTTPErrorHandler

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Unauthenticated surface
	e.GET("/health", healthHandlers.Live)
	e.GET("/health/ready", healthHandlers.Ready)
	e.GET("/public/companies/:slug", publicHandlers.CompanyProfile)
	e.GET("/public/companies/:slug/zipcodes/check", publicHandlers.CheckZipCode)

	v1 := e.Group("/v1")
	v1.POST("/auth/login", authHandlers.Login)

	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.NewJWTConfig(jwtSecret)))
	protected.Use(middleware.ResolvePrincipal(userRepo, companyRepo, cacheSvc))

	protected.GET("/me", authHandlers.Me)

	// User management rides on the companies module permissions.
	protected.POST("/users", userHandlers.Create, middleware.RequirePermission(auth.ModuleCompanies, models.ActionEdit))
	protected.GET("/users", userHandlers.List, middleware.RequirePermission(auth.ModuleCompanies, models.ActionView))
	protected.GET("/users/:id", userHandlers.Get, middleware.RequirePermission(auth.ModuleCompanies, models.ActionView))
	protected.PUT("/users/:id/permissions", userHandlers.UpdatePermissions, middleware.RequirePermission(auth.ModuleCompanies, models.ActionEdit))
	protected.DELETE("/users/:id", userHandlers.Delete, middleware.RequirePermission(auth.ModuleCompanies, models.ActionEdit))

	protected.POST("/companies", companyHandlers.Create)
	protected.GET("/companies", companyHandlers.List)
	protected.GET("/companies/:id", companyHandlers.Get, middleware.RequirePermission(auth.ModuleCompanies, models.ActionView))
	protected.PUT("/companies/:id", companyHandlers.Update, middleware.RequirePermission(auth.ModuleCompanies, models.ActionEdit))
	protected.PUT("/companies/:id/mail-settings", companyHandlers.UpsertMailSettings, middleware.RequirePermission(auth.ModuleCompanies, models.ActionEdit))
	protected.POST("/companies/:id/logo", companyHandlers.UploadLogo, middleware.RequirePermission(auth.ModuleCompanies, models.ActionEdit))

	protected.POST("/contacts", contactHandlers.Create, middleware.RequirePermission(auth.ModuleContacts, models.ActionCreate))
	protected.GET("/contacts", contactHandlers.List, middleware.RequirePermission(auth.ModuleContacts, models.ActionView))
	protected.GET("/contacts/:id", contactHandlers.Get, middleware.RequirePermission(auth.ModuleContacts, models.ActionView))
	protected.PUT("/contacts/:id", contactHandlers.Update, middleware.RequirePermission(auth.ModuleContacts, models.ActionEdit))
	protected.DELETE("/contacts/:id", contactHandlers.Delete, middleware.RequirePermission(auth.ModuleContacts, models.ActionDelete))

	protected.POST("/deals", dealHandlers.Create, middleware.RequirePermission(auth.ModuleDeals, models.ActionCreate))
	protected.GET("/deals", dealHandlers.List, middleware.RequirePermission(auth.ModuleDeals, models.ActionView))
	protected.GET("/deals/:id", dealHandlers.Get, middleware.RequirePermission(auth.ModuleDeals, models.ActionView))
	protected.PUT("/deals/:id", dealHandlers.Update, middleware.RequirePermission(auth.ModuleDeals, models.ActionEdit))
	protected.DELETE("/deals/:id", dealHandlers.Delete, middleware.RequirePermission(auth.ModuleDeals, models.ActionDelete))

	protected.POST("/tasks", taskHandlers.Create, middleware.RequirePermission(auth.ModuleTasks, models.ActionCreate))
	protected.GET("/tasks", taskHandlers.List, middleware.RequirePermission(auth.ModuleTasks, models.ActionView))
	protected.GET("/tasks/:id", taskHandlers.Get, middleware.RequirePermission(auth.ModuleTasks, models.ActionView))
	protected.PUT("/tasks/:id", taskHandlers.Update, middleware.RequirePermission(auth.ModuleTasks, models.ActionEdit))
	protected.DELETE("/tasks/:id", taskHandlers.Delete, middleware.RequirePermission(auth.ModuleTasks, models.ActionDelete))

	protected.POST("/activities", activityHandlers.Create, middleware.RequirePermission(auth.ModuleActivities, models.ActionCreate))
	protected.GET("/activities", activityHandlers.List, middleware.RequirePermission(auth.ModuleActivities, models.ActionView))
	protected.GET("/activities/:id", activityHandlers.Get, middleware.RequirePermission(auth.ModuleActivities, models.ActionView))
	protected.DELETE("/activities/:id", activityHandlers.Delete, middleware.RequirePermission(auth.ModuleActivities, models.ActionDelete))

	protected.POST("/meetings", activityHandlers.CreateMeeting, middleware.RequirePermission(auth.ModuleMeetings, models.ActionCreate))
	protected.GET("/meetings", activityHandlers.ListMeetings, middleware.RequirePermission(auth.ModuleMeetings, models.ActionView))
	protected.GET("/meetings/:id", activityHandlers.GetMeeting, middleware.RequirePermission(auth.ModuleMeetings, models.ActionView))
	protected.PUT("/meetings/:id", activityHandlers.UpdateMeeting, middleware.RequirePermission(auth.ModuleMeetings, models.ActionEdit))
	protected.DELETE("/meetings/:id", activityHandlers.DeleteMeeting, middleware.RequirePermission(auth.ModuleMeetings, models.ActionDelete))

	protected.POST("/products", productHandlers.Create, middleware.RequirePermission(auth.ModuleProducts, models.ActionCreate))
	protected.GET("/products", productHandlers.List, middleware.RequirePermission(auth.ModuleProducts, models.ActionView))
	protected.GET("/products/:id", productHandlers.Get, middleware.RequirePermission(auth.ModuleProducts, models.ActionView))
	protected.PUT("/products/:id", productHandlers.Update, middleware.RequirePermission(auth.ModuleProducts, models.ActionEdit))
	protected.DELETE("/products/:id", productHandlers.Delete, middleware.RequirePermission(auth.ModuleProducts, models.ActionDelete))

	protected.POST("/invoices", invoiceHandlers.Create, middleware.RequirePermission(auth.ModuleInvoices, models.ActionCreate))
	protected.GET("/invoices", invoiceHandlers.List, middleware.RequirePermission(auth.ModuleInvoices, models.ActionView))
	protected.GET("/invoices/:id", invoiceHandlers.Get, middleware.RequirePermission(auth.ModuleInvoices, models.ActionView))
	protected.PUT("/invoices/:id/status", invoiceHandlers.UpdateStatus, middleware.RequirePermission(auth.ModuleInvoices, models.ActionEdit))
	protected.DELETE("/invoices/:id", invoiceHandlers.Delete, middleware.RequirePermission(auth.ModuleInvoices, models.ActionDelete))

	protected.POST("/employees", employeeHandlers.Create, middleware.RequirePermission(auth.ModuleEmployees, models.ActionCreate))
	protected.GET("/employees", employeeHandlers.List, middleware.RequirePermission(auth.ModuleEmployees, models.ActionView))
	protected.GET("/employees/:id", employeeHandlers.Get, middleware.RequirePermission(auth.ModuleEmployees, models.ActionView))
	protected.PUT("/employees/:id", employeeHandlers.Update, middleware.RequirePermission(auth.ModuleEmployees, models.ActionEdit))
	protected.DELETE("/employees/:id", employeeHandlers.Delete, middleware.RequirePermission(auth.ModuleEmployees, models.ActionDelete))

	protected.POST("/campaigns", campaignHandlers.Create, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionCreate))
	protected.GET("/campaigns", campaignHandlers.List, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionView))
	protected.POST("/campaigns/activate", campaignHandlers.Activate, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionEdit))
	protected.GET("/campaigns/:id", campaignHandlers.Get, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionView))
	protected.PUT("/campaigns/:id", campaignHandlers.Update, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionEdit))
	protected.DELETE("/campaigns/:id", campaignHandlers.Delete, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionDelete))
	protected.POST("/campaigns/:id/test-send", campaignHandlers.TestSend, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionEdit))
	protected.POST("/campaigns/:id/send", campaignHandlers.Send, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionEdit))
	protected.GET("/campaigns/:id/reminder-logs", campaignHandlers.ReminderLogs, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionView))

	protected.POST("/bookings", bookingHandlers.Create, middleware.RequirePermission(auth.ModuleBookings, models.ActionCreate))
	protected.GET("/bookings", bookingHandlers.List, middleware.RequirePermission(auth.ModuleBookings, models.ActionView))
	protected.GET("/bookings/:id", bookingHandlers.Get, middleware.RequirePermission(auth.ModuleBookings, models.ActionView))
	protected.PUT("/bookings/:id", bookingHandlers.Update, middleware.RequirePermission(auth.ModuleBookings, models.ActionEdit))
	protected.DELETE("/bookings/:id", bookingHandlers.Delete, middleware.RequirePermission(auth.ModuleBookings, models.ActionDelete))

	protected.POST("/promocodes", promocodeHandlers.Create, middleware.RequirePermission(auth.ModulePromocodes, models.ActionCreate))
	protected.GET("/promocodes", promocodeHandlers.List, middleware.RequirePermission(auth.ModulePromocodes, models.ActionView))
	protected.GET("/promocodes/:id", promocodeHandlers.Get, middleware.RequirePermission(auth.ModulePromocodes, models.ActionView))
	protected.PUT("/promocodes/:id", promocodeHandlers.Update, middleware.RequirePermission(auth.ModulePromocodes, models.ActionEdit))
	protected.DELETE("/promocodes/:id", promocodeHandlers.Delete, middleware.RequirePermission(auth.ModulePromocodes, models.ActionDelete))

	protected.POST("/zipcodes", geoHandlers.CreateZipCode, middleware.RequirePermission(auth.ModuleZipCodes, models.ActionCreate))
	protected.GET("/zipcodes", geoHandlers.ListZipCodes, middleware.RequirePermission(auth.ModuleZipCodes, models.ActionView))
	protected.DELETE("/zipcodes/:id", geoHandlers.DeleteZipCode, middleware.RequirePermission(auth.ModuleZipCodes, models.ActionDelete))

	protected.POST("/service-areas", geoHandlers.CreateServiceArea, middleware.RequirePermission(auth.ModuleServiceAreas, models.ActionCreate))
	protected.GET("/service-areas", geoHandlers.ListServiceAreas, middleware.RequirePermission(auth.ModuleServiceAreas, models.ActionView))
	protected.PUT("/service-areas/:id", geoHandlers.UpdateServiceArea, middleware.RequirePermission(auth.ModuleServiceAreas, models.ActionEdit))
	protected.DELETE("/service-areas/:id", geoHandlers.DeleteServiceArea, middleware.RequirePermission(auth.ModuleServiceAreas, models.ActionDelete))

	protected.POST("/notifications", notificationHandlers.Create, middleware.RequirePermission(auth.ModuleNotifications, models.ActionCreate))
	protected.GET("/notifications", notificationHandlers.List, middleware.RequirePermission(auth.ModuleNotifications, models.ActionView))
	protected.PUT("/notifications/:id/read", notificationHandlers.MarkRead, middleware.RequirePermission(auth.ModuleNotifications, models.ActionEdit))
	protected.PUT("/notifications/read-all", notificationHandlers.MarkAllRead, middleware.RequirePermission(auth.ModuleNotifications, models.ActionEdit))

	protected.POST("/scheduler/run", schedulerHandlers.Run, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionEdit))
	protected.GET("/scheduler/status", schedulerHandlers.Status, middleware.RequirePermission(auth.ModuleCampaigns, models.ActionView))

	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Scheduler shutdown error: %v", err)
		}
	}()

	port := envIntOr("PORT", 8080)
	go func() {
		log.Printf("next-crm server v%s starting on port %d", version, port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

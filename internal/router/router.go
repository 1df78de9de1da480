package router

import (
	"log"
	"time"

	"stayhub/config"
	"stayhub/internal/handler"
	"stayhub/internal/middleware"
	"stayhub/internal/queue"
	"stayhub/internal/repository"
	"stayhub/internal/service"
	"stayhub/internal/ws"
	"stayhub/pkg/cloudinary"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto a gin engine. The
// returned scheduler is started by main on its own goroutine.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, rdb *redis.Client, pub *queue.Publisher, loc *time.Location) (*gin.Engine, *service.SchedulerService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(rdb, 100, 60*time.Second))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	revenueRepo := repository.NewRevenueRepository(db, loc)
	settingRepo := repository.NewSettingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	chatRepo := repository.NewChatRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	notifyHub := ws.NewHub()
	chatHub := ws.NewChatHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	emailSvc := service.NewEmailService(&cfg.SMTP, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc, emailSvc, notifyHub)
	ledgerSvc := service.NewLedgerService(ledgerRepo, walletRepo, revenueRepo, settingRepo, userRepo, loc)
	availabilitySvc := service.NewAvailabilityService(propertyRepo, eventRepo, bookingRepo)
	bookingSvc := service.NewBookingService(bookingRepo, propertyRepo, paymentRepo, ledgerSvc, notifSvc, pub)
	schedulerSvc := service.NewSchedulerService(bookingRepo, bookingSvc, settingRepo, loc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	propertyHandler := handler.NewPropertyHandler(propertyRepo)
	eventHandler := handler.NewEventHandler(eventRepo)
	bookingHandler := handler.NewBookingHandler(availabilitySvc, bookingSvc, bookingRepo, notifSvc, pub)
	walletHandler := handler.NewWalletHandler(walletRepo, ledgerRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	favoriteHandler := handler.NewFavoriteHandler(favoriteRepo)
	featureHandler := handler.NewFeatureHandler(propertyRepo, eventRepo, ledgerSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionRepo, ledgerSvc)
	chatHandler := handler.NewChatHandler(&cfg.JWT, chatRepo, bookingRepo, chatHub)
	uploadHandler := handler.NewUploadHandler(cloud, propertyRepo, eventRepo)
	adminHandler := handler.NewAdminHandler(revenueRepo, ledgerRepo, settingRepo, schedulerSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", authHandler.Me)
			me.PUT("/fcm-token", authHandler.SetFCMToken)
			me.GET("/favorites", favoriteHandler.List)
			me.POST("/favorites", favoriteHandler.Add)
			me.DELETE("/favorites", favoriteHandler.Remove)
			me.GET("/notifications", notificationHandler.List)
			me.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", propertyHandler.List)
			properties.GET("/:id", propertyHandler.Get)
			properties.POST("", authMw, middleware.RequireRole("HOST", "ADMIN"), propertyHandler.Create)
			properties.PUT("/:id", authMw, propertyHandler.Update)
			properties.GET("/mine/list", authMw, propertyHandler.ListMine)
		}

		events := api.Group("/events")
		{
			events.GET("", eventHandler.List)
			events.GET("/:id", eventHandler.Get)
			events.POST("", authMw, middleware.RequireRole("HOST", "ADMIN"), eventHandler.Create)
			events.PUT("/:id", authMw, eventHandler.Update)
			events.GET("/mine/list", authMw, eventHandler.ListMine)
		}

		bookings := api.Group("/bookings")
		bookings.Use(authMw)
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("/mine", bookingHandler.ListMine)
			bookings.GET("/received", bookingHandler.ListForMyListings)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.PUT("/:id/confirm", bookingHandler.Confirm)
			bookings.PUT("/:id/cancel", bookingHandler.Cancel)
			bookings.GET("/:id/chat", chatHandler.History)
			bookings.GET("/:id/chat/ws", chatHandler.Join)
		}

		wallet := api.Group("/wallet")
		wallet.Use(authMw)
		{
			wallet.GET("", walletHandler.GetBalance)
			wallet.GET("/ledger", walletHandler.ListLedger)
			wallet.POST("/withdrawals", walletHandler.Withdraw)
			wallet.GET("/withdrawals", walletHandler.ListWithdrawals)
		}

		host := api.Group("/host")
		host.Use(authMw, middleware.RequireRole("HOST", "ADMIN"))
		{
			host.POST("/features", featureHandler.Purchase)
			host.POST("/subscriptions", subscriptionHandler.Subscribe)
			host.GET("/subscriptions/current", subscriptionHandler.Current)
			host.GET("/subscriptions", subscriptionHandler.History)
		}

		api.POST("/uploads/listing-photo", authMw, uploadHandler.UploadListingPhoto)
		api.GET("/notifications/ws", ws.UpgradeNotifyWS(&cfg.JWT, notifyHub))

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/revenue", adminHandler.GetRevenue)
			admin.GET("/ledger/:ref", adminHandler.ListLedgerForRef)
			admin.GET("/discrepancies", adminHandler.ListDiscrepancies)
			admin.PATCH("/discrepancies/:id/resolve", adminHandler.ResolveDiscrepancy)
			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
			admin.POST("/sweep", adminHandler.RunSweep)
		}
	}

	return r, schedulerSvc
}

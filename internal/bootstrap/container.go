package bootstrap

import (
	"context"
	"log"

	"souartista-be/internal/config"
	"souartista-be/internal/controller"
	"souartista-be/internal/handler"
	"souartista-be/internal/pkg/logger"
	"souartista-be/internal/pkg/mailer"
	"souartista-be/internal/repository/unitofwork"
	"souartista-be/internal/service"
	"souartista-be/internal/websocket"
	"souartista-be/pkg/asaas"
	pktNats "souartista-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PaymentController controller.IPaymentController
	WebhookController controller.IWebhookController
	JobsController    controller.IJobsController
	UserController    controller.IUserController
	AdminController   controller.IAdminController

	// Background Services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Exposed for the job binaries
	SweepService service.ISweepService
	Logger       logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	return newContainer(db, cfg, pubSub)
}

// NewJobContainer wires the status-change bus so Publish blocks until
// the consumer has acked. A sweep binary exits right after its run;
// without the blocking bus every event still in flight would be lost.
func NewJobContainer(db *gorm.DB, cfg *config.Config) *Container {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, watermill.NewStdLogger(false, false))
	return newContainer(db, cfg, pubSub)
}

func newContainer(db *gorm.DB, cfg *config.Config, pubSub *gochannel.GoChannel) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Infrastructure
	// NATS (push relay)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis (hub cross-instance fanout)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Payment gateway
	gateway := asaas.NewClient(cfg.Asaas.BaseURL, cfg.Asaas.ApiKey)

	// 3. Services
	notifService := service.NewNotificationService(uowFactory, natsPub, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	reconcilerService := service.NewReconcilerService(
		uowFactory,
		gateway,
		pubSub,
		cfg.App.StatusTopic,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.StatusTopic,
		uowFactory,
		notifService,
		emailService,
		sysLogger,
	)

	webhookService := service.NewWebhookService(reconcilerService, sysLogger)
	sweepService := service.NewSweepService(uowFactory, gateway, reconcilerService, sysLogger)
	paymentService := service.NewPaymentService(uowFactory, gateway, reconcilerService, sysLogger)
	userService := service.NewUserService(uowFactory, gateway, emailService, cfg.Auth.JwtSecret, sysLogger)
	adminService := service.NewAdminService(uowFactory, notifService, cfg.Auth.JwtSecret, sysLogger)

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		PaymentController:   controller.NewPaymentController(paymentService),
		WebhookController:   controller.NewWebhookController(webhookService, sysLogger),
		JobsController:      controller.NewJobsController(sweepService),
		UserController:      controller.NewUserController(userService),
		AdminController:     controller.NewAdminController(adminService),

		ConsumerService: consumerService,
		SweepService:    sweepService,
		Logger:          sysLogger,
	}
}

package bootstrap

import (
	"log"

	"support-chat-be/internal/config"
	"support-chat-be/internal/controller"
	"support-chat-be/internal/pkg/logger"
	"support-chat-be/internal/pkg/storage"
	"support-chat-be/internal/pkg/token"
	"support-chat-be/internal/repository/memory"
	"support-chat-be/internal/repository/unitofwork"
	"support-chat-be/internal/service"
	"support-chat-be/internal/websocket"

	pktNats "support-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

// domainEventsTopic carries every domain event to the audit consumer.
const domainEventsTopic = "DOMAIN_EVENTS"

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	UserController controller.IUserController
	ChatController controller.IChatController
	FileController controller.IFileController

	// Background services (exposed for main.go to run)
	AuditService service.IAuditService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Shared by the websocket handler for token auth.
	TokenIssuer *token.Issuer
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	issuer := token.NewIssuer(cfg.Auth.JwtSecret, cfg.Auth.AccessTTL)

	fileStore, err := storage.NewLocalStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize upload storage: %v", err)
	}

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Optional NATS mirror. The bus works without it.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	eventBus := service.NewEventBus(pubSub, domainEventsTopic, natsPub, sysLogger)

	// 3. Services
	userCache := memory.NewUserCache()

	auditService := service.NewAuditService(pubSub, domainEventsTopic, uowFactory, sysLogger)
	authService := service.NewAuthService(uowFactory, issuer, cfg.Auth.RefreshTTL, userCache, eventBus, sysLogger)
	userService := service.NewUserService(uowFactory, userCache, eventBus, sysLogger)
	chatService := service.NewChatService(uowFactory, eventBus, sysLogger)
	fileService := service.NewFileService(uowFactory, fileStore, eventBus, sysLogger)

	// 4. WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(chatService, wsLogger)
	go wsHub.Run()

	return &Container{
		AuthController: controller.NewAuthController(authService),
		UserController: controller.NewUserController(userService),
		ChatController: controller.NewChatController(chatService, wsHub),
		FileController: controller.NewFileController(fileService),
		AuditService:   auditService,
		WebSocketHub:   wsHub,
		TokenIssuer:    issuer,
	}
}

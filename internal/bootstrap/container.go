package bootstrap

import (
	"context"
	"log"

	"real-estate-be/internal/config"
	"real-estate-be/internal/controller"
	"real-estate-be/internal/pkg/logger"
	"real-estate-be/internal/pkg/mailer"
	"real-estate-be/internal/repository/memory"
	"real-estate-be/internal/repository/redisstore"
	"real-estate-be/internal/repository/unitofwork"
	"real-estate-be/internal/service"
	"real-estate-be/pkg/assistant/search"
	"real-estate-be/pkg/llm/factory"
	"real-estate-be/pkg/store"

	pktNats "real-estate-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// postEventsTopic is the in-process bus topic for listing changes.
const postEventsTopic = "POST_EVENTS"

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	OAuthController     controller.IOAuthController
	UserController      controller.IUserController
	PostController      controller.IPostController
	ChatController      controller.IChatController
	AssistantController controller.IAssistantController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Core facades main.go needs for shutdown
	Logger  logger.ILogger
	NatsPub *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS (best effort mirror)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 3. Assistant stack
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	var sessions store.SessionStore
	if cfg.Assistant.SessionBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessions = redisstore.NewSessionStore(rdb, cfg.Assistant.SessionMaxHistory, cfg.Assistant.SessionIdleTimeout)
		log.Printf("[INFO] Using Session Backend: REDIS")
	} else {
		sessions = memory.NewSessionStore(memory.Config{
			Capacity:      cfg.Assistant.SessionCapacity,
			MaxHistory:    cfg.Assistant.SessionMaxHistory,
			IdleTimeout:   cfg.Assistant.SessionIdleTimeout,
			SweepInterval: cfg.Assistant.SweepInterval,
		})
		log.Printf("[INFO] Using Session Backend: MEMORY")
	}

	searchAdapter := search.NewAdapter(uowFactory, log.Default())

	// 4. Services
	publisherService := service.NewPublisherService(postEventsTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, postEventsTopic, searchAdapter)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)
	userService := service.NewUserService(uowFactory)
	postService := service.NewPostService(uowFactory, publisherService, natsPub)
	chatService := service.NewChatService(uowFactory, natsPub)
	assistantService := service.NewAssistantService(
		sessions,
		llmProvider,
		searchAdapter,
		cfg.Assistant.RetryMaxAttempts,
		cfg.Assistant.RetryBaseDelay,
	)

	// 5. Controllers
	return &Container{
		AuthController:      controller.NewAuthController(authService),
		OAuthController:     controller.NewOAuthController(oauthService),
		UserController:      controller.NewUserController(userService),
		PostController:      controller.NewPostController(postService),
		ChatController:      controller.NewChatController(chatService),
		AssistantController: controller.NewAssistantController(assistantService),

		ConsumerService: consumerService,

		Logger:  sysLogger,
		NatsPub: natsPub,
	}
}

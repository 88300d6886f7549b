package bootstrap

import (
	"log"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/controller"
	"ai-chat-be/internal/pkg/limiter"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/pkg/serverutils"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/internal/service"
	"ai-chat-be/pkg/llm/factory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	ChatController controller.IChatController
	AuthMiddleware fiber.Handler

	// Background services, run by main
	AuditService service.IAuditService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Generation backend
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// Usage limiter: Redis when configured, in-process otherwise
	var usage limiter.UsageLimiter
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Fatalf("[FATAL] Invalid REDIS_URL: %v", err)
		}
		usage = limiter.NewRedisLimiter(cfg.Limits.DailyGenerations, redis.NewClient(opts))
		log.Printf("[INFO] Using Redis usage limiter")
	} else {
		usage = limiter.NewMemoryLimiter(cfg.Limits.DailyGenerations)
	}

	// Services
	chatService := service.NewChatService(
		uowFactory,
		llmProvider,
		usage,
		pubSub,
		sysLogger,
		time.Duration(cfg.Ai.GenerationTimeout)*time.Second,
	)
	auditService := service.NewAuditService(pubSub, auditLogger)

	return &Container{
		ChatController: controller.NewChatController(chatService),
		AuthMiddleware: serverutils.JwtMiddleware(cfg.Auth.JwtSecret),
		AuditService:   auditService,
		Logger:         sysLogger,
	}
}

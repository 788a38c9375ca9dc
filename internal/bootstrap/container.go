package bootstrap

import (
	"context"
	"log"

	"morning-pulse-be/internal/config"
	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/controller"
	"morning-pulse-be/internal/handler"
	"morning-pulse-be/internal/pkg/logger"
	"morning-pulse-be/internal/pkg/mailer"
	"morning-pulse-be/internal/repository/memory"
	"morning-pulse-be/internal/repository/unitofwork"
	"morning-pulse-be/internal/service"
	"morning-pulse-be/internal/websocket"
	"morning-pulse-be/pkg/events"
	"morning-pulse-be/pkg/llm/factory"
	pktNats "morning-pulse-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AskController     controller.IAskController
	StoryController   controller.IStoryController
	OpinionController controller.IOpinionController
	EditorController  controller.IEditorController
	HealthController  *controller.HealthController

	// WebSockets & Feed
	FeedHandler  *handler.FeedHandler
	WebSocketHub *websocket.Hub

	// Background Services (Exposed for main.go to run)
	ArchiveService      service.IArchiveService
	NotificationService *service.NotificationService

	// Exposed for cmd tools that seed data
	EditorService service.IEditorService

	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	llmLogger := logger.NewIsolatedLogger(cfg.App.LLMLogFilePath)
	feedLogger := logger.NewIsolatedLogger(cfg.App.FeedLogFilePath)
	c.Logger = sysLogger

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	// 2. In-process Event Bus (ask archive)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Domain event bus: NATS JetStream, or the local bus without a broker
	var (
		publisher  service.EventPublisher
		subscriber service.EventSubscriber
	)
	nc, js, err := pktNats.Connect(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] NATS unavailable (%v); using in-process event bus", err)
		bus := events.NewLocalBus()
		publisher, subscriber = bus, bus
	} else {
		natsSub := pktNats.NewSubscriber(js)
		publisher, subscriber = pktNats.NewPublisher(js), natsSub
		c.closers = append(c.closers, natsSub.Stop, func() { _ = nc.Drain() })
	}

	// 4. Redis for cross-instance feed fan-out
	rdb := connectRedis(ctx, cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, feedLogger)
	go wsHub.Run(ctx)

	// 5. LLM Provider
	llmProvider, err := factory.NewLLMProvider(ctx, factory.Settings{
		Provider:          cfg.Ai.LLMProvider,
		Model:             cfg.Ai.LLMModel,
		BaseURL:           cfg.Ai.OllamaBaseURL,
		APIKey:            cfg.Keys.GoogleGemini,
		RequestsPerMinute: cfg.Ai.RequestsPerMinute,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 6. Services
	corpusCache := memory.NewCorpusCache(constant.CorpusCacheTTL)
	sessionRepo := memory.NewSessionRepository(cfg.Ask.SessionTTL, nil)

	storyService := service.NewStoryService(uowFactory, corpusCache, publisher, sysLogger)
	opinionService := service.NewOpinionService(uowFactory, corpusCache, publisher, emailService, sysLogger)
	editorService := service.NewEditorService(uowFactory, cfg.Keys.JWTSecret, sysLogger)
	archiveService := service.NewArchiveService(pubSub, pubSub, cfg.Ask.ArchiveTopic, uowFactory, llmLogger)
	askService := service.NewAskService(
		storyService,
		opinionService,
		llmProvider,
		sessionRepo,
		archiveService,
		service.AskSettings{
			TopK:        cfg.Ask.TopK,
			Timeout:     cfg.Ask.Timeout,
			Temperature: cfg.Ai.Temperature,
		},
		llmLogger,
	)
	notifService := service.NewNotificationService(subscriber, wsHub, emailService, cfg.SMTP.EditorInbox, feedLogger)

	// 7. Controllers
	c.AskController = controller.NewAskController(askService)
	c.StoryController = controller.NewStoryController(storyService)
	c.OpinionController = controller.NewOpinionController(opinionService)
	c.EditorController = controller.NewEditorController(editorService, archiveService)
	c.HealthController = controller.NewHealthController(func() controller.HealthStatus {
		return controller.HealthStatus{
			ActiveSessions: sessionRepo.Count(),
			FeedClients:    wsHub.ClientCount(),
		}
	})
	c.FeedHandler = handler.NewFeedHandler(storyService, wsHub, feedLogger)
	c.WebSocketHub = wsHub
	c.ArchiveService = archiveService
	c.NotificationService = notifService
	c.EditorService = editorService

	c.closers = append(c.closers, func() {
		_ = llmLogger.Sync()
		_ = feedLogger.Sync()
		_ = sysLogger.Sync()
	})
	return c
}

// Close releases broker connections and flushes the loggers, in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func connectRedis(ctx context.Context, url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Redis unavailable (%v); feed stays local to this instance", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

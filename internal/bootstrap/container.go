package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-studio-be/internal/config"
	"ai-studio-be/internal/controller"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/pkg/mailer"
	"ai-studio-be/internal/pkg/serverutils"
	"ai-studio-be/internal/repository/unitofwork"
	"ai-studio-be/internal/service"
	"ai-studio-be/internal/websocket"
	"ai-studio-be/pkg/ledger"
	"ai-studio-be/pkg/llm/openai"
	"ai-studio-be/pkg/modelcatalog"
	pktNats "ai-studio-be/pkg/nats"
	"ai-studio-be/pkg/provider"
	"ai-studio-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ToolController     controller.IToolController
	PromptController   controller.IPromptController
	MediaController    controller.IMediaController
	CreditController   controller.ICreditController
	PaymentController  controller.IPaymentController
	AdminController    controller.IAdminController
	RealtimeController controller.IRealtimeController

	// Middleware
	Auth      fiber.Handler
	AdminOnly fiber.Handler

	// Background services (run by main.go)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, !cfg.App.IsDevelopment())
	creditLedger := ledger.New(uowFactory, sysLogger)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	verifier, err := serverutils.NewTokenVerifier(cfg.Auth.JwtSecret, cfg.Auth.JwtPublicKey)
	if err != nil {
		log.Fatalf("[FATAL] Auth configuration: %v", err)
	}

	// 2. Event bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)

	// 3. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	rdb := connectRedis(cfg.App.RedisURL)

	store, err := storage.New(context.Background(), storage.Config{
		Driver:         cfg.Storage.Driver,
		LocalDir:       cfg.Storage.LocalDir,
		PublicBaseURL:  cfg.Storage.PublicBaseURL,
		S3Bucket:       cfg.Storage.S3Bucket,
		S3Region:       cfg.Storage.S3Region,
		S3Endpoint:     cfg.Storage.S3Endpoint,
		S3AccessKey:    cfg.Storage.S3AccessKey,
		S3SecretKey:    cfg.Storage.S3SecretKey,
		S3UsePathStyle: cfg.Storage.S3UsePathStyle,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize object storage: %v", err)
	}

	// WebSocket hub; chatty, so it logs to its own file
	hostname, _ := os.Hostname()
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, hostname+"-"+uuid.NewString()[:8], wsLogger)

	// 4. AI providers
	// one Replicate client serves predictions and the catalog listing
	var replicateRunner provider.Runner
	var catalogSource modelcatalog.CatalogSource = modelcatalog.StaticSource{}
	replicateClient, err := provider.NewReplicateClient(cfg.Keys.Replicate, cfg.Ai.ReplicateBaseURL, cfg.Ai.ProviderTimeout)
	if err != nil {
		log.Printf("[WARN] Replicate disabled: %v", err)
	} else {
		replicateRunner = provider.NewReplicateRunner(replicateClient)
		catalogSource = modelcatalog.NewReplicateSource(replicateClient, cfg.Ai.CatalogMaxPages)
	}

	catalogCache := modelcatalog.NewCatalogCache(
		catalogSource,
		rdb,
		cfg.Ai.CatalogTTL,
		sysLogger,
	)
	resolver := modelcatalog.NewResolver(modelcatalog.DefaultOverrides, catalogCache)

	runner := provider.NewRouter(
		replicateRunner,
		provider.Route{
			Prefix: "openai/",
			Runner: provider.NewOpenAIImageRunner(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.ProviderTimeout),
		},
	)
	llmProvider := openai.NewProvider(cfg.Keys.OpenAI, cfg.Ai.OpenAIBaseURL, cfg.Ai.PromptModel, cfg.Ai.ProviderTimeout)
	log.Printf("[INFO] Using prompt model: %s", cfg.Ai.PromptModel)

	// 5. Services
	generationService := service.NewGenerationService(
		creditLedger,
		resolver,
		runner,
		uowFactory,
		pubSub,
		cfg.App.MediaTopic,
		natsPub,
		wsHub,
		sysLogger,
		service.WithProviderTimeout(cfg.Ai.ProviderTimeout),
	)
	consumerService := service.NewRehostConsumer(pubSub, cfg.App.MediaTopic, uowFactory, store, wsHub, sysLogger)
	promptService := service.NewPromptService(creditLedger, llmProvider, wsHub, sysLogger)
	mediaService := service.NewMediaService(uowFactory)
	creditService := service.NewCreditService(creditLedger, uowFactory)
	paymentService := service.NewPaymentService(cfg.Payment, uowFactory, creditLedger, emailService, natsPub, wsHub, sysLogger)
	adminService := service.NewAdminService(uowFactory, creditLedger, resolver, natsPub, wsHub, sysLogger)

	development := cfg.App.IsDevelopment()

	return &Container{
		ToolController:     controller.NewToolController(generationService, development),
		PromptController:   controller.NewPromptController(promptService, development),
		MediaController:    controller.NewMediaController(mediaService),
		CreditController:   controller.NewCreditController(creditService),
		PaymentController:  controller.NewPaymentController(paymentService),
		AdminController:    controller.NewAdminController(adminService),
		RealtimeController: controller.NewRealtimeController(wsHub, verifier),

		Auth:      verifier.Middleware(),
		AdminOnly: serverutils.AdminOnly(cfg.Auth.AdminUserIds),

		ConsumerService: consumerService,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,

		pubSub:  pubSub,
		natsPub: natsPub,
		rdb:     rdb,
	}
}

// connectRedis returns nil when Redis is unreachable; the hub and catalog then stay process-local.
func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (running without fan-out)", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func (c *Container) Close() {
	_ = c.pubSub.Close()
	c.natsPub.Close()
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}

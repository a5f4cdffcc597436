// File: roomdesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomdesk/config"
	"roomdesk/cron"
	"roomdesk/database"
	documentRepo "roomdesk/database/repository/document"
	"roomdesk/handlers"
	"roomdesk/middleware"
	"roomdesk/models"
	"roomdesk/routes"
	"roomdesk/services/admin"
	"roomdesk/services/dedupe"
	"roomdesk/services/intelligence"
	"roomdesk/services/inventory"
	"roomdesk/services/ledger"
	"roomdesk/services/negotiation"
	"roomdesk/services/notification"
	"roomdesk/services/trust"
	"roomdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "config file (default ./config.yaml or ./config/config.yaml)")
	initStorage := pflag.Bool("init-storage", false, "create empty inventory, ledger and metadata documents when they are missing")
	pflag.Parse()

	config.LoadConfig(*configFile)
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := utils.NewSystemClock(config.Location())

	// storage.
	inventoryStore, ledgerStore, metadataStore := openStores()
	if *initStorage {
		bootstrap(ctx, logger, inventoryStore, models.Inventory{})
		bootstrap(ctx, logger, ledgerStore, models.Ledger{})
		bootstrap(ctx, logger, metadataStore, models.Metadata{Enabled: true})
	}

	// services.
	inventoryService := inventory.NewDefaultInventoryService(inventoryStore, config.AppConfig.DefaultCapacity, logger.Named("inventory"))
	if _, err := inventoryService.Load(ctx); err != nil {
		logger.Sugar().Fatalf("main: inventory %s is not usable (run with --init-storage to create it): %v", inventoryStore.Name(), err)
	}
	ledgerService := ledger.NewDefaultLedgerService(ledgerStore, logger.Named("ledger"))
	trustConfig := trust.NewConfig(metadataStore, logger.Named("trust"))
	if err := trustConfig.Load(ctx); err != nil {
		logger.Sugar().Fatalf("main: failed to load trust settings: %v", err)
	}

	var sessionStore negotiation.SessionStore = negotiation.NewMemorySessionStore()
	var tracker dedupe.Tracker = dedupe.NewMemoryTracker(config.AppConfig.DedupeTTL)
	var redisClients []*redis.Client
	if config.AppConfig.RedisEnabled {
		client := utils.GetSessionCacheClient()
		sessionStore = negotiation.NewRedisSessionStore(client, config.AppConfig.SessionTTL)
		tracker = dedupe.NewRedisTracker(client, config.AppConfig.DedupeTTL)
		redisClients = append(redisClients, client)
	}

	completer, closeCompleter := newCompleter(ctx, logger)
	defer closeCompleter()
	extractor := intelligence.NewLLMExtractor(
		intelligence.RateLimited(completer, newLLMLimiter(config.AppConfig.LLMRequestsPerSec)),
		logger.Named("intelligence"),
	)
	deliverer := newDeliverer(logger)

	engine, err := negotiation.NewEngine(sessionStore, inventoryService, ledgerService, trustConfig, extractor, deliverer, logger.Named("negotiation"))
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	engine.Clock = clock
	engine.OfferToken = config.AppConfig.OfferToken
	engine.ConfirmationChatID = config.AppConfig.ConfirmationChatID
	engine.SuppressRepeatReplies = config.AppConfig.SuppressRepeatReplies

	dispatcher, err := admin.NewDispatcher(inventoryService, ledgerService, trustConfig, extractor, config.AppConfig.HelpText, logger.Named("admin"))
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	dispatcher.Clock = clock

	// handlers.
	webhookHandler := handlers.NewWebhookHandler(
		engine,
		dispatcher,
		deliverer,
		tracker,
		config.AppConfig.NegotiationChatID,
		config.AppConfig.AdminChatID,
		logger.Named("webhook"),
	)
	adminHandler := handlers.NewAdminHandler(inventoryService, ledgerService, trustConfig, dispatcher)
	handlerBundle := handlers.NewHandlerBundle(webhookHandler, adminHandler)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger.Named("http")))

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(ctx, redisClients, database.MongoClient)

	if spec := config.AppConfig.DailyReportCron; spec != "" {
		if !config.AppConfig.RedisEnabled {
			logger.Warn("DAILY_REPORT_CRON is set but Redis is disabled, daily report not scheduled")
		} else {
			worker, err := cron.NewReportWorker(
				asynq.RedisClientOpt{
					Addr:     config.AppConfig.RedisAddr,
					Password: config.AppConfig.RedisPassword,
					DB:       config.AppConfig.RedisQueueDB,
				},
				spec,
				config.Location(),
				config.AppConfig.AdminChatID,
				dispatcher,
				deliverer,
				logger.Named("cron"),
			)
			if err != nil {
				logger.Sugar().Fatalf("main: %v", err)
			}
			worker.Start()
			defer worker.Shutdown()
		}
	}

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (storage=%s, intent=%s)...",
		srv.Addr, config.AppConfig.StorageBackend, config.AppConfig.IntentProvider)
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Sugar().Warnf("main: failed to close MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// openStores picks the document backend from STORAGE_BACKEND.
func openStores() (inventoryStore, ledgerStore, metadataStore documentRepo.Store) {
	switch config.AppConfig.StorageBackend {
	case "mongo":
		db := database.Database()
		return documentRepo.NewMongoStore(db, "inventory"),
			documentRepo.NewMongoStore(db, "ledger"),
			documentRepo.NewMongoStore(db, "metadata")
	case "file", "":
		return documentRepo.NewFileStore(config.AppConfig.InventoryFile),
			documentRepo.NewFileStore(config.AppConfig.LedgerFile),
			documentRepo.NewFileStore(config.AppConfig.MetadataFile)
	default:
		zap.L().Sugar().Fatalf("main: unknown STORAGE_BACKEND %q (want file or mongo)", config.AppConfig.StorageBackend)
		return nil, nil, nil
	}
}

func bootstrap(ctx context.Context, logger *zap.Logger, store documentRepo.Store, empty any) {
	created, err := documentRepo.Bootstrap(ctx, store, empty)
	if err != nil {
		logger.Warn("Could not initialise document", zap.String("store", store.Name()), zap.Error(err))
		return
	}
	if created {
		logger.Info("Initialised empty document", zap.String("store", store.Name()))
	}
}

// newCompleter builds the model client named by INTENT_PROVIDER.
func newCompleter(ctx context.Context, logger *zap.Logger) (intelligence.Completer, func()) {
	switch config.AppConfig.IntentProvider {
	case "gemini":
		if config.AppConfig.GeminiAPIKey == "" {
			logger.Fatal("GEMINI_API_KEY is required when INTENT_PROVIDER=gemini")
		}
		client, err := intelligence.NewGeminiClient(ctx, config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		return client, func() { _ = client.Close() }
	case "openai", "":
		if config.AppConfig.OpenAIAPIKey == "" {
			logger.Fatal("OPENAI_API_KEY is required when INTENT_PROVIDER=openai")
		}
		return intelligence.NewOpenAIClient(config.AppConfig.OpenAIAPIKey, config.AppConfig.OpenAIModel), func() {}
	default:
		logger.Sugar().Fatalf("main: unknown INTENT_PROVIDER %q (want openai or gemini)", config.AppConfig.IntentProvider)
		return nil, nil
	}
}

func newLLMLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// newDeliverer falls back to logging outbound messages without WHAPI_API_KEY.
func newDeliverer(logger *zap.Logger) notification.Deliverer {
	if config.AppConfig.WhapiAPIKey == "" {
		logger.Warn("WHAPI_API_KEY not set, outbound messages are only logged")
		return notification.NewLogDeliverer(logger.Named("outbound"))
	}
	d, err := notification.NewWhapiDeliverer(config.AppConfig.WhapiURL, config.AppConfig.WhapiAPIKey, logger.Named("whapi"))
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	return d
}

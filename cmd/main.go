package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YelzhanWeb/quick-order/internal/adapter/logger"
	"github.com/YelzhanWeb/quick-order/internal/adapter/memory"
	"github.com/YelzhanWeb/quick-order/internal/adapter/postgres"
	"github.com/YelzhanWeb/quick-order/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/quick-order/internal/app/history"
	"github.com/YelzhanWeb/quick-order/internal/app/scheduler"
	"github.com/YelzhanWeb/quick-order/internal/app/session"
	"github.com/YelzhanWeb/quick-order/internal/config"
	"github.com/YelzhanWeb/quick-order/internal/interfaces"

	amqpAdapter "github.com/YelzhanWeb/quick-order/internal/adapter/amqp"
	httpAdapter "github.com/YelzhanWeb/quick-order/internal/adapter/http"
)

func main() {
	// Parse command-line flags
	mode := flag.String("mode", "", "Service mode: session-service, notification-subscriber")
	port := flag.Int("port", 3000, "HTTP port")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Initialize logger
	lgr := logger.New(*mode)

	// Connect to RabbitMQ
	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	// Route to appropriate service
	switch *mode {
	case "session-service":
		runSessionService(ctx, cfg, mqConn, lgr, *port)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func openStorage(ctx context.Context, cfg *config.Config, lgr logger.Logger) (interfaces.Storage, func()) {
	if cfg.Database.Driver == "memory" {
		lgr.Info("storage_ready", "Using in-memory storage", "startup", nil)
		return memory.New(), func() {}
	}

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	if err := postgres.InitSchema(ctx, db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	lgr.Info("db_connected", "Connected to PostgreSQL database", "startup", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	return postgres.NewBlobStore(db), db.Close
}

func runSessionService(ctx context.Context, cfg *config.Config, mqConn rabbitmq.Connection, lgr logger.Logger, port int) {
	storage, closeStorage := openStorage(ctx, cfg, lgr)
	defer closeStorage()

	// Initialize messaging
	publisher := rabbitmq.NewPublisher(mqConn)

	// History store owns the persisted list for the life of the session
	storeCtx, stopStore := context.WithCancel(ctx)
	defer stopStore()

	store := history.NewStore(storage, publisher, lgr, cfg.Session.HistoryLimit)
	if err := store.Start(storeCtx); err != nil {
		log.Fatalf("Failed to start history store: %v", err)
	}

	// Background status advancement
	statusScheduler := scheduler.New(store, lgr, time.Duration(cfg.Session.StatusIntervalSeconds)*time.Second)
	statusScheduler.Start(ctx)

	// Initialize the wizard
	sessionService := session.NewService(store, publisher, lgr, time.Duration(cfg.Session.SubmitDelaySeconds)*time.Second)

	// Initialize HTTP handlers
	sessionHandler := httpAdapter.NewSessionHandler(sessionService, lgr)
	historyHandler := httpAdapter.NewHistoryHandler(sessionService, lgr)

	// Setup HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/menu", sessionHandler.GetMenu)
	mux.HandleFunc("/session", sessionHandler.GetSession)
	mux.HandleFunc("/session/", sessionHandler.HandleAction)
	mux.HandleFunc("/orders/history", historyHandler.HandleHistory)

	// Apply middleware
	handler := httpAdapter.LoggingMiddleware(lgr)(mux)
	handler = httpAdapter.RecoveryMiddleware(lgr)(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Session Service started on port %d", port), "startup", map[string]interface{}{
		"port":            port,
		"status_interval": cfg.Session.StatusIntervalSeconds,
		"history_limit":   cfg.Session.HistoryLimit,
	})

	// Graceful shutdown
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down Session Service", "shutdown", nil)

		// Stop the ticker before the store so no advancement lands mid-teardown
		statusScheduler.Stop()
		stopStore()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger) {
	// Initialize consumer
	consumer := rabbitmq.NewConsumer(mqConn)

	// Initialize handler
	notificationHandler := amqpAdapter.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification Subscriber started", "startup", nil)

	// Start consuming notifications
	go func() {
		if err := consumer.ConsumeNotifications(ctx, notificationHandler.HandleNotification); err != nil {
			lgr.Error("consumer_error", "Error consuming notifications", "runtime", nil, err)
		}
	}()

	// Wait for shutdown signal
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down Notification Subscriber", "shutdown", nil)
}

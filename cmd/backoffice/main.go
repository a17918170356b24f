package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/boutiquegn/backoffice/internal/audit"
	auditdomain "github.com/boutiquegn/backoffice/internal/audit/domain"
	"github.com/boutiquegn/backoffice/internal/inventory"
	httpDelivery "github.com/boutiquegn/backoffice/internal/inventory/delivery/http"
	invdomain "github.com/boutiquegn/backoffice/internal/inventory/domain"
	invcommand "github.com/boutiquegn/backoffice/internal/inventory/usecase/command"
	"github.com/boutiquegn/backoffice/internal/order"
	orderdomain "github.com/boutiquegn/backoffice/internal/order/domain"
	"github.com/boutiquegn/backoffice/internal/payment"
	paymentdomain "github.com/boutiquegn/backoffice/internal/payment/domain"
	"github.com/boutiquegn/backoffice/internal/product"
	productdomain "github.com/boutiquegn/backoffice/internal/product/domain"
	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/database"
	"github.com/boutiquegn/backoffice/pkg/logger"
	"github.com/boutiquegn/backoffice/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "backoffice-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting backoffice service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "backofficedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Separate raw connection for health checks, kept off the ORM pool.
	healthDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer healthDB.Close()

	// Run migrations
	err = db.AutoMigrate(
		&productdomain.Product{},
		&invdomain.Stock{},
		&invdomain.StockMovement{},
		&invdomain.Reservation{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&paymentdomain.Payment{},
		&paymentdomain.Refund{},
		&auditdomain.Record{},
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher is optional; without brokers events are skipped.
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Fatal().Err(err).Str("brokers", brokers).Msg("Failed to connect to Kafka")
		}
		defer publisher.Close()
	} else {
		logger.Logger.Warn().Msg("KAFKA_BROKERS not set, events will not be published")
	}

	// Audit recorder
	recorder, err := audit.InitializeRecorder(db, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize audit recorder")
	}

	// Initialize handlers with Wire DI
	productHandler, err := product.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize product handler")
	}
	inventoryHandler, err := inventory.InitializeHTTPHandler(db, publisher, recorder)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize inventory handler")
	}
	orderHandler, err := order.InitializeHTTPHandler(db, publisher, recorder)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize order handler")
	}
	paymentHandler, err := payment.InitializeHTTPHandler(db, publisher, recorder)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize payment handler")
	}
	auditHandler, err := audit.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize audit handler")
	}

	// Setup router
	router := mux.NewRouter()
	middlewareConfig := httpDelivery.DefaultMiddlewareConfig()
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)

	productHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	paymentHandler.RegisterRoutes(router)
	auditHandler.RegisterRoutes(router)
	inventoryHandler.RegisterHealthCheck(router, healthDB)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Reservation expiry sweeper
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	startExpirySweeper(sweepCtx, db, recorder)

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: httpDelivery.SetupCORS(middlewareConfig)(router),
	}
	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server shutdown failed")
	}
	if tp != nil {
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
		}
	}
}

// startExpirySweeper reclaims stock from lapsed reservations on a fixed
// interval until ctx is cancelled.
func startExpirySweeper(ctx context.Context, db *gorm.DB, recorder *audit.Recorder) {
	interval := 1 * time.Minute
	if raw := getEnv("RESERVATION_SWEEP_INTERVAL", ""); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			interval = d
		}
	}

	sweeper, err := inventory.InitializeExpirySweeper(db, recorder)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize expiry sweeper")
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := sweeper.Handle(ctx, invcommand.ExpireReservationsCommand{}); err != nil {
					logger.Error(ctx).Err(err).Msg("Reservation expiry sweep failed")
				}
			}
		}
	}()
	logger.Logger.Info().Dur("interval", interval).Msg("Reservation expiry sweeper started")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

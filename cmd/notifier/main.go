package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/boutiquegn/backoffice/kafka"
	"github.com/boutiquegn/backoffice/pkg/logger"
	"github.com/boutiquegn/backoffice/pkg/tracing"
)

// The notifier tails the event topics and turns them into customer and
// operator notifications. Delivery here is the log; a real SMS or email
// gateway plugs in behind the same handlers.
func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "backoffice-notifier")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	}

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	groupID := getEnv("KAFKA_GROUP_ID", "backoffice-notifier")
	topics := []string{kafka.TopicOrderEvents, kafka.TopicRefundEvents, kafka.TopicStockAlerts}

	consumer, err := kafka.NewConsumer(brokers, groupID, topics)
	if err != nil {
		logger.Logger.Fatal().Err(err).Strs("brokers", brokers).Msg("Failed to create consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeOrderConfirmed, handleOrderEvent)
	consumer.RegisterHandler(kafka.EventTypeOrderShipped, handleOrderEvent)
	consumer.RegisterHandler(kafka.EventTypeOrderDelivered, handleOrderEvent)
	consumer.RegisterHandler(kafka.EventTypeRefundRequested, handleRefundEvent)
	consumer.RegisterHandler(kafka.EventTypeRefundProcessed, handleRefundEvent)
	consumer.RegisterHandler(kafka.EventTypeStockAlert, handleStockAlert)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Consumer stopped")
		}
	}()
	logger.Logger.Info().Strs("topics", topics).Msg("Notifier started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down notifier...")
	cancel()
	if tp != nil {
		if err := tracing.Shutdown(context.Background(), tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Tracer shutdown failed")
		}
	}
}

func handleOrderEvent(ctx context.Context, eventType string, payload []byte) error {
	var event kafka.OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	logger.Info(ctx).
		Str("event_type", eventType).
		Str("order_number", event.OrderNumber).
		Uint("customer_id", event.CustomerID).
		Str("status", event.Status).
		Msg("Customer notification sent")
	return nil
}

func handleRefundEvent(ctx context.Context, eventType string, payload []byte) error {
	var event kafka.RefundEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	logger.Info(ctx).
		Str("event_type", eventType).
		Uint("refund_id", event.RefundID).
		Uint("order_id", event.OrderID).
		Float64("amount", event.Amount).
		Msg("Refund notification sent")
	return nil
}

func handleStockAlert(ctx context.Context, eventType string, payload []byte) error {
	var event kafka.StockAlertEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	logger.Warn(ctx).
		Str("alert_type", event.AlertType).
		Uint("product_id", event.ProductID).
		Int("current_quantity", event.CurrentQuantity).
		Int("threshold", event.Threshold).
		Msg("Stock alert raised to operators")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

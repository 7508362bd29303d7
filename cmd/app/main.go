package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lejet/booking-gateway/config"
	"github.com/lejet/booking-gateway/internal/bootstrap"
	"github.com/lejet/booking-gateway/internal/cache"
	"github.com/lejet/booking-gateway/internal/kafka"
	"github.com/lejet/booking-gateway/internal/service/admin"
	"github.com/lejet/booking-gateway/internal/service/workflow"
	"github.com/lejet/booking-gateway/internal/session"
	"github.com/lejet/booking-gateway/internal/upstream"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Session.TTL(), time.Duration(cfg.Booking.SearchCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout())

	sessions := session.NewManager(client, redisCache)
	workflowService := workflow.NewService(
		client,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		cfg.Booking.CancelCutoff(),
		cfg.Booking.SubmitLockTTL(),
		workflow.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	adminService := admin.NewService(client)

	if err := bootstrap.Run(ctx, cfg, sessions, workflowService, adminService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

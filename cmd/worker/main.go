package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lostiburones/cobranza-service/internal/application/service"
	"github.com/lostiburones/cobranza-service/internal/config"
	"github.com/lostiburones/cobranza-service/internal/domain"
	"github.com/lostiburones/cobranza-service/internal/infrastructure/messaging"
	sqlrepository "github.com/lostiburones/cobranza-service/internal/infrastructure/repository/mysql"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	// Load configuration
	cfg := config.Load()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	logger.Info("connected to Redis successfully")

	// MySQL is only needed to resolve client names on notifications
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local",
		cfg.MySQL.User,
		cfg.MySQL.Password,
		cfg.MySQL.Host,
		cfg.MySQL.Database,
	)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal("failed to connect to MySQL", zap.Error(err))
	}

	clientRepo := sqlrepository.NewClientRepository(db, logger)

	// Initialize notification service
	notificationService := service.NewNotificationService(clientRepo, logger)

	// Initialize event subscriber
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("worker-%s-%d", hostname, os.Getpid())
	eventSubscriber := messaging.NewRedisEventSubscriber(redisClient, logger, consumerName)

	// Subscribe to payment applied events
	if err := eventSubscriber.Subscribe(ctx, domain.EventTypePaymentApplied, notificationService.HandlePaymentApplied); err != nil {
		logger.Fatal("failed to subscribe to events", zap.Error(err))
	}

	logger.Info("worker started",
		zap.String("consumer", consumerName),
		zap.String("event_type", domain.EventTypePaymentApplied),
	)

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down worker...")
		cancel()
	}()

	// Start processing events
	if err := eventSubscriber.Start(ctx); err != nil {
		logger.Info("worker stopped", zap.Error(err))
	}

	logger.Info("worker exited")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lostiburones/cobranza-service/internal/config"
	"github.com/lostiburones/cobranza-service/internal/infrastructure/messaging"
	"github.com/lostiburones/cobranza-service/internal/infrastructure/persistence"
	sqlrepository "github.com/lostiburones/cobranza-service/internal/infrastructure/repository/mysql"
	"github.com/lostiburones/cobranza-service/internal/interface/http/handler"
	"github.com/lostiburones/cobranza-service/internal/interface/http/router"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()

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

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Fatal("MySQL ping failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&persistence.ClientModel{},
		&persistence.ProductModel{},
		&persistence.FinancingModel{},
		&persistence.FinancingItemModel{},
		&persistence.PaymentModel{},
		&persistence.ControlNumberModel{},
	); err != nil {
		logger.Fatal("failed to auto-migrate schemas", zap.Error(err))
	}

	logger.Info("connected to MySQL successfully", zap.String("host", cfg.MySQL.Host))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	logger.Info("connected to Redis successfully")

	repos := sqlrepository.NewRepositories(db, redisClient, logger)

	eventPublisher := messaging.NewRedisEventPublisher(redisClient, logger)
	logger.Info("event publishing enabled")

	handlers := handler.NewHandlers(repos, eventPublisher, cfg.Financing, logger)
	r := router.NewRouter(handlers, logger)

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", zap.String("address", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

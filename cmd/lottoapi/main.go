package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"lottoapi/internal/config"
	"lottoapi/internal/handlers"
	"lottoapi/internal/repository"
	"lottoapi/internal/services"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize the logger
	lg := logger.Init("lottoapi", true, false, io.Discard)
	defer lg.Close()

	// 3. Open the database connection
	db, err := gorm.Open(mysql.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to access database pool: %v", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.MaxIdleTime) * time.Second)

	// 4. Connect to redis for the draw-set cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.PassWord,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	// 5. Build the repositories; the draw store is wrapped in the
	// redis cache decorator.
	drawRepo := repository.NewCachedDrawRepository(
		repository.NewGormDrawRepository(db), rdb, cfg.Cache.DrawsTTL)
	keyRepo := repository.NewGormAPIKeyRepository(db)

	// 6. Initialize the Lottery Service
	lotteryService := services.NewLotteryService(drawRepo)

	// 7. Initialize the HTTP Handler and set up the gin router
	httpHandler := handlers.NewHTTPHandler(lotteryService, keyRepo)
	r := gin.Default()

	// 8. Register public routes (before middleware)
	httpHandler.RegisterPublicRoutes(r)

	// 9. Group routes that require an API key and apply the middleware
	protected := r.Group("/api/th/v1/lottery")
	protected.Use(httpHandler.APIKeyMiddleware())
	httpHandler.RegisterLotteryRoutes(protected)

	// 10. Re-warm the draw-set cache periodically in the background
	go func() {
		for {
			time.Sleep(cfg.Cache.WarmInterval)
			if _, err := drawRepo.Warm(context.Background()); err != nil {
				logger.Errorf("Draw cache warm failed: %v", err)
			} else {
				logger.Infof("Re-warmed the draw-set cache.")
			}
		}
	}()

	// 11. Run the server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Server starting on http://localhost%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/greencity/econews_server/config"
	"github.com/greencity/econews_server/internal/database"
	"github.com/greencity/econews_server/internal/pkg/logger"
	"github.com/greencity/econews_server/internal/pkg/rating"
	"github.com/greencity/econews_server/internal/worker"
)

func main() {
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync()

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		zl.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	queue := rating.NewQueue(rdb, cfg.Rating.Queue)
	client := rating.NewClient(&cfg.Rating, zl)
	processor := worker.NewProcessor(queue, client, zl)

	// 创建 context 用于优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl.Info("rating worker started",
		zap.Int("workers", cfg.Rating.Workers),
		zap.String("queue", cfg.Rating.Queue),
		zap.String("target", cfg.Rating.BaseURL))

	processor.Run(ctx, cfg.Rating.Workers)

	zl.Info("rating worker shutdown complete")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/greencity/econews_server/config"
	"github.com/greencity/econews_server/internal/api"
	"github.com/greencity/econews_server/internal/api/handler"
	"github.com/greencity/econews_server/internal/database"
	"github.com/greencity/econews_server/internal/pkg/logger"
	"github.com/greencity/econews_server/internal/pkg/notify"
	"github.com/greencity/econews_server/internal/pkg/rating"
	"github.com/greencity/econews_server/internal/pkg/ws"
	"github.com/greencity/econews_server/internal/repository"
	"github.com/greencity/econews_server/internal/service"
)

// subscriber 跨实例消息订阅
type subscriber interface {
	Subscribe(ctx context.Context, handler notify.Handler) error
}

func main() {
	// .env 可选
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

	// 初始化数据库
	db, err := database.New(&cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}
	zl.Info("database connected", zap.String("driver", cfg.Database.Driver))

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		zl.Fatal("failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	// 推送通道
	var (
		publisher notify.Publisher
		sub       subscriber
	)
	switch cfg.Notify.Driver {
	case "nats":
		nc, err := notify.Connect(cfg.Notify.NATSURL)
		if err != nil {
			zl.Fatal("failed to connect nats", zap.Error(err))
		}
		defer nc.Drain()
		publisher = notify.NewNATSPublisher(nc, cfg.Notify.Channel)
		sub = notify.NewNATSSubscriber(nc, cfg.Notify.Channel, zl)
	default:
		publisher = notify.NewRedisPublisher(rdb, cfg.Notify.Channel)
		sub = notify.NewRedisSubscriber(rdb, cfg.Notify.Channel, zl)
	}

	// 积分事件
	ratingQueue := rating.NewQueue(rdb, cfg.Rating.Queue)
	ratingHook := rating.NewHook(ratingQueue, zl)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub(zl)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewCommentLikeRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	userService := service.NewUserService(userRepo, zl)
	commentService := service.NewCommentService(
		commentRepo,
		likeRepo,
		articleRepo,
		userRepo,
		ratingHook,
		notify.NewLikeNotifier(publisher),
		cfg,
		zl,
	)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	commentHandler := handler.NewCommentHandler(commentService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, commentService, cfg.JWT.Secret, zl)

	// 初始化 Router
	router := api.NewRouter(authHandler, userHandler, commentHandler, websocketHandler, cfg, zl)
	engine := router.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// broker 消息转发给本实例的订阅者
	go func() {
		err := sub.Subscribe(ctx, func(msg *notify.Message) {
			wsHub.Broadcast(msg.Topic, msg.Payload)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			zl.Error("notify subscriber stopped", zap.Error(err))
		}
	}()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
}

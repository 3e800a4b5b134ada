package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greencity/econews_server/config"
	"github.com/greencity/econews_server/internal/api/handler"
	"github.com/greencity/econews_server/internal/api/middleware"
	"github.com/greencity/econews_server/internal/model"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	commentHandler   *handler.CommentHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
	log              *zap.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	commentHandler *handler.CommentHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
	log *zap.Logger,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		commentHandler:   commentHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
		log:              log,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(r.log))
	engine.Use(middleware.CORS(r.cfg.CORS))

	secret := r.cfg.JWT.Secret

	api := engine.Group("/api/v1")
	{
		// WebSocket，token 通过查询参数传递
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 用户
		users := api.Group("/users")
		users.Use(middleware.Auth(secret))
		{
			users.GET("/me", r.userHandler.GetProfile)
			users.PATCH("/:id/role", middleware.RequireRole(model.RoleAdmin), r.userHandler.UpdateRole)
		}

		// 评论 - 公开读取（可选认证）
		public := api.Group("")
		public.Use(middleware.OptionalAuth(secret))
		{
			public.GET("/econews/:id/comments/active", r.commentHandler.ListActive)
			public.GET("/econews/:id/comments/count", r.commentHandler.Count)
			public.GET("/comments/:id/replies/active", r.commentHandler.ListActiveReplies)
			public.GET("/comments/:id/replies/count", r.commentHandler.CountReplies)
		}

		// 评论 - 需要认证
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(secret))
		{
			authenticated.POST("/econews/:id/comments", r.commentHandler.Create)
			authenticated.GET("/econews/:id/comments",
				middleware.RequireRole(model.RoleModerator, model.RoleAdmin), r.commentHandler.ListAll)
			authenticated.GET("/comments/:id/replies", r.commentHandler.ListAllReplies)
			authenticated.PATCH("/comments/:id", r.commentHandler.Update)
			authenticated.DELETE("/comments/:id", r.commentHandler.Delete)
			authenticated.POST("/comments/:id/like", r.commentHandler.Like)
		}
	}

	return engine
}

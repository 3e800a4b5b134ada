package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/greencity/econews_server/internal/pkg/jwt"
	"github.com/greencity/econews_server/internal/pkg/ws"
	"github.com/greencity/econews_server/internal/service"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// 客户端帧
const (
	actionSubscribe    = "subscribe"
	actionUnsubscribe  = "unsubscribe"
	actionLikeAndCount = "likeAndCount"
)

type clientFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
	ID     int64  `json:"id"`
}

type WebSocketHandler struct {
	hub            *ws.Hub
	commentService *service.CommentService
	jwtSecret      string
	log            *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, commentService *service.CommentService, jwtSecret string, log *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		commentService: commentService,
		jwtSecret:      jwtSecret,
		log:            log,
	}
}

// Handle WebSocket 连接处理
// GET /api/v1/ws?token=xxx
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(claims.UserID, conn)
	h.hub.Register(client)

	go h.readLoop(client)
}

// readLoop 读取客户端帧直到连接断开
func (h *WebSocketHandler) readLoop(client *ws.Client) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.reply(client, "error", "", "malformed frame")
			continue
		}
		h.dispatch(client, &frame)
	}
}

func (h *WebSocketHandler) dispatch(client *ws.Client, frame *clientFrame) {
	switch frame.Action {
	case actionSubscribe:
		if frame.Topic == "" {
			h.reply(client, "error", "", "topic is required")
			return
		}
		h.hub.Subscribe(client, frame.Topic)
		h.reply(client, "subscribed", frame.Topic, nil)
	case actionUnsubscribe:
		h.hub.Unsubscribe(client, frame.Topic)
		h.reply(client, "unsubscribed", frame.Topic, nil)
	case actionLikeAndCount:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// 结果经由推送通道到达订阅者
		if _, err := h.commentService.CountLikes(ctx, frame.ID, client.UserID); err != nil {
			h.reply(client, "error", "", err.Error())
		}
	default:
		h.reply(client, "error", "", "unknown action")
	}
}

func (h *WebSocketHandler) reply(client *ws.Client, typ, topic string, data interface{}) {
	if err := client.Send(&ws.Message{Type: typ, Topic: topic, Data: data}); err != nil {
		h.log.Debug("ws reply failed", zap.Int64("user_id", client.UserID), zap.Error(err))
	}
}

package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub 按主题管理订阅，一个连接可以订阅多个主题
type Hub struct {
	clients map[*Client]struct{}
	topics  map[string]map[*Client]struct{}
	mu      sync.RWMutex
	log     *zap.Logger
}

type Client struct {
	UserID int64
	Conn   *websocket.Conn
	mu     sync.Mutex // 写锁，防止并发写入
	topics map[string]struct{}
}

// Message 推送给客户端的消息
type Message struct {
	Type  string      `json:"type"`
	Topic string      `json:"topic,omitempty"`
	Data  interface{} `json:"data"`
}

func NewClient(userID int64, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		topics: make(map[string]struct{}),
	}
}

// Send 写入一条 JSON 消息
func (c *Client) Send(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		topics:  make(map[string]map[*Client]struct{}),
		log:     log,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = struct{}{}
	h.log.Debug("ws connected", zap.Int64("user_id", client.UserID), zap.Int("total", len(h.clients)))
}

// Unregister 断开时清理该连接的全部订阅
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic := range client.topics {
		h.removeLocked(client, topic)
	}
	delete(h.clients, client)
	h.log.Debug("ws disconnected", zap.Int64("user_id", client.UserID))
}

func (h *Hub) Subscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][client] = struct{}{}
	client.topics[topic] = struct{}{}
}

func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client, topic)
}

func (h *Hub) removeLocked(client *Client, topic string) {
	if subs, ok := h.topics[topic]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	delete(client.topics, topic)
}

// Broadcast 向主题的所有订阅者发送，返回成功写入的连接数
func (h *Hub) Broadcast(topic string, data json.RawMessage) int {
	h.mu.RLock()
	subs, ok := h.topics[topic]
	if !ok {
		h.mu.RUnlock()
		return 0
	}
	// 复制一份引用，避免长时间持锁
	clients := make([]*Client, 0, len(subs))
	for c := range subs {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg := &Message{Type: "message", Topic: topic, Data: data}
	sent := 0
	for _, c := range clients {
		if err := c.Send(msg); err != nil {
			h.log.Warn("ws broadcast write failed", zap.String("topic", topic), zap.Int64("user_id", c.UserID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent
}

// SubscriberCount 主题订阅数
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// ConnectionCount 获取在线连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

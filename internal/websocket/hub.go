package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"morning-pulse-be/internal/constant"
	"morning-pulse-be/internal/dto"
	"morning-pulse-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans feed messages out to every connected reader. With redis configured,
// each broadcast is relayed to the other instances on the same channel.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	deliver    chan []byte

	mu    sync.RWMutex
	count int

	rdb        *redis.Client
	channel    string
	instanceID string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan []byte, 64),
		rdb:        rdb,
		channel:    constant.FeedRedisChannel,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns the client set until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.setCount(len(h.clients))
			h.logger.Debug(constant.ModuleFeed, "Client registered", map[string]interface{}{"client_id": client.ID})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Debug(constant.ModuleFeed, "Client unregistered", map[string]interface{}{"client_id": client.ID})
			}

		case data := <-h.deliver:
			for client := range h.clients {
				select {
				case client.Send <- data:
				default:
					h.logger.Warn(constant.ModuleFeed, "Send buffer full, dropping client", map[string]interface{}{"client_id": client.ID})
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	h.setCount(len(h.clients))
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// ClientCount reports the local connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Broadcast sends msg to local clients and relays it to the rest of the cluster.
func (h *Hub) Broadcast(ctx context.Context, msg dto.FeedMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case h.deliver <- data:
	case <-ctx.Done():
		return ctx.Err()
	}

	if h.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(clusterMessage{Origin: h.instanceID, Message: data})
	if err != nil {
		return err
	}
	return h.rdb.Publish(ctx, h.channel, payload).Err()
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			h.relay(ctx, msg.Payload)
		}
	}
}

// relay forwards a cluster message to local clients unless this instance sent it.
func (h *Hub) relay(ctx context.Context, raw string) {
	var cm clusterMessage
	if err := json.Unmarshal([]byte(raw), &cm); err != nil {
		h.logger.Warn(constant.ModuleFeed, "Redis message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if cm.Origin == h.instanceID {
		return
	}
	select {
	case h.deliver <- cm.Message:
	case <-ctx.Done():
	}
}

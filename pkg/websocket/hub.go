package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// AllOrders - подписка на ленту всех заявок (диспетчерская).
const AllOrders uint64 = 0

// Hub рассылает события подписчикам. Клиент подписан либо на одну заявку, либо на все.
type Hub struct {
	subscribers map[uint64]map[*Client]struct{}
	register    chan *Client
	unregister  chan *Client
	done        chan struct{}
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[uint64]map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx, затем закрывает все соединения.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			set, ok := h.subscribers[client.OrderID]
			if !ok {
				set = make(map[*Client]struct{})
				h.subscribers[client.OrderID] = set
			}
			set[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("Клиент подписан на ленту", zap.Uint64("userID", client.UserID), zap.Uint64("orderID", client.OrderID))
		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.subscribers {
				for client := range set {
					h.remove(client)
				}
			}
			h.mu.Unlock()
			h.logger.Info("Лента событий остановлена")
			return
		}
	}
}

var ErrHubStopped = errors.New("лента событий остановлена")

// Register подписывает клиента. После остановки Run возвращает ErrHubStopped.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// remove вызывается под h.mu.
func (h *Hub) remove(client *Client) {
	set, ok := h.subscribers[client.OrderID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.Send)
	if len(set) == 0 {
		delete(h.subscribers, client.OrderID)
	}
	h.logger.Debug("Клиент отписан от ленты", zap.Uint64("userID", client.UserID), zap.Uint64("orderID", client.OrderID))
}

// Publish отправляет событие подписчикам заявки и общей ленты. Возвращает число получателей.
// Медленный клиент с переполненным буфером отключается, рассылка не ждёт.
func (h *Hub) Publish(orderID uint64, messageType string, payload interface{}) (int, error) {
	messageBytes, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	targets := []uint64{orderID}
	if orderID != AllOrders {
		targets = append(targets, AllOrders)
	}
	for _, key := range targets {
		for client := range h.subscribers[key] {
			select {
			case client.Send <- messageBytes:
				delivered++
			default:
				h.logger.Warn("Буфер клиента переполнен, соединение закрыто", zap.Uint64("userID", client.UserID))
				h.remove(client)
			}
		}
	}
	return delivered, nil
}

// Subscribers - число активных подписчиков заявки (без общей ленты).
func (h *Hub) Subscribers(orderID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[orderID])
}

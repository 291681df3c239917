package ws

import (
	"sync"

	"assist_backend/internal/logger"
	"assist_backend/internal/metrics"
	"assist_backend/internal/services"
	"assist_backend/internal/services/dto"
)

// OutgoingWSMessage - конверт исходящего события
type OutgoingWSMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// WebSocketManager держит активные соединения и подписки на треды заявок.
// Реализует services.MessageNotifier: после вставки сообщения сервис чата
// зовет NotifyNewMessage, и все подписчики треда получают push.
type WebSocketManager struct {
	clients       map[*Client]bool
	subscriptions map[string]map[*Client]bool // request_id -> подписчики
	register      chan *Client
	unregister    chan *Client
	mu            sync.RWMutex

	chatService services.ChatService
}

func NewWebSocketManager(chatService services.ChatService) *WebSocketManager {
	return &WebSocketManager{
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		chatService:   chatService,
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client] = true
			total := len(manager.clients)
			manager.mu.Unlock()
			metrics.WSClientsConnected.Inc()
			logger.Info("ws client registered", "user_id", client.UserID, "total", total)

		case client := <-manager.unregister:
			manager.removeClient(client)
		}
	}
}

func (manager *WebSocketManager) removeClient(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.clients[client]; !ok {
		return
	}
	delete(manager.clients, client)
	for requestID, subs := range manager.subscriptions {
		delete(subs, client)
		if len(subs) == 0 {
			delete(manager.subscriptions, requestID)
		}
	}
	// Сначала запрещаем trySend, только потом закрываем канал
	client.markClosed()
	close(client.Send)
	if client.Conn != nil {
		// Закрытие соединения выбивает readPump из ReadMessage
		client.Conn.Close()
	}
	metrics.WSClientsConnected.Dec()
	logger.Info("ws client unregistered", "user_id", client.UserID, "total", len(manager.clients))
}

// Subscribe подписывает клиента на тред заявки. Подписка разрешена
// только сторонам заявки, чужие заявки молча отклоняются.
func (manager *WebSocketManager) Subscribe(client *Client, requestID string) {
	ok, err := manager.chatService.IsParticipant(requestID, client.UserID)
	if err != nil {
		logger.Error("ws subscribe: participant check failed", "error", err, "request_id", requestID)
		return
	}
	if !ok {
		logger.Warn("ws subscribe denied", "user_id", client.UserID, "request_id", requestID)
		client.trySend(OutgoingWSMessage{Type: "subscribe_denied", RequestID: requestID})
		return
	}

	manager.mu.Lock()
	if _, registered := manager.clients[client]; !registered {
		// Клиент уже снят с учета (например, выброшен как медленный)
		manager.mu.Unlock()
		return
	}
	subs, exists := manager.subscriptions[requestID]
	if !exists {
		subs = make(map[*Client]bool)
		manager.subscriptions[requestID] = subs
	}
	subs[client] = true
	manager.mu.Unlock()

	client.trySend(OutgoingWSMessage{Type: "subscribed", RequestID: requestID})
}

func (manager *WebSocketManager) Unsubscribe(client *Client, requestID string) {
	manager.mu.Lock()
	if subs, exists := manager.subscriptions[requestID]; exists {
		delete(subs, client)
		if len(subs) == 0 {
			delete(manager.subscriptions, requestID)
		}
	}
	manager.mu.Unlock()
}

// NotifyNewMessage - реализация services.MessageNotifier.
// Доставка at-least-once: отправитель тоже получает событие,
// клиенты дедуплицируют по id сообщения.
func (manager *WebSocketManager) NotifyNewMessage(requestID string, message *dto.MessageResponse) {
	event := OutgoingWSMessage{
		Type:      "new_message",
		RequestID: requestID,
		Data:      message,
	}

	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for client := range manager.subscriptions[requestID] {
		if !client.trySend(event) {
			// Буфер заполнен, клиент отключается
			go func(c *Client) {
				manager.unregister <- c
			}(client)
			logger.Warn("ws client dropped: send channel full", "user_id", client.UserID)
		}
	}
}

// GetClientCount возвращает количество подключенных клиентов
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

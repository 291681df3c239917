package ws

import (
	"encoding/json"
	"sync"

	"assist_backend/internal/logger"
	"assist_backend/internal/services/dto"

	"github.com/gorilla/websocket"
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type subscribePayload struct {
	RequestID string `json:"request_id"`
}

type Client struct {
	UserID  string
	Conn    *websocket.Conn
	Send    chan any
	Manager *WebSocketManager

	mu     sync.Mutex
	closed bool
}

// trySend кладет событие в буфер клиента. false - буфер переполнен
// либо клиент уже снят с учета (его Send закрыт, писать туда нельзя).
func (c *Client) trySend(msg any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// markClosed запрещает дальнейшие trySend. Вызывается менеджером
// строго до close(Send): текущий trySend держит mu, поэтому после
// возврата markClosed в канал уже никто не пишет.
func (c *Client) markClosed() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "error", err, "user_id", c.UserID)
			}
			break
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Warn("ws: failed to parse message", "error", err, "user_id", c.UserID)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.Warn("ws write error", "error", err, "user_id", c.UserID)
			break
		}
	}
}

// Централизованный обработчик входящих действий
func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {

	case "subscribe":
		var payload subscribePayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.RequestID == "" {
			logger.Warn("ws: invalid subscribe payload", "user_id", c.UserID)
			return
		}
		c.Manager.Subscribe(c, payload.RequestID)

	case "unsubscribe":
		var payload subscribePayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.RequestID == "" {
			return
		}
		c.Manager.Unsubscribe(c, payload.RequestID)

	case "send_message":
		var input dto.SendMessageRequest
		if err := json.Unmarshal(msg.Data, &input); err != nil {
			logger.Warn("ws: invalid send_message payload", "error", err, "user_id", c.UserID)
			return
		}
		// Подписчики (включая отправителя) получат событие new_message
		// через MessageNotifier, отдельного ответа не шлем
		if _, err := c.Manager.chatService.SendMessage(c.UserID, &input); err != nil {
			logger.Warn("ws: failed to send message", "error", err, "user_id", c.UserID)
			c.trySend(OutgoingWSMessage{Type: "error", RequestID: input.RequestID})
		}

	default:
		logger.Warn("ws: unhandled action", "action", msg.Action, "user_id", c.UserID)
	}
}

package ws

import (
	"net/http"

	"assist_backend/internal/logger"
	"assist_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшн добавьте проверку origin
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	Manager *WebSocketManager
}

func NewWebSocketHandler(manager *WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{
		Manager: manager,
	}
}

// ServeWS апгрейдит соединение. Маршрут защищен AuthMiddleware,
// userID берем из проверенного JWT, не из query.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("ws upgrade error", "error", err)
		return
	}

	client := &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan any, 256), // Буферизованный канал
		Manager: h.Manager,
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}

package handlers

import (
	"net/http"

	"assist_backend/internal/services"
	"assist_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		chatService: chatService,
	}
}

// RegisterRoutes регистрирует маршруты чата по заявкам
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	{
		chat.POST("/messages", h.SendMessage)
		chat.GET("/requests/:id/messages", h.Thread)
		chat.POST("/requests/:id/read", h.MarkRead)
		chat.GET("/unread", h.UnreadCount)
	}
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.chatService.SendMessage(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ChatHandler) Thread(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requestID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.chatService.Thread(requestID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requestID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.MarkRead(requestID, userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thread marked as read"})
}

func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.chatService.UnreadCount(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

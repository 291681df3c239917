package handlers

import (
	"net/http"

	"assist_backend/internal/middleware"
	"assist_backend/internal/models"
	"assist_backend/internal/services"
	"assist_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	*BaseHandler
	requestService services.RequestService
}

func NewRequestHandler(base *BaseHandler, requestService services.RequestService) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    base,
		requestService: requestService,
	}
}

// RegisterRoutes регистрирует маршруты заявок о помощи
func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/requests")
	{
		requests.POST("", middleware.RequireRoles(models.UserRolePatient), h.CreateRequest)
		requests.GET("/queue", middleware.RequireRoles(models.UserRoleCaregiver), h.Queue)
		requests.POST("/:id/complete", middleware.RequireRoles(models.UserRoleCaregiver), h.CompleteRequest)
		requests.GET("/history", middleware.RequireRoles(models.UserRolePatient), h.History)
		requests.GET("/pending-count", h.PendingCount)
		requests.GET("/:id", h.GetRequest)
	}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.requestService.CreateRequest(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *RequestHandler) Queue(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestService.Queue(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RequestHandler) CompleteRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requestID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	// Тело опционально: ответ опекуна можно не указывать
	var req dto.CompleteRequestRequest
	if c.Request.ContentLength > 0 {
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}
	}

	resp, err := h.requestService.CompleteRequest(requestID, userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RequestHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.HistoryQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	items, err := h.requestService.History(userID, query.Limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": items})
}

func (h *RequestHandler) PendingCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.requestService.PendingCount(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requestID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.requestService.GetRequest(requestID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

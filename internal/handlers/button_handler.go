package handlers

import (
	"net/http"

	"assist_backend/internal/middleware"
	"assist_backend/internal/models"
	"assist_backend/internal/services"
	"assist_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ButtonHandler struct {
	*BaseHandler
	buttonService services.ButtonService
}

func NewButtonHandler(base *BaseHandler, buttonService services.ButtonService) *ButtonHandler {
	return &ButtonHandler{
		BaseHandler:   base,
		buttonService: buttonService,
	}
}

// RegisterRoutes регистрирует маршруты кнопок быстрого действия.
// Кнопки принадлежат пациенту, опекунам они не нужны.
func (h *ButtonHandler) RegisterRoutes(rg *gin.RouterGroup) {
	buttons := rg.Group("/buttons")
	buttons.Use(middleware.RequireRoles(models.UserRolePatient))
	{
		buttons.GET("", h.List)
		buttons.POST("", h.Create)
		buttons.PUT("/:id", h.Update)
		buttons.DELETE("/:id", h.Delete)
	}
}

func (h *ButtonHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.buttonService.ListButtons(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"buttons": items})
}

func (h *ButtonHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateButtonRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.buttonService.CreateButton(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ButtonHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	buttonID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateButtonRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.buttonService.UpdateButton(userID, buttonID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ButtonHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	buttonID, ok := h.RequireParam(c, "id")
	if !ok {
		return
	}

	if err := h.buttonService.DeleteButton(userID, buttonID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Button deleted"})
}

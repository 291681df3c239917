package handlers

import (
	"net/http"

	"assist_backend/internal/services"
	"assist_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	*BaseHandler
	settingsService services.SettingsService
}

func NewSettingsHandler(base *BaseHandler, settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler:     base,
		settingsService: settingsService,
	}
}

func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("", h.Get)
		settings.PUT("", h.Save)
	}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.settingsService.GetSettings(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) Save(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SaveSettingsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.settingsService.SaveSettings(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

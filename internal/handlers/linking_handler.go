package handlers

import (
	"net/http"

	"assist_backend/internal/middleware"
	"assist_backend/internal/models"
	"assist_backend/internal/services"
	"assist_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type LinkingHandler struct {
	*BaseHandler
	linkingService services.LinkingService
}

func NewLinkingHandler(base *BaseHandler, linkingService services.LinkingService) *LinkingHandler {
	return &LinkingHandler{
		BaseHandler:    base,
		linkingService: linkingService,
	}
}

// RegisterRoutes регистрирует маршруты связывания пациент-опекун
func (h *LinkingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	linking := rg.Group("/linking")
	{
		// Коды выдает пациент, гасит опекун; роли проверяются и в сервисе
		linking.POST("/codes", middleware.RequireRoles(models.UserRolePatient), h.IssueCode)
		linking.POST("/redeem", middleware.RequireRoles(models.UserRoleCaregiver), h.RedeemCode)

		linking.GET("/caregivers", middleware.RequireRoles(models.UserRolePatient), h.ListCaregivers)
		linking.GET("/patients", middleware.RequireRoles(models.UserRoleCaregiver), h.ListPatients)
	}
}

func (h *LinkingHandler) IssueCode(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.linkingService.IssueCode(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *LinkingHandler) RedeemCode(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RedeemCodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.linkingService.RedeemCode(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *LinkingHandler) ListCaregivers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.linkingService.ListCaregivers(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"caregivers": items})
}

func (h *LinkingHandler) ListPatients(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	items, err := h.linkingService.ListPatients(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patients": items})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/middleware"
	"github.com/yungbote/flagbridge-backend/internal/services"
)

type StrategyHandler struct {
	strategyService services.StrategyService
}

func NewStrategyHandler(strategyService services.StrategyService) *StrategyHandler {
	return &StrategyHandler{strategyService: strategyService}
}

func (h *StrategyHandler) GetStrategies(c *gin.Context) {
	strategies, err := h.strategyService.GetStrategies(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"version": 1, "strategies": strategies})
}

func (h *StrategyHandler) GetStrategy(c *gin.Context) {
	strategy, err := h.strategyService.GetStrategy(c.Request.Context(), c.Param("name"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, strategy)
}

func (h *StrategyHandler) CreateStrategy(c *gin.Context) {
	var input services.StrategyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.strategyService.CreateStrategy(c.Request.Context(), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"name": input.Name})
}

func (h *StrategyHandler) UpdateStrategy(c *gin.Context) {
	var input services.StrategyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	if err := h.strategyService.UpdateStrategy(c.Request.Context(), c.Param("name"), input, middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"name": c.Param("name")})
}

func (h *StrategyHandler) DeleteStrategy(c *gin.Context) {
	if err := h.strategyService.DeleteStrategy(c.Request.Context(), c.Param("name"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *StrategyHandler) DeprecateStrategy(c *gin.Context) {
	if err := h.strategyService.DeprecateStrategy(c.Request.Context(), c.Param("name"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *StrategyHandler) ReactivateStrategy(c *gin.Context) {
	if err := h.strategyService.ReactivateStrategy(c.Request.Context(), c.Param("name"), middleware.UserFrom(c)); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

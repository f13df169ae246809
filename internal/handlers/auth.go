package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/flagbridge-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}
	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		// Always 401 on login, whichever part of the credentials failed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	RespondOK(c, gin.H{"token": token})
}

package handlers

import (
	"net/http"

	"appointly/services/user"
	"appointly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	Users user.UserService
}

func NewAuthHandler(users user.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

// RegisterHandler creates a regular account and returns a session token.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req user.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Users.RegisterUser(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("User registered", zap.String("userId", resp.User.ID))
	c.JSON(http.StatusCreated, resp)
}

// LoginHandler verifies credentials and returns a fresh token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Users.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/auth"
	"github.com/trackwerk-io/trackwerk-ce/internal/middleware"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

// AuthHandler handles login and session introspection.
type AuthHandler struct {
	users      repository.UserRepository
	jwtManager *auth.JWTManager
}

func NewAuthHandler(users repository.UserRepository, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{users: users, jwtManager: jwtManager}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login verifies credentials and issues a JWT. The token is also set as a
// cookie for the server-rendered pages.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	if req.Login == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "login and password are required"})
		return
	}

	user, err := h.users.GetByLogin(c.Request.Context(), req.Login)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		return
	}

	token, err := h.jwtManager.GenerateToken(user.ID, user.Login)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to issue token"})
		return
	}

	c.SetCookie("session_token", token, 24*60*60, "/", "", false, true)
	c.JSON(http.StatusOK, loginResponse{Token: token})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("session_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

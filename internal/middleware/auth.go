package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/auth"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

// userContextKey is where the authenticated *models.User lives in the gin
// context.
const userContextKey = "current_user"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      repository.UserRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, users: users}
}

// RequireAuth rejects requests without a valid bearer token or session cookie
// and loads the owning user into the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			m.unauthorized(c, "missing authorization token")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			m.unauthorized(c, "invalid or expired token")
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			m.unauthorized(c, "unknown user")
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("session_token"); err == nil {
		return cookie
	}
	return ""
}

func (m *AuthMiddleware) unauthorized(c *gin.Context, message string) {
	if acceptsHTML(c) {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}

func acceptsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

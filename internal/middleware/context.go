package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
)

// CurrentUser returns the authenticated user from the gin context, or nil
// when the request carries no user (unscoped mode).
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SetCurrentUser stores the user in the gin context. Exposed for handler tests.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userContextKey, user)
}

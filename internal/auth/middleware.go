package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenloop/greenloop/internal/entities"
)

// Context keys for the authenticated user
const (
	ContextKeyUser   = "auth_user"
	ContextKeyUserID = "auth_user_id"
)

// Middleware guards routes that require an authenticated session.
type Middleware struct {
	service   *Service
	transport *CookieTransport
}

// NewMiddleware creates the session middleware.
func NewMiddleware(service *Service, transport *CookieTransport) *Middleware {
	return &Middleware{
		service:   service,
		transport: transport,
	}
}

// RequireSession validates the session cookie and loads the account into
// the request context. Requests without a valid session are rejected with
// 401 and the same envelope shape the auth endpoints use.
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := m.transport.Extract(c.Request)
		if !ok {
			m.reject(c, "Not authenticated")
			return
		}

		user, err := m.service.Verify(token, requestMeta(c))
		if err != nil {
			m.reject(c, "Invalid session")
			return
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeyUserID, user.ID)
		c.Next()
	}
}

func (m *Middleware) reject(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}

// GetUser retrieves the authenticated user from the context, or nil.
func GetUser(c *gin.Context) *entities.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user's ID, or 0.
func GetUserID(c *gin.Context) uint {
	if v, exists := c.Get(ContextKeyUserID); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docqa/internal/model"
	"docqa/internal/transport/http/response"
)

const ContextUserKey = "current_user"

// Authenticator validates a bearer token and resolves it to a known user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// AuthBearer enforces bearer authentication. Every failure mode (missing
// header, bad scheme, bad signature, expired token, unknown subject) gets
// the same 401 body so callers learn nothing about the cause.
func AuthBearer(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const detail = "invalid authentication credentials"

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if authHeader == "" || !strings.HasPrefix(authHeader, prefix) {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, http.StatusUnauthorized, detail)
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil || user == nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, http.StatusUnauthorized, detail)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthBearer.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

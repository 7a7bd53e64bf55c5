package middleware

import (
	"net/http"
	"strings"

	"recipehub/internal/microservices/http-api/service"
	"recipehub/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const identityKey = "identity"

// AuthMiddleware rejects requests that do not carry a live session.
// The session token is read from the session cookie, or from a
// "Bearer <token>" Authorization header for API clients.
func AuthMiddleware(authService service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			abortWithError(c, service.ErrUnauthenticated)
			return
		}

		identity, err := authService.ResolveSession(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Set user info in context for handlers to use
		c.Set(identityKey, *identity)
		c.Set("userID", identity.UserID)
		c.Request = c.Request.WithContext(shared.WithIdentity(c.Request.Context(), *identity))

		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2) // 0 is Bearer, 1 is token
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// CurrentIdentity returns the identity resolved by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (shared.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return shared.Identity{}, false
	}
	identity, ok := value.(shared.Identity)
	return identity, ok
}

// abortWithError answers a service error with its mapped status and the outcome envelope.
func abortWithError(c *gin.Context, err error) {
	status, outcome := service.Describe(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, outcome)
}

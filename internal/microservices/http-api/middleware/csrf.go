package middleware

import (
	"crypto/subtle"
	"net/http"

	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const (
	CSRFHeader    = "X-CSRF-Token"
	CSRFFormField = "csrf_token"
)

// CSRFMiddleware requires state changing requests to echo the session's
// anti-forgery token. It must run after AuthMiddleware.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		identity, ok := CurrentIdentity(c)
		if !ok || identity.CSRFToken == "" {
			abortWithError(c, service.ErrInvalidCSRFToken)
			return
		}

		submitted := c.GetHeader(CSRFHeader)
		if submitted == "" {
			submitted = c.PostForm(CSRFFormField)
		}
		if subtle.ConstantTimeCompare([]byte(submitted), []byte(identity.CSRFToken)) != 1 {
			abortWithError(c, service.ErrInvalidCSRFToken)
			return
		}

		c.Next()
	}
}

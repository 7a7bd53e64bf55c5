package middleware

import (
	"net/http"

	"recipehub/internal/microservices/http-api/dto"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("error", err).
					Msg("Panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Failed("SYS001", "Internal server error"))
			}
		}()

		c.Next()
	}
}

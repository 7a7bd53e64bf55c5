package handler

import (
	"net/http"
	"strconv"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/middleware"
	"recipehub/internal/microservices/http-api/service"
	"recipehub/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func respondError(c *gin.Context, err error) {
	status, outcome := service.Describe(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Msg("request failed")
	}
	c.JSON(status, outcome)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.Failed("REQ001", message))
}

// pathID parses a positive int64 path parameter, answering 400 otherwise.
func pathID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter; junk falls back to 0.
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// identity returns the caller resolved by AuthMiddleware, answering 401 when absent.
func identity(c *gin.Context) (shared.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok || id.UserID == "" {
		respondError(c, service.ErrUnauthenticated)
		return shared.Identity{}, false
	}
	return id, true
}

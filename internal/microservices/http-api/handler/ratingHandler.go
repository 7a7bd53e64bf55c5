package handler

import (
	"net/http"
	"strings"

	"recipehub/internal/metrics"
	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
	metrics       *metrics.Metrics
}

// NewRatingHandler builds the handler; m may be nil when metrics are disabled.
func NewRatingHandler(ratingService service.RatingService, m *metrics.Metrics) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		metrics:       m,
	}
}

// RegisterRoutes registers rating-related routes
func (h *RatingHandler) RegisterRoutes(public, protected *gin.RouterGroup, limit gin.HandlerFunc) {
	ratings := public.Group("/recipes/:recipe_id/ratings")
	{
		ratings.GET("", h.List)
		ratings.GET("/stats", h.Stats)
	}

	protected.POST("/ratings", limit, h.Submit)

	mine := protected.Group("/recipes/:recipe_id/ratings")
	{
		mine.GET("/me", h.GetUserRating)
		mine.DELETE("", h.Delete)
	}
}

// Submit creates or updates the caller's rating
// POST /api/ratings {"recipe_id": 1, "rating": 5, "comment": "..."}
func (h *RatingHandler) Submit(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req dto.SubmitRatingRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid rating data")
		return
	}

	result, err := h.ratingService.Submit(c.Request.Context(), id.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.RatingSubmitted(result.Result())
	c.JSON(http.StatusOK, dto.Succeeded(result.Message()))
}

// List returns one page of a recipe's ratings
// GET /api/recipes/:recipe_id/ratings?page=1&page_size=10
func (h *RatingHandler) List(c *gin.Context) {
	recipeID, ok := pathID(c, "recipe_id", "recipe")
	if !ok {
		return
	}

	result, err := h.ratingService.List(c.Request.Context(), recipeID, queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats returns total, average and the star distribution
// GET /api/recipes/:recipe_id/ratings/stats
func (h *RatingHandler) Stats(c *gin.Context) {
	recipeID, ok := pathID(c, "recipe_id", "recipe")
	if !ok {
		return
	}

	stats, err := h.ratingService.Statistics(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetUserRating retrieves the caller's rating for a recipe
// GET /api/recipes/:recipe_id/ratings/me
func (h *RatingHandler) GetUserRating(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipe_id", "recipe")
	if !ok {
		return
	}

	rating, err := h.ratingService.GetUserRating(c.Request.Context(), recipeID, id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if rating == nil {
		c.JSON(http.StatusNotFound, dto.Failed(service.ErrRatingNotFound.Code, "You have not rated this recipe yet"))
		return
	}
	c.JSON(http.StatusOK, rating)
}

// Delete removes the caller's rating; ?user_id= naming anyone else is refused
// DELETE /api/recipes/:recipe_id/ratings
func (h *RatingHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipe_id", "recipe")
	if !ok {
		return
	}

	target := strings.TrimSpace(c.Query("user_id"))
	if err := h.ratingService.Delete(c.Request.Context(), recipeID, id.UserID, target); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Succeeded("Rating deleted"))
}

package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type RecipeHandler struct {
	recipeService service.RecipeService
	ratingService service.RatingService
	maxImageBytes int64
}

func NewRecipeHandler(recipeService service.RecipeService, ratingService service.RatingService, maxImageBytes int64) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		ratingService: ratingService,
		maxImageBytes: maxImageBytes,
	}
}

// RegisterRoutes registers recipe routes
func (h *RecipeHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	recipes := public.Group("/recipes")
	{
		recipes.GET("", h.List)
		recipes.GET("/:recipe_id", h.Get)
	}

	protected.GET("/me/recipes", h.Mine)

	owned := protected.Group("/recipes")
	{
		owned.POST("", h.Create)
		owned.PUT("/:recipe_id", h.Update)
		owned.DELETE("/:recipe_id", h.Delete)
	}
}

// List returns recipes newest first
// GET /api/recipes?page=1&page_size=12&q=soup&user_id=...
func (h *RecipeHandler) List(c *gin.Context) {
	result, err := h.recipeService.List(c.Request.Context(), dto.RecipeQuery{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
		Search:   strings.TrimSpace(c.Query("q")),
		OwnerID:  strings.TrimSpace(c.Query("user_id")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Mine lists the caller's own recipes
// GET /api/me/recipes
func (h *RecipeHandler) Mine(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	result, err := h.recipeService.List(c.Request.Context(), dto.RecipeQuery{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
		OwnerID:  id.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns one recipe with its rating statistics
// GET /api/recipes/:recipe_id
func (h *RecipeHandler) Get(c *gin.Context) {
	recipeID, ok := pathID(c, "recipe_id", "recipe")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetByID(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.ratingService.Statistics(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RecipeDetailResponse{RecipeResponse: *recipe, Stats: stats})
}

// Create accepts JSON or a multipart form with an optional "image" file
// POST /api/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	in, image, ok := h.bindRecipe(c)
	if !ok {
		return
	}

	recipeID, err := h.recipeService.Create(c.Request.Context(), id.UserID, in, image)
	if err != nil {
		respondError(c, err)
		return
	}

	out := dto.Succeeded("Recipe created")
	out.ID = recipeID
	c.JSON(http.StatusCreated, out)
}

// Update overwrites a recipe owned by the caller
// PUT /api/recipes/:recipe_id
func (h *RecipeHandler) Update(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipe_id", "recipe")
	if !ok {
		return
	}

	in, image, ok := h.bindRecipe(c)
	if !ok {
		return
	}

	if err := h.recipeService.Update(c.Request.Context(), recipeID, id.UserID, in, image); err != nil {
		respondError(c, err)
		return
	}

	out := dto.Succeeded("Recipe updated")
	out.ID = recipeID
	c.JSON(http.StatusOK, out)
}

// Delete removes a recipe owned by the caller
// DELETE /api/recipes/:recipe_id
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipe_id", "recipe")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), recipeID, id.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Succeeded("Recipe deleted"))
}

func (h *RecipeHandler) bindRecipe(c *gin.Context) (dto.RecipeInput, []byte, bool) {
	var in dto.RecipeInput
	if err := c.ShouldBind(&in); err != nil {
		badRequest(c, "Invalid request body")
		return in, nil, false
	}

	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return in, nil, true
	}

	image, err := h.readImage(c)
	if err != nil {
		badRequest(c, "Could not read uploaded image")
		return in, nil, false
	}
	return in, image, true
}

// readImage returns the uploaded "image" part, at most one byte over the
// limit so oversize uploads are still detected downstream.
func (h *RecipeHandler) readImage(c *gin.Context) ([]byte, error) {
	header, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("form file: %w", err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

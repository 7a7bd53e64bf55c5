package dto

import (
	"fmt"
	"strings"
	"time"

	"recipehub/internal/microservices/http-api/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultRecipePageSize = 12
	MaxPageSize           = 100
)

// RecipeInput carries the editable recipe fields, bound from JSON or multipart forms
type RecipeInput struct {
	Title        string `json:"title" form:"title"`
	Description  string `json:"description" form:"description"`
	Ingredients  string `json:"ingredients" form:"ingredients"`
	Instructions string `json:"instructions" form:"instructions"`
	PrepTime     int    `json:"prep_time" form:"prep_time"`
	CookTime     int    `json:"cook_time" form:"cook_time"`
	Servings     int    `json:"servings" form:"servings"`
}

func (in *RecipeInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Ingredients = strings.TrimSpace(in.Ingredients)
	in.Instructions = strings.TrimSpace(in.Instructions)
}

func (in RecipeInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, models.RecipeTitleMax)),
		validation.Field(&in.Description, validation.RuneLength(0, models.RecipeDescriptionMax)),
		validation.Field(&in.Ingredients, validation.Required),
		validation.Field(&in.Instructions, validation.Required),
		validation.Field(&in.PrepTime, validation.Min(0), validation.Max(models.RecipeMinutesMax)),
		validation.Field(&in.CookTime, validation.Min(0), validation.Max(models.RecipeMinutesMax)),
		validation.Field(&in.Servings, validation.Min(models.RecipeServingsMin), validation.Max(models.RecipeServingsMax)),
	)
}

// ToModel maps the input onto a recipe owned by userID.
func (in RecipeInput) ToModel(userID string) *models.Recipe {
	return &models.Recipe{
		UserID:       userID,
		Title:        in.Title,
		Description:  in.Description,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		PrepTime:     in.PrepTime,
		CookTime:     in.CookTime,
		Servings:     in.Servings,
	}
}

// RecipeQuery holds listing parameters; empty Search and OwnerID do not filter
type RecipeQuery struct {
	Page     int
	PageSize int
	Search   string
	OwnerID  string
}

type AuthorResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RecipeResponse for list and detail views
type RecipeResponse struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Ingredients    string         `json:"ingredients"`
	Instructions   string         `json:"instructions"`
	PrepTime       int            `json:"prep_time"`
	CookTime       int            `json:"cook_time"`
	TotalTime      int            `json:"total_time"`
	PrepTimeLabel  string         `json:"prep_time_label"`
	CookTimeLabel  string         `json:"cook_time_label"`
	TotalTimeLabel string         `json:"total_time_label"`
	Servings       int            `json:"servings"`
	ImageFilename  *string        `json:"image_filename,omitempty"`
	ImageURL       string         `json:"image_url,omitempty"`
	Author         AuthorResponse `json:"author"`
	AvgRating      float64        `json:"avg_rating"`
	RatingCount    int64          `json:"rating_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// FromSummaryToRecipeResponse converts a joined recipe row; imageURL maps a stored
// filename to a public URL.
func FromSummaryToRecipeResponse(s *models.RecipeSummary, imageURL func(string) string) RecipeResponse {
	total := s.PrepTime + s.CookTime
	resp := RecipeResponse{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		Ingredients:    s.Ingredients,
		Instructions:   s.Instructions,
		PrepTime:       s.PrepTime,
		CookTime:       s.CookTime,
		TotalTime:      total,
		PrepTimeLabel:  FormatMinutes(s.PrepTime),
		CookTimeLabel:  FormatMinutes(s.CookTime),
		TotalTimeLabel: FormatMinutes(total),
		Servings:       s.Servings,
		ImageFilename:  s.ImageFilename,
		Author: AuthorResponse{
			ID:        s.UserID,
			Username:  s.Username,
			FirstName: s.FirstName,
			LastName:  s.LastName,
		},
		AvgRating:   s.AvgRating,
		RatingCount: s.RatingCount,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.ImageFilename != nil && *s.ImageFilename != "" && imageURL != nil {
		resp.ImageURL = imageURL(*s.ImageFilename)
	}
	return resp
}

// FormatMinutes renders a duration as "45 min", "1h" or "1h 30min".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, rest)
}

type PaginatedRecipeResponse struct {
	Data []RecipeResponse `json:"data"`
	Pagination
}

func NewPaginatedRecipeResponse(data []RecipeResponse, total int64, page, pageSize int) *PaginatedRecipeResponse {
	return &PaginatedRecipeResponse{Data: data, Pagination: NewPagination(total, page, pageSize)}
}

// RecipeDetailResponse is a single recipe with its rating breakdown
type RecipeDetailResponse struct {
	RecipeResponse
	Stats *RatingStats `json:"stats,omitempty"`
}

package dto

import (
	"math"
	"strings"
	"time"

	"recipehub/internal/microservices/http-api/models"
)

const DefaultRatingPageSize = 10

// SubmitRatingRequest for creating or updating a rating.
// The range of Rating is checked by the rating service.
type SubmitRatingRequest struct {
	RecipeID int64  `json:"recipe_id" form:"recipe_id" binding:"required"`
	Rating   int    `json:"rating" form:"rating"`
	Comment  string `json:"comment" form:"comment"`
}

func (r *SubmitRatingRequest) Normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}

// SubmitRatingResult tells whether the submission created a new rating
type SubmitRatingResult struct {
	RatingID int64
	Created  bool
}

func (r SubmitRatingResult) Message() string {
	if r.Created {
		return "Your rating has been submitted"
	}
	return "Your rating has been updated"
}

// Result is the metric label for the submission.
func (r SubmitRatingResult) Result() string {
	if r.Created {
		return "created"
	}
	return "updated"
}

// RatingResponse for returning rating information with its author
type RatingResponse struct {
	ID        int64     `json:"id"`
	RecipeID  int64     `json:"recipe_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModelToRatingResponse converts a Rating model to RatingResponse DTO
func FromModelToRatingResponse(rating *models.Rating) RatingResponse {
	return RatingResponse{
		ID:        rating.ID,
		RecipeID:  rating.RecipeID,
		UserID:    rating.UserID,
		Username:  rating.User.Username,
		FirstName: rating.User.FirstName,
		LastName:  rating.User.LastName,
		Rating:    rating.Rating,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
		UpdatedAt: rating.UpdatedAt,
	}
}

// PaginatedRatingResponse for returning paginated ratings
type PaginatedRatingResponse struct {
	Data []RatingResponse `json:"data"`
	Pagination
}

// NewPaginatedRatingResponse creates a paginated rating response
func NewPaginatedRatingResponse(data []RatingResponse, total int64, page, pageSize int) *PaginatedRatingResponse {
	return &PaginatedRatingResponse{Data: data, Pagination: NewPagination(total, page, pageSize)}
}

type StarBucket struct {
	Stars   int   `json:"stars"`
	Count   int64 `json:"count"`
	Percent int   `json:"percent"`
}

// RatingStats is the derived rating summary of a recipe. Distribution[i] holds i+1 stars.
type RatingStats struct {
	Total        int64         `json:"total"`
	Average      float64       `json:"average"`
	Distribution [5]StarBucket `json:"distribution"`
}

// NewRatingStats builds the histogram. Each percentage is rounded half-up on
// its own, so the five of them need not add up to 100.
func NewRatingStats(total int64, average float64, counts [5]int64) *RatingStats {
	stats := &RatingStats{Total: total}
	if total > 0 {
		stats.Average = average
	}
	for i, count := range counts {
		bucket := StarBucket{Stars: i + 1, Count: count}
		if total > 0 {
			bucket.Percent = int(math.Floor(float64(count)*100/float64(total) + 0.5))
		}
		stats.Distribution[i] = bucket
	}
	return stats
}

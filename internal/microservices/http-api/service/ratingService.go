package service

import (
	"context"
	"errors"
	"unicode/utf8"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"

	"github.com/rs/zerolog/log"
)

type RatingService interface {
	Submit(ctx context.Context, userID string, req dto.SubmitRatingRequest) (*dto.SubmitRatingResult, error)
	GetUserRating(ctx context.Context, recipeID int64, userID string) (*dto.RatingResponse, error)
	List(ctx context.Context, recipeID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error)
	Statistics(ctx context.Context, recipeID int64) (*dto.RatingStats, error)
	Delete(ctx context.Context, recipeID int64, requesterID, targetUserID string) error
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	recipeRepo repository.RecipeRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, recipeRepo repository.RecipeRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		recipeRepo: recipeRepo,
	}
}

// Submit creates or overwrites the user's rating of a recipe.
// Owners cannot rate their own recipes.
func (s *ratingService) Submit(ctx context.Context, userID string, req dto.SubmitRatingRequest) (*dto.SubmitRatingResult, error) {
	req.Normalize()
	if req.Rating < models.RatingMin || req.Rating > models.RatingMax {
		return nil, ErrOutOfRange
	}
	if utf8.RuneCountInString(req.Comment) > models.RatingCommentMax {
		return nil, ErrCommentTooLong
	}

	ownerID, err := s.recipeRepo.FindOwnerID(ctx, req.RecipeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, persistenceError("find recipe", err)
	}
	if ownerID == userID {
		return nil, ErrSelfRatingForbidden
	}

	rating := &models.Rating{
		RecipeID: req.RecipeID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	created, err := s.ratingRepo.Upsert(ctx, rating)
	if err != nil {
		// the recipe was deleted between the lookup and the upsert
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, persistenceError("save rating", err)
	}

	log.Ctx(ctx).Debug().
		Int64("recipe_id", req.RecipeID).
		Str("user_id", userID).
		Int("rating", req.Rating).
		Bool("created", created).
		Msg("rating submitted")

	return &dto.SubmitRatingResult{RatingID: rating.ID, Created: created}, nil
}

// GetUserRating returns the user's rating of the recipe, or nil when there is none.
func (s *ratingService) GetUserRating(ctx context.Context, recipeID int64, userID string) (*dto.RatingResponse, error) {
	rating, err := s.ratingRepo.GetByRecipeAndUser(ctx, recipeID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, persistenceError("get rating", err)
	}
	resp := dto.FromModelToRatingResponse(rating)
	return &resp, nil
}

// List returns one page of a recipe's ratings, newest first.
func (s *ratingService) List(ctx context.Context, recipeID int64, page, pageSize int) (*dto.PaginatedRatingResponse, error) {
	page, pageSize = dto.NormalizePage(page, pageSize, dto.DefaultRatingPageSize, dto.MaxPageSize)

	ratings, total, err := s.ratingRepo.ListByRecipe(ctx, recipeID, page, pageSize)
	if err != nil {
		return nil, persistenceError("list ratings", err)
	}

	data := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		data = append(data, dto.FromModelToRatingResponse(&ratings[i]))
	}
	return dto.NewPaginatedRatingResponse(data, total, page, pageSize), nil
}

// Statistics computes total, mean and the star histogram from live rows.
func (s *ratingService) Statistics(ctx context.Context, recipeID int64) (*dto.RatingStats, error) {
	tally, err := s.ratingRepo.Tally(ctx, recipeID)
	if err != nil {
		return nil, persistenceError("tally ratings", err)
	}
	return dto.NewRatingStats(tally.Total, tally.Average, tally.Stars), nil
}

// Delete removes the requester's rating. A target other than the requester is refused.
func (s *ratingService) Delete(ctx context.Context, recipeID int64, requesterID, targetUserID string) error {
	if targetUserID != "" && targetUserID != requesterID {
		return ErrNotAuthor
	}

	if err := s.ratingRepo.Delete(ctx, recipeID, requesterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRatingNotFound
		}
		return persistenceError("delete rating", err)
	}
	return nil
}

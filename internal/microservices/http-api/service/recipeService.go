package service

import (
	"bytes"
	"context"
	"errors"

	"recipehub/internal/media"
	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/repository"

	"github.com/rs/zerolog/log"
)

type RecipeService interface {
	List(ctx context.Context, q dto.RecipeQuery) (*dto.PaginatedRecipeResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.RecipeResponse, error)
	Create(ctx context.Context, userID string, in dto.RecipeInput, image []byte) (int64, error)
	Update(ctx context.Context, id int64, userID string, in dto.RecipeInput, image []byte) error
	Delete(ctx context.Context, id int64, userID string) error
}

type recipeService struct {
	recipeRepo    repository.RecipeRepository
	store         media.Store
	maxImageBytes int64
}

func NewRecipeService(recipeRepo repository.RecipeRepository, store media.Store, maxImageBytes int64) RecipeService {
	return &recipeService{
		recipeRepo:    recipeRepo,
		store:         store,
		maxImageBytes: maxImageBytes,
	}
}

func (s *recipeService) List(ctx context.Context, q dto.RecipeQuery) (*dto.PaginatedRecipeResponse, error) {
	page, pageSize := dto.NormalizePage(q.Page, q.PageSize, dto.DefaultRecipePageSize, dto.MaxPageSize)

	items, total, err := s.recipeRepo.List(ctx, repository.RecipeFilter{
		Search:  q.Search,
		OwnerID: q.OwnerID,
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	})
	if err != nil {
		return nil, persistenceError("list recipes", err)
	}

	data := make([]dto.RecipeResponse, 0, len(items))
	for i := range items {
		data = append(data, dto.FromSummaryToRecipeResponse(&items[i], s.store.URL))
	}
	return dto.NewPaginatedRecipeResponse(data, total, page, pageSize), nil
}

func (s *recipeService) GetByID(ctx context.Context, id int64) (*dto.RecipeResponse, error) {
	summary, err := s.recipeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, persistenceError("get recipe", err)
	}
	resp := dto.FromSummaryToRecipeResponse(summary, s.store.URL)
	return &resp, nil
}

// Create stores the optional image first and the row second; a failed insert
// removes the image again.
func (s *recipeService) Create(ctx context.Context, userID string, in dto.RecipeInput, image []byte) (int64, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return 0, validationError(err)
	}

	recipe := in.ToModel(userID)
	filename, err := s.saveImage(ctx, image)
	if err != nil {
		return 0, err
	}
	recipe.ImageFilename = filename

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		s.removeImage(ctx, filename)
		return 0, persistenceError("create recipe", err)
	}

	log.Ctx(ctx).Info().Int64("recipe_id", recipe.ID).Str("user_id", userID).Msg("recipe created")
	return recipe.ID, nil
}

// Update overwrites the recipe fields when userID owns it. Without a new image
// the stored one is kept; with one, the replaced file is removed afterwards.
func (s *recipeService) Update(ctx context.Context, id int64, userID string, in dto.RecipeInput, image []byte) error {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return validationError(err)
	}

	recipe := in.ToModel(userID)
	recipe.ID = id
	filename, err := s.saveImage(ctx, image)
	if err != nil {
		return err
	}
	recipe.ImageFilename = filename

	previous, err := s.recipeRepo.Update(ctx, recipe)
	if err != nil {
		s.removeImage(ctx, filename)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotOwner
		}
		return persistenceError("update recipe", err)
	}

	if filename != nil && previous != nil && *previous != *filename {
		s.removeImage(ctx, previous)
	}
	return nil
}

// Delete removes the recipe when userID owns it, then its image best-effort.
func (s *recipeService) Delete(ctx context.Context, id int64, userID string) error {
	image, err := s.recipeRepo.Delete(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotOwnerDelete
		}
		return persistenceError("delete recipe", err)
	}

	s.removeImage(ctx, image)
	log.Ctx(ctx).Info().Int64("recipe_id", id).Str("user_id", userID).Msg("recipe deleted")
	return nil
}

// saveImage validates and stores upload bytes. No bytes means no image.
func (s *recipeService) saveImage(ctx context.Context, data []byte) (*string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	img, err := media.Validate(data, s.maxImageBytes)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Code: ErrInvalidImage.Code, Message: err.Error(), Err: err}
	}

	filename := media.NewFilename(img.Ext)
	if err := s.store.Save(ctx, filename, bytes.NewReader(img.Data), img.Size(), img.ContentType); err != nil {
		return nil, persistenceError("store image", err)
	}
	return &filename, nil
}

// removeImage never fails the request; the row change is already authoritative.
func (s *recipeService) removeImage(ctx context.Context, filename *string) {
	if filename == nil || *filename == "" {
		return
	}
	if err := s.store.Remove(ctx, *filename); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("filename", *filename).Msg("failed to remove recipe image")
	}
}

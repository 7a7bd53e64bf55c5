package repository

import (
	"context"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RatingTally is the raw aggregate for one recipe: count, mean and per-star counts
// with Stars[0] holding 1-star ratings.
type RatingTally struct {
	Total   int64
	Average float64
	Stars   [5]int64
}

type RatingRepository interface {
	Upsert(ctx context.Context, rating *models.Rating) (created bool, err error)
	Delete(ctx context.Context, recipeID int64, userID string) error
	GetByRecipeAndUser(ctx context.Context, recipeID int64, userID string) (*models.Rating, error)
	ListByRecipe(ctx context.Context, recipeID int64, page, pageSize int) ([]models.Rating, int64, error)
	Tally(ctx context.Context, recipeID int64) (*RatingTally, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// xmax is zero only for a row version created by this very insert.
const upsertRatingSQL = `INSERT INTO ratings (recipe_id, user_id, rating, comment, created_at, updated_at)
VALUES (?, ?, ?, ?, NOW(), NOW())
ON CONFLICT (recipe_id, user_id) DO UPDATE
	SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()
RETURNING id, (xmax = 0) AS inserted`

// Upsert stores the rating keyed on (recipe_id, user_id) in one statement and
// reports whether a new row was created.
func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) (bool, error) {
	var rows []struct {
		ID       int64
		Inserted bool
	}
	err := r.db.WithContext(ctx).
		Raw(upsertRatingSQL, rating.RecipeID, rating.UserID, rating.Rating, rating.Comment).
		Scan(&rows).Error
	if err != nil {
		return false, translate("upsert rating", err)
	}
	if len(rows) == 0 {
		return false, ErrNotFound
	}
	rating.ID = rows[0].ID
	return rows[0].Inserted, nil
}

// Delete a rating by recipe and author
func (r *ratingRepository) Delete(ctx context.Context, recipeID int64, userID string) error {
	result := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&models.Rating{})
	if result.Error != nil {
		return translate("delete rating", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByRecipeAndUser retrieves a user's rating for a specific recipe
func (r *ratingRepository) GetByRecipeAndUser(ctx context.Context, recipeID int64, userID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Preload("User").
		First(&rating).Error
	if err != nil {
		return nil, translate("get rating", err)
	}
	return &rating, nil
}

// ListByRecipe retrieves the ratings of a recipe with their authors, newest first
func (r *ratingRepository) ListByRecipe(ctx context.Context, recipeID int64, page, pageSize int) ([]models.Rating, int64, error) {
	var ratings []models.Rating
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Where("recipe_id = ?", recipeID).Count(&total).Error; err != nil {
		return nil, 0, translate("count ratings", err)
	}
	if total == 0 {
		return []models.Rating{}, 0, nil
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, translate("list ratings", err)
	}

	return ratings, total, nil
}

// Tally computes count, mean and the star histogram in a single aggregate query.
func (r *ratingRepository) Tally(ctx context.Context, recipeID int64) (*RatingTally, error) {
	var row struct {
		Total   int64
		Average float64
		Star1   int64
		Star2   int64
		Star3   int64
		Star4   int64
		Star5   int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select(`COUNT(*) AS total,
			COALESCE(AVG(rating), 0)::float8 AS average,
			COALESCE(SUM(CASE WHEN rating = 1 THEN 1 ELSE 0 END), 0) AS star1,
			COALESCE(SUM(CASE WHEN rating = 2 THEN 1 ELSE 0 END), 0) AS star2,
			COALESCE(SUM(CASE WHEN rating = 3 THEN 1 ELSE 0 END), 0) AS star3,
			COALESCE(SUM(CASE WHEN rating = 4 THEN 1 ELSE 0 END), 0) AS star4,
			COALESCE(SUM(CASE WHEN rating = 5 THEN 1 ELSE 0 END), 0) AS star5`).
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return nil, translate("tally ratings", err)
	}

	return &RatingTally{
		Total:   row.Total,
		Average: row.Average,
		Stars:   [5]int64{row.Star1, row.Star2, row.Star3, row.Star4, row.Star5},
	}, nil
}

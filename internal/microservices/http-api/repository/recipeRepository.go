package repository

import (
	"context"
	"strings"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Empty fields do not filter.
type RecipeFilter struct {
	Search  string
	OwnerID string
	Limit   int
	Offset  int
}

type RecipeRepository interface {
	List(ctx context.Context, filter RecipeFilter) ([]models.RecipeSummary, int64, error)
	GetByID(ctx context.Context, id int64) (*models.RecipeSummary, error)
	FindOwnerID(ctx context.Context, id int64) (string, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) (previousImage *string, err error)
	Delete(ctx context.Context, id int64, userID string) (image *string, err error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

const recipeSummaryColumns = `r.*, u.username, u.first_name, u.last_name,
	COALESCE(AVG(rt.rating), 0)::float8 AS avg_rating,
	COUNT(rt.id) AS rating_count`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// scoped builds the FROM/WHERE part shared by the count and the page query.
func (r *recipeRepository) scoped(ctx context.Context, filter RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Table("recipes AS r").
		Joins("JOIN users u ON u.id = r.user_id")

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + likeEscaper.Replace(search) + "%"
		q = q.Where("(r.title ILIKE ? OR r.description ILIKE ? OR r.ingredients ILIKE ?)", like, like, like)
	}
	if filter.OwnerID != "" {
		q = q.Where("r.user_id = ?", filter.OwnerID)
	}
	return q
}

// List returns one page of recipes newest first, with owner names and rating aggregates.
func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]models.RecipeSummary, int64, error) {
	var total int64
	if err := r.scoped(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, translate("count recipes", err)
	}

	items := make([]models.RecipeSummary, 0, filter.Limit)
	if total == 0 {
		return items, 0, nil
	}

	err := r.scoped(ctx, filter).
		Select(recipeSummaryColumns).
		Joins("LEFT JOIN ratings rt ON rt.recipe_id = r.id").
		Group("r.id, u.id").
		Order("r.created_at DESC, r.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&items).Error
	if err != nil {
		return nil, 0, translate("list recipes", err)
	}
	return items, total, nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*models.RecipeSummary, error) {
	var items []models.RecipeSummary
	err := r.db.WithContext(ctx).
		Table("recipes AS r").
		Select(recipeSummaryColumns).
		Joins("JOIN users u ON u.id = r.user_id").
		Joins("LEFT JOIN ratings rt ON rt.recipe_id = r.id").
		Where("r.id = ?", id).
		Group("r.id, u.id").
		Scan(&items).Error
	if err != nil {
		return nil, translate("get recipe", err)
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// FindOwnerID returns the user id owning the recipe.
func (r *recipeRepository) FindOwnerID(ctx context.Context, id int64) (string, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Select("id", "user_id").
		Where("id = ?", id).
		Take(&recipe).Error
	if err != nil {
		return "", translate("find recipe owner", err)
	}
	return recipe.UserID, nil
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	// gorm populates ID and timestamps
	return translate("create recipe", r.db.WithContext(ctx).Omit("User").Create(recipe).Error)
}

// The owner check lives in the locking subquery, so a recipe that is missing
// and one owned by someone else both come back as zero rows.
const updateRecipeSQL = `UPDATE recipes AS r SET
	title = ?, description = ?, ingredients = ?, instructions = ?,
	prep_time = ?, cook_time = ?, servings = ?,
	image_filename = COALESCE(?, old.image_filename),
	updated_at = NOW()
FROM (SELECT id, image_filename FROM recipes WHERE id = ? AND user_id = ? FOR UPDATE) AS old
WHERE r.id = old.id
RETURNING old.image_filename`

// Update overwrites the editable fields of a recipe owned by recipe.UserID.
// A nil ImageFilename keeps the stored one. The image reference held before
// the update is returned so the caller can remove a replaced file.
func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) (*string, error) {
	var rows []struct {
		ImageFilename *string
	}
	err := r.db.WithContext(ctx).Raw(updateRecipeSQL,
		recipe.Title, recipe.Description, recipe.Ingredients, recipe.Instructions,
		recipe.PrepTime, recipe.CookTime, recipe.Servings,
		recipe.ImageFilename,
		recipe.ID, recipe.UserID,
	).Scan(&rows).Error
	if err != nil {
		return nil, translate("update recipe", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0].ImageFilename, nil
}

const deleteRecipeSQL = `DELETE FROM recipes WHERE id = ? AND user_id = ? RETURNING image_filename`

// Delete removes a recipe owned by userID; ratings go with it through the
// foreign key cascade. The stored image reference is returned.
func (r *recipeRepository) Delete(ctx context.Context, id int64, userID string) (*string, error) {
	var rows []struct {
		ImageFilename *string
	}
	if err := r.db.WithContext(ctx).Raw(deleteRecipeSQL, id, userID).Scan(&rows).Error; err != nil {
		return nil, translate("delete recipe", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0].ImageFilename, nil
}

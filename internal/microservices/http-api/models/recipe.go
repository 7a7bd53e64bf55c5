package models

import "time"

// Bounds enforced on recipe fields, both in validation and as table CHECKs.
const (
	RecipeTitleMax       = 200
	RecipeDescriptionMax = 500
	RecipeMinutesMax     = 1440
	RecipeServingsMin    = 1
	RecipeServingsMax    = 100
)

type Recipe struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title         string    `json:"title" gorm:"size:200;not null;check:chk_recipes_title,title <> ''"`
	Description   string    `json:"description" gorm:"size:500;not null;default:''"`
	Ingredients   string    `json:"ingredients" gorm:"type:text;not null;check:chk_recipes_ingredients,ingredients <> ''"`
	Instructions  string    `json:"instructions" gorm:"type:text;not null;check:chk_recipes_instructions,instructions <> ''"`
	PrepTime      int       `json:"prep_time" gorm:"not null;default:0;check:chk_recipes_prep_time,prep_time BETWEEN 0 AND 1440"`
	CookTime      int       `json:"cook_time" gorm:"not null;default:0;check:chk_recipes_cook_time,cook_time BETWEEN 0 AND 1440"`
	Servings      int       `json:"servings" gorm:"not null;default:1;check:chk_recipes_servings,servings BETWEEN 1 AND 100"`
	ImageFilename *string   `json:"image_filename,omitempty" gorm:"size:255"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// RecipeSummary is a recipe row joined with its owner and rating aggregate.
// It is scanned from the list/detail query and never stored.
type RecipeSummary struct {
	Recipe
	Username    string  `json:"username"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int64   `json:"rating_count"`
}

package models

import "time"

const (
	RatingMin        = 1
	RatingMax        = 5
	RatingCommentMax = 500
)

type Rating struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RecipeID  int64     `json:"recipe_id" gorm:"not null;uniqueIndex:idx_ratings_recipe_user,priority:1"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_recipe_user,priority:2;index"`
	Rating    int       `json:"rating" gorm:"not null;check:chk_ratings_rating,rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment" gorm:"size:500;not null;default:''"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;"`
}

func (Rating) TableName() string {
	return "ratings"
}

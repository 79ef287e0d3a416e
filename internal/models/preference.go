package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserPreference stores a user's dietary settings; one row per user.
type UserPreference struct {
	ID                  uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DietaryRestrictions datatypes.JSONSlice[string] `json:"dietary_restrictions"`
	Allergies           datatypes.JSONSlice[string] `json:"allergies"`
	PreferredCuisines   datatypes.JSONSlice[string] `json:"preferred_cuisines"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}

func (p *UserPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MealRating is a user's 1-5 score for a suggested meal.
type MealRating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MealName  string    `gorm:"size:255;not null" json:"meal_name"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (MealRating) TableName() string {
	return "meal_ratings"
}

func (r *MealRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

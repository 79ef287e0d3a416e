package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns meal plans, preferences, ratings and a cached menu slot.
// Deleting a user removes all of them.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	Preference *UserPreference `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	MealPlans  []MealPlan      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Ratings    []MealRating    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

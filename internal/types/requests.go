package types

import (
	"github.com/google/uuid"
)

// DefaultDuration is the plan length used when a request omits it.
const DefaultDuration = 7

// GenerationRequest represents the body of a meal plan generation request
type GenerationRequest struct {
	UserID              uuid.UUID `json:"-"`
	TargetCalories      float64   `json:"targetCalories" binding:"required,min=1000,max=5000"`
	Duration            int       `json:"duration" binding:"omitempty,min=1,max=30"`
	DietaryRestrictions []string  `json:"dietaryRestrictions" binding:"omitempty,dive,required,max=50"`
	Preferences         []string  `json:"preferences" binding:"omitempty,dive,required,max=100"`
}

// ResolvedDuration returns the requested duration or DefaultDuration.
func (r GenerationRequest) ResolvedDuration() int {
	if r.Duration <= 0 {
		return DefaultDuration
	}
	return r.Duration
}

// MenuFilter narrows recommended menu generation
type MenuFilter struct {
	Difficulty  Difficulty `form:"difficulty" json:"difficulty,omitempty" binding:"omitempty,oneof=easy medium hard"`
	MaxCalories float64    `form:"maxCalories" json:"maxCalories,omitempty" binding:"omitempty,min=500,max=3000"`
	// Not bound from the query string: the handler splits the raw comma lists first.
	DietaryRestrictions []string `form:"-" json:"dietaryRestrictions,omitempty" binding:"omitempty,dive,required,max=50"`
}

// Allows reports whether a menu satisfies the enforced parts of the filter.
// Dietary restrictions are only passed to the prompt.
func (f MenuFilter) Allows(menu RecommendedMenu) bool {
	if f.MaxCalories > 0 && menu.TotalCalories > f.MaxCalories {
		return false
	}
	if f.Difficulty != "" && menu.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// RegisterRequest represents the body of a registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest represents the body of a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RateMealRequest records how much a user liked a suggested meal
type RateMealRequest struct {
	MealName string `json:"mealName" binding:"required,max=255"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
}

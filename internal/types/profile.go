package types

// UserPreferences represents a user's dietary settings
type UserPreferences struct {
	DietaryRestrictions []string `json:"dietaryRestrictions" binding:"omitempty,dive,required,max=50"`
	Allergies           []string `json:"allergies" binding:"omitempty,dive,required,max=50"`
	PreferredCuisines   []string `json:"preferredCuisines" binding:"omitempty,dive,required,max=50"`
}

// MealRatingSummary is a prior rating surfaced to the prompt builder.
type MealRatingSummary struct {
	MealName string `json:"mealName"`
	Rating   int    `json:"rating"`
}

// UserContext is the narrow slice of a user's profile that menu prompts use.
type UserContext struct {
	DietaryPreferences []string
	Allergies          []string
	PreferredCuisines  []string
	RecentRatings      []MealRatingSummary
}

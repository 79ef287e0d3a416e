package types

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty is the effort level of a meal or menu.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of easy, medium or hard.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Rank orders difficulties from easiest to hardest. Unknown values rank 0.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 3
	}
	return 0
}

// MealSuggestion is a single meal with its macro breakdown.
type MealSuggestion struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Calories     float64    `json:"calories"`
	Protein      float64    `json:"protein"`
	Carbs        float64    `json:"carbs"`
	Fat          float64    `json:"fat"`
	Fiber        float64    `json:"fiber"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions,omitempty"`
	PrepTime     int        `json:"prepTime,omitempty"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
}

// MacroCalories returns the energy implied by the macro grams (4/4/9 kcal per gram).
func (m MealSuggestion) MacroCalories() float64 {
	return 4*m.Protein + 4*m.Carbs + 9*m.Fat
}

// DayMeals holds the fixed meal slots of a day.
type DayMeals struct {
	Breakfast MealSuggestion   `json:"breakfast"`
	Lunch     MealSuggestion   `json:"lunch"`
	Dinner    MealSuggestion   `json:"dinner"`
	Snacks    []MealSuggestion `json:"snacks,omitempty"`
}

// All returns every meal of the day, slots first and snacks after.
func (d DayMeals) All() []MealSuggestion {
	all := []MealSuggestion{d.Breakfast, d.Lunch, d.Dinner}
	return append(all, d.Snacks...)
}

// DailyMealPlan is one day of a multi-day plan.
type DailyMealPlan struct {
	Day           int      `json:"day"`
	Date          string   `json:"date"`
	Meals         DayMeals `json:"meals"`
	TotalCalories float64  `json:"totalCalories"`
}

// SumCalories adds up the calories of every meal in the day.
func (d DailyMealPlan) SumCalories() float64 {
	var total float64
	for _, m := range d.Meals.All() {
		total += m.Calories
	}
	return total
}

// ParsedPlan is the validated shape of a plan returned by the oracle.
type ParsedPlan struct {
	Meals []DailyMealPlan `json:"meals"`
	// Warnings lists soft inconsistencies, such as calories that disagree with macros.
	Warnings []string `json:"-"`
}

// ParsedMenus is the validated shape of menus returned by the oracle.
type ParsedMenus struct {
	Menus []RecommendedMenu `json:"menus"`
	// Warnings lists soft inconsistencies, such as calories that disagree with macros.
	Warnings []string `json:"-"`
}

// Plan sources.
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
)

// MealPlan is a persisted multi-day plan as returned to clients.
type MealPlan struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	TargetCalories float64         `json:"targetCalories"`
	Duration       int             `json:"duration"`
	DailyMeals     []DailyMealPlan `json:"dailyMeals"`
	Source         string          `json:"source"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// RecommendedMenu is a standalone set of meals without day structure.
type RecommendedMenu struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Meals         []MealSuggestion `json:"meals"`
	TotalCalories float64          `json:"totalCalories"`
	Tags          []string         `json:"tags"`
	Difficulty    Difficulty       `json:"difficulty"`
	PrepTime      int              `json:"prepTime"`
}

// SumCalories adds up the calories of the menu's meals.
func (m RecommendedMenu) SumCalories() float64 {
	var total float64
	for _, meal := range m.Meals {
		total += meal.Calories
	}
	return total
}

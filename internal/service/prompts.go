package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/pageza/nutriplan/backend/internal/types"
)

const (
	planTemperature = 0.7
	menuTemperature = 0.8

	dateLayout = "2006-01-02"
	noneValue  = "none"
)

// PlanSystemInstruction frames the oracle for multi-day plans.
const PlanSystemInstruction = `You are a registered dietitian who designs realistic multi-day meal plans.
Respond with a single JSON object and nothing else. Do not wrap it in markdown.
All energy values are kilocalories (kcal), all macro values are grams (g) and prepTime is minutes.
Calories of each meal must agree with its macros: 4 kcal per gram of protein and carbs, 9 kcal per gram of fat.`

// MenuSystemInstruction frames the oracle for standalone recommended menus.
const MenuSystemInstruction = `You are a registered dietitian who recommends complete daily menus.
Respond with a single JSON object and nothing else. Do not wrap it in markdown.
All energy values are kilocalories (kcal), all macro values are grams (g) and prepTime is minutes.
difficulty must be one of "easy", "medium" or "hard".`

const mealExample = `{
        "name": "Greek yogurt parfait",
        "description": "Yogurt layered with oats and berries",
        "calories": 332,
        "protein": 20,
        "carbs": 45,
        "fat": 8,
        "fiber": 6,
        "ingredients": ["200 g greek yogurt", "40 g rolled oats", "100 g mixed berries"],
        "instructions": ["Layer the yogurt, oats and berries in a glass"],
        "prepTime": 5,
        "difficulty": "easy"
      }`

// BuildPlanPrompt renders the user prompt for a plan of req.ResolvedDuration() days
// starting at startDate. The same inputs always produce the same prompt.
func BuildPlanPrompt(req types.GenerationRequest, startDate time.Time) string {
	duration := req.ResolvedDuration()
	end := startDate.AddDate(0, 0, duration-1)

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %d-day meal plan.\n", duration)
	fmt.Fprintf(&b, "Daily calorie target: %.0f kcal\n", req.TargetCalories)
	fmt.Fprintf(&b, "Start date: %s\n", startDate.Format(dateLayout))
	fmt.Fprintf(&b, "End date: %s\n", end.Format(dateLayout))
	fmt.Fprintf(&b, "Dietary restrictions: %s\n", listOrNone(req.DietaryRestrictions))
	fmt.Fprintf(&b, "Preferences: %s\n", listOrNone(req.Preferences))
	b.WriteString("\nRules:\n")
	fmt.Fprintf(&b, "- Return exactly %d days numbered 1 to %d, in order, with no gaps.\n", duration, duration)
	b.WriteString("- Day 1 is the start date; each following day is the next calendar date (YYYY-MM-DD).\n")
	b.WriteString("- Every day has breakfast, lunch and dinner. Snacks are optional.\n")
	b.WriteString("- Every meal lists at least one ingredient.\n")
	b.WriteString("- Each day's total should be close to the daily calorie target.\n")
	b.WriteString("\nReturn JSON in exactly this shape:\n")
	b.WriteString(planExample(startDate))
	return b.String()
}

// BuildMenuPrompt renders the user prompt for three recommended menus.
func BuildMenuPrompt(userCtx types.UserContext, filter types.MenuFilter, today time.Time) string {
	var b strings.Builder
	b.WriteString("Recommend 3 complete daily menus for this user.\n")
	fmt.Fprintf(&b, "Today: %s\n", today.Format(dateLayout))
	fmt.Fprintf(&b, "Dietary preferences: %s\n", listOrNone(userCtx.DietaryPreferences))
	fmt.Fprintf(&b, "Allergies (never use): %s\n", listOrNone(userCtx.Allergies))
	fmt.Fprintf(&b, "Preferred cuisines: %s\n", listOrNone(userCtx.PreferredCuisines))
	fmt.Fprintf(&b, "Recently rated meals: %s\n", ratingsOrNone(userCtx.RecentRatings))
	fmt.Fprintf(&b, "Required difficulty: %s\n", valueOrNone(string(filter.Difficulty)))
	if filter.MaxCalories > 0 {
		fmt.Fprintf(&b, "Maximum calories per menu: %.0f kcal\n", filter.MaxCalories)
	} else {
		fmt.Fprintf(&b, "Maximum calories per menu: %s\n", noneValue)
	}
	fmt.Fprintf(&b, "Dietary restrictions: %s\n", listOrNone(filter.DietaryRestrictions))
	b.WriteString("\nRules:\n")
	b.WriteString("- Each menu has a short name, a description, tags and at least one meal.\n")
	b.WriteString("- Favour meals similar to highly rated ones and avoid poorly rated ones.\n")
	b.WriteString("\nReturn JSON in exactly this shape:\n")
	b.WriteString(menuExample)
	return b.String()
}

func planExample(start time.Time) string {
	return fmt.Sprintf(`{
  "meals": [
    {
      "day": 1,
      "date": "%s",
      "meals": {
        "breakfast": %s,
        "lunch": { "name": "...", "description": "...", "calories": 0, "protein": 0, "carbs": 0, "fat": 0, "fiber": 0, "ingredients": ["..."], "prepTime": 0, "difficulty": "easy" },
        "dinner": { "name": "...", "description": "...", "calories": 0, "protein": 0, "carbs": 0, "fat": 0, "fiber": 0, "ingredients": ["..."], "prepTime": 0, "difficulty": "medium" },
        "snacks": [ { "name": "...", "description": "...", "calories": 0, "protein": 0, "carbs": 0, "fat": 0, "fiber": 0, "ingredients": ["..."] } ]
      },
      "totalCalories": 0
    }
  ]
}`, start.Format(dateLayout), mealExample)
}

var menuExample = fmt.Sprintf(`{
  "menus": [
    {
      "id": "menu-1",
      "name": "Mediterranean day",
      "description": "Light, vegetable-forward meals",
      "meals": [
      %s
      ],
      "totalCalories": 332,
      "tags": ["vegetarian", "quick"],
      "difficulty": "easy",
      "prepTime": 5
    }
  ]
}`, mealExample)

func listOrNone(items []string) string {
	var kept []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		return noneValue
	}
	return strings.Join(kept, ", ")
}

func valueOrNone(v string) string {
	if strings.TrimSpace(v) == "" {
		return noneValue
	}
	return v
}

func ratingsOrNone(ratings []types.MealRatingSummary) string {
	if len(ratings) == 0 {
		return noneValue
	}
	parts := make([]string, 0, len(ratings))
	for _, r := range ratings {
		parts = append(parts, fmt.Sprintf("%s (%d/5)", r.MealName, r.Rating))
	}
	return strings.Join(parts, "; ")
}

package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pageza/nutriplan/backend/internal/types"
)

// calorieTolerance is the absolute floor for the calories-vs-macros warning.
const calorieTolerance = 100.0

type wireMeal struct {
	Name         *string  `json:"name"`
	Description  string   `json:"description"`
	Calories     *float64 `json:"calories"`
	Protein      *float64 `json:"protein"`
	Carbs        *float64 `json:"carbs"`
	Fat          *float64 `json:"fat"`
	Fiber        *float64 `json:"fiber"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     *int     `json:"prepTime"`
	Difficulty   string   `json:"difficulty"`
}

type wireDayMeals struct {
	Breakfast *wireMeal  `json:"breakfast"`
	Lunch     *wireMeal  `json:"lunch"`
	Dinner    *wireMeal  `json:"dinner"`
	Snacks    []wireMeal `json:"snacks"`
}

type wireDay struct {
	Day   *int          `json:"day"`
	Date  string        `json:"date"`
	Meals *wireDayMeals `json:"meals"`
	// Ignored: totals are always recomputed.
	TotalCalories json.RawMessage `json:"totalCalories"`
}

type wirePlan struct {
	Meals *[]wireDay `json:"meals"`
}

type wireMenu struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Meals       []wireMeal `json:"meals"`
	// Ignored: totals are always recomputed.
	TotalCalories json.RawMessage `json:"totalCalories"`
	Tags          []string        `json:"tags"`
	Difficulty    string          `json:"difficulty"`
	PrepTime      *int            `json:"prepTime"`
}

type wireMenus struct {
	Menus *[]wireMenu `json:"menus"`
}

// ParsePlanResponse validates raw oracle output as a plan of exactly duration days.
// Days come back sorted by index with recomputed totals. Every failure wraps ErrParse.
func ParsePlanResponse(raw string, duration int) (*types.ParsedPlan, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var plan wirePlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, parseErrorf("malformed plan JSON: %v", err)
	}
	if plan.Meals == nil {
		return nil, parseErrorf("missing meals")
	}
	if len(*plan.Meals) != duration {
		return nil, parseErrorf("expected %d days, got %d", duration, len(*plan.Meals))
	}

	result := &types.ParsedPlan{Meals: make([]types.DailyMealPlan, 0, duration)}
	seen := make(map[int]bool, duration)
	for i, wd := range *plan.Meals {
		if wd.Day == nil {
			return nil, parseErrorf("entry %d: missing day", i)
		}
		day := *wd.Day
		if day < 1 || day > duration {
			return nil, parseErrorf("day %d outside 1..%d", day, duration)
		}
		if seen[day] {
			return nil, parseErrorf("day %d appears more than once", day)
		}
		seen[day] = true

		if wd.Meals == nil {
			return nil, parseErrorf("day %d: missing meals", day)
		}
		meals, warnings, err := convertDayMeals(day, wd.Meals)
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, warnings...)

		dp := types.DailyMealPlan{Day: day, Meals: meals}
		if _, err := time.Parse(dateLayout, strings.TrimSpace(wd.Date)); err == nil {
			dp.Date = strings.TrimSpace(wd.Date)
		}
		dp.TotalCalories = dp.SumCalories()
		result.Meals = append(result.Meals, dp)
	}

	sort.Slice(result.Meals, func(i, j int) bool {
		return result.Meals[i].Day < result.Meals[j].Day
	})
	return result, nil
}

// ParseMenuResponse validates raw oracle output as a non-empty list of menus.
// Totals are recomputed; a missing difficulty or prep time is derived from the meals.
func ParseMenuResponse(raw string) (*types.ParsedMenus, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var resp wireMenus
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, parseErrorf("malformed menu JSON: %v", err)
	}
	if resp.Menus == nil {
		return nil, parseErrorf("missing menus")
	}
	if len(*resp.Menus) == 0 {
		return nil, parseErrorf("no menus returned")
	}

	result := &types.ParsedMenus{Menus: make([]types.RecommendedMenu, 0, len(*resp.Menus))}
	for i, wm := range *resp.Menus {
		label := fmt.Sprintf("menu %d", i+1)
		if len(wm.Meals) == 0 {
			return nil, parseErrorf("%s: no meals", label)
		}
		if strings.TrimSpace(wm.Name) == "" {
			return nil, parseErrorf("%s: missing name", label)
		}

		menu := types.RecommendedMenu{
			ID:          strings.TrimSpace(wm.ID),
			Name:        strings.TrimSpace(wm.Name),
			Description: wm.Description,
			Tags:        wm.Tags,
			Meals:       make([]types.MealSuggestion, 0, len(wm.Meals)),
		}
		if menu.Tags == nil {
			menu.Tags = []string{}
		}

		var prepSum int
		var hardest types.Difficulty
		for j := range wm.Meals {
			meal, warn, err := convertMeal(fmt.Sprintf("%s meal %d", label, j+1), &wm.Meals[j])
			if err != nil {
				return nil, err
			}
			if warn != "" {
				result.Warnings = append(result.Warnings, warn)
			}
			prepSum += meal.PrepTime
			if meal.Difficulty.Rank() > hardest.Rank() {
				hardest = meal.Difficulty
			}
			menu.Meals = append(menu.Meals, meal)
		}

		switch {
		case wm.Difficulty != "":
			d, err := parseDifficulty(label, wm.Difficulty)
			if err != nil {
				return nil, err
			}
			menu.Difficulty = d
		case hardest != "":
			menu.Difficulty = hardest
		default:
			menu.Difficulty = types.DifficultyMedium
		}

		if wm.PrepTime != nil {
			if *wm.PrepTime < 0 {
				return nil, parseErrorf("%s: negative prepTime", label)
			}
			menu.PrepTime = *wm.PrepTime
		} else {
			menu.PrepTime = prepSum
		}

		menu.TotalCalories = menu.SumCalories()
		result.Menus = append(result.Menus, menu)
	}
	return result, nil
}

// extractJSON strips a markdown fence and any prose around the outermost object.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", parseErrorf("no JSON object in response")
	}
	return s[start : end+1], nil
}

func convertDayMeals(day int, wm *wireDayMeals) (types.DayMeals, []string, error) {
	var out types.DayMeals
	var warnings []string

	slots := []struct {
		name string
		src  *wireMeal
		dst  *types.MealSuggestion
	}{
		{"breakfast", wm.Breakfast, &out.Breakfast},
		{"lunch", wm.Lunch, &out.Lunch},
		{"dinner", wm.Dinner, &out.Dinner},
	}
	for _, slot := range slots {
		label := fmt.Sprintf("day %d %s", day, slot.name)
		if slot.src == nil {
			return types.DayMeals{}, nil, parseErrorf("%s: missing", label)
		}
		meal, warn, err := convertMeal(label, slot.src)
		if err != nil {
			return types.DayMeals{}, nil, err
		}
		*slot.dst = meal
		if warn != "" {
			warnings = append(warnings, warn)
		}
	}

	for i := range wm.Snacks {
		meal, warn, err := convertMeal(fmt.Sprintf("day %d snack %d", day, i+1), &wm.Snacks[i])
		if err != nil {
			return types.DayMeals{}, nil, err
		}
		out.Snacks = append(out.Snacks, meal)
		if warn != "" {
			warnings = append(warnings, warn)
		}
	}
	return out, warnings, nil
}

// convertMeal validates one meal. The returned warning is empty unless calories
// disagree with the macros by more than max(100 kcal, 25%).
func convertMeal(label string, wm *wireMeal) (types.MealSuggestion, string, error) {
	if wm.Name == nil || strings.TrimSpace(*wm.Name) == "" {
		return types.MealSuggestion{}, "", parseErrorf("%s: missing name", label)
	}

	required := []struct {
		field string
		value *float64
	}{
		{"calories", wm.Calories},
		{"protein", wm.Protein},
		{"carbs", wm.Carbs},
		{"fat", wm.Fat},
	}
	for _, r := range required {
		if r.value == nil {
			return types.MealSuggestion{}, "", parseErrorf("%s: missing %s", label, r.field)
		}
		if *r.value < 0 || math.IsNaN(*r.value) {
			return types.MealSuggestion{}, "", parseErrorf("%s: negative %s", label, r.field)
		}
	}

	meal := types.MealSuggestion{
		Name:         strings.TrimSpace(*wm.Name),
		Description:  wm.Description,
		Calories:     *wm.Calories,
		Protein:      *wm.Protein,
		Carbs:        *wm.Carbs,
		Fat:          *wm.Fat,
		Instructions: wm.Instructions,
	}

	if wm.Fiber != nil {
		if *wm.Fiber < 0 {
			return types.MealSuggestion{}, "", parseErrorf("%s: negative fiber", label)
		}
		meal.Fiber = *wm.Fiber
	}

	for _, ing := range wm.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			meal.Ingredients = append(meal.Ingredients, ing)
		}
	}
	if len(meal.Ingredients) == 0 {
		return types.MealSuggestion{}, "", parseErrorf("%s: no ingredients", label)
	}

	if wm.PrepTime != nil {
		if *wm.PrepTime < 0 {
			return types.MealSuggestion{}, "", parseErrorf("%s: negative prepTime", label)
		}
		meal.PrepTime = *wm.PrepTime
	}

	if wm.Difficulty != "" {
		d, err := parseDifficulty(label, wm.Difficulty)
		if err != nil {
			return types.MealSuggestion{}, "", err
		}
		meal.Difficulty = d
	}

	var warning string
	implied := meal.MacroCalories()
	if diff := math.Abs(meal.Calories - implied); diff > math.Max(calorieTolerance, 0.25*implied) {
		warning = fmt.Sprintf("%s: %.0f kcal stated but macros imply %.0f kcal", label, meal.Calories, implied)
	}
	return meal, warning, nil
}

func parseDifficulty(label, raw string) (types.Difficulty, error) {
	d := types.Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", parseErrorf("%s: invalid difficulty %q", label, raw)
	}
	return d, nil
}

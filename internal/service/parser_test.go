package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutriplan/backend/internal/types"
)

func TestParsePlanResponse(t *testing.T) {
	t.Run("valid three day plan", func(t *testing.T) {
		plan, err := ParsePlanResponse(planJSON(1, 2, 3), 3)
		require.NoError(t, err)
		require.Len(t, plan.Meals, 3)
		for i, day := range plan.Meals {
			assert.Equal(t, i+1, day.Day)
			assert.Equal(t, day.SumCalories(), day.TotalCalories)
			assert.NotEqual(t, float64(1), day.TotalCalories)
		}
		assert.Equal(t, "2026-01-01", plan.Meals[0].Date)
		assert.Empty(t, plan.Warnings)
	})

	t.Run("days are sorted", func(t *testing.T) {
		plan, err := ParsePlanResponse(planJSON(3, 1, 2), 3)
		require.NoError(t, err)
		assert.Equal(t, 1, plan.Meals[0].Day)
		assert.Equal(t, 2, plan.Meals[1].Day)
		assert.Equal(t, 3, plan.Meals[2].Day)
	})

	t.Run("markdown fence and prose are stripped", func(t *testing.T) {
		raw := "Here is your plan:\n```json\n" + planJSON(1) + "\n```\nEnjoy!"
		plan, err := ParsePlanResponse(raw, 1)
		require.NoError(t, err)
		assert.Len(t, plan.Meals, 1)
	})

	t.Run("invalid date is dropped", func(t *testing.T) {
		raw := strings.Replace(planJSON(1), `"2026-01-01"`, `"tomorrow"`, 1)
		plan, err := ParsePlanResponse(raw, 1)
		require.NoError(t, err)
		assert.Empty(t, plan.Meals[0].Date)
	})

	t.Run("calorie mismatch is a warning", func(t *testing.T) {
		raw := strings.Replace(planJSON(1), mealJSON("Lunch 1", 30, 60, 15), `{"name":"Lunch 1","calories":1500,"protein":30,"carbs":60,"fat":15,"ingredients":["rice"]}`, 1)
		plan, err := ParsePlanResponse(raw, 1)
		require.NoError(t, err)
		require.Len(t, plan.Warnings, 1)
		assert.Contains(t, plan.Warnings[0], "day 1 lunch")
	})

	t.Run("fiber is optional", func(t *testing.T) {
		raw := strings.Replace(planJSON(1), `"fiber":3,`, ``, -1)
		plan, err := ParsePlanResponse(raw, 1)
		require.NoError(t, err)
		assert.Zero(t, plan.Meals[0].Meals.Breakfast.Fiber)
	})

	t.Run("difficulty is normalised", func(t *testing.T) {
		raw := strings.Replace(planJSON(1), `"difficulty":"easy"`, `"difficulty":"Easy"`, 1)
		plan, err := ParsePlanResponse(raw, 1)
		require.NoError(t, err)
		assert.Equal(t, types.DifficultyEasy, plan.Meals[0].Meals.Breakfast.Difficulty)
	})

	failures := []struct {
		name     string
		raw      string
		duration int
	}{
		{"not json", "I cannot help with that", 1},
		{"truncated json", `{"meals":[` + dayJSON(1), 1},
		{"missing meals key", `{"days":[]}`, 1},
		{"too few days", planJSON(1, 2), 3},
		{"too many days", planJSON(1, 2, 3), 2},
		{"duplicate day", planJSON(1, 1), 2},
		{"day out of range", planJSON(1, 3), 2},
		{"day zero", planJSON(0), 1},
		{"missing lunch", strings.Replace(planJSON(1), `"lunch":`+mealJSON("Lunch 1", 30, 60, 15)+`,`, ``, 1), 1},
		{"negative protein", strings.Replace(planJSON(1), `"protein":20`, `"protein":-20`, 1), 1},
		{"non-numeric calories", strings.Replace(planJSON(1), `"protein":20`, `"protein":"twenty"`, 1), 1},
		{"missing fat", strings.Replace(planJSON(1), `"fat":10,`, ``, 1), 1},
		{"empty ingredients", strings.Replace(planJSON(1), `"ingredients":["ingredient"]`, `"ingredients":[]`, 1), 1},
		{"blank ingredients", strings.Replace(planJSON(1), `"ingredients":["ingredient"]`, `"ingredients":["  "]`, 1), 1},
		{"invalid difficulty", strings.Replace(planJSON(1), `"difficulty":"easy"`, `"difficulty":"extreme"`, 1), 1},
		{"negative prep time", strings.Replace(planJSON(1), `"prepTime":10`, `"prepTime":-5`, 1), 1},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := ParsePlanResponse(tc.raw, tc.duration)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParseMenuResponse(t *testing.T) {
	light := mealJSON("Salad", 10, 20, 5)
	heavy := mealJSON("Burger", 40, 80, 40)

	t.Run("valid menus", func(t *testing.T) {
		raw := menusJSON(
			menuJSON("a", "Light", "easy", light),
			menuJSON("b", "Heavy", "hard", light, heavy),
		)
		parsed, err := ParseMenuResponse(raw)
		require.NoError(t, err)
		menus := parsed.Menus
		require.Len(t, menus, 2)
		assert.Empty(t, parsed.Warnings)

		assert.Equal(t, "a", menus[0].ID)
		assert.Equal(t, float64(165), menus[0].TotalCalories)
		assert.Equal(t, types.DifficultyEasy, menus[0].Difficulty)
		assert.Equal(t, 10, menus[0].PrepTime)
		assert.Equal(t, []string{"test"}, menus[0].Tags)

		assert.Equal(t, menus[1].SumCalories(), menus[1].TotalCalories)
		assert.Equal(t, 20, menus[1].PrepTime)
	})

	t.Run("difficulty derived from hardest meal", func(t *testing.T) {
		hard := strings.Replace(heavy, `"difficulty":"easy"`, `"difficulty":"hard"`, 1)
		parsed, err := ParseMenuResponse(menusJSON(menuJSON("", "Mixed", "", light, hard)))
		require.NoError(t, err)
		assert.Equal(t, types.DifficultyHard, parsed.Menus[0].Difficulty)
		assert.Empty(t, parsed.Menus[0].ID)
	})

	t.Run("calorie mismatch is a warning", func(t *testing.T) {
		off := `{"name":"Burger","calories":200,"protein":40,"carbs":80,"fat":40,"ingredients":["bun"]}`
		parsed, err := ParseMenuResponse(menusJSON(menuJSON("a", "Off", "easy", light, off)))
		require.NoError(t, err)
		require.Len(t, parsed.Menus, 1)
		require.Len(t, parsed.Warnings, 1)
		assert.Contains(t, parsed.Warnings[0], "menu 1 meal 2")
	})

	failures := []struct {
		name string
		raw  string
	}{
		{"not json", "no menus today"},
		{"missing menus key", `{"meals":[]}`},
		{"empty menus", `{"menus":[]}`},
		{"menu without meals", menusJSON(menuJSON("a", "Empty", "easy"))},
		{"menu without name", menusJSON(menuJSON("a", "", "easy", light))},
		{"invalid difficulty", menusJSON(menuJSON("a", "Odd", "impossible", light))},
		{"invalid meal", menusJSON(menuJSON("a", "Bad", "easy", strings.Replace(light, `"protein":10`, `"protein":-1`, 1)))},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseMenuResponse(tc.raw)
			assert.Nil(t, parsed)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

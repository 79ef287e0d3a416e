package service

import (
	"fmt"
	"strings"

	"github.com/stretchr/testify/mock"
)

func mealJSON(name string, protein, carbs, fat float64) string {
	calories := 4*protein + 4*carbs + 9*fat
	return fmt.Sprintf(`{"name":%q,"description":"test meal","calories":%g,"protein":%g,"carbs":%g,"fat":%g,"fiber":3,"ingredients":["ingredient"],"prepTime":10,"difficulty":"easy"}`,
		name, calories, protein, carbs, fat)
}

func dayJSON(day int) string {
	return fmt.Sprintf(`{"day":%d,"date":"2026-01-%02d","meals":{"breakfast":%s,"lunch":%s,"dinner":%s,"snacks":[%s]},"totalCalories":1}`,
		day, day,
		mealJSON(fmt.Sprintf("Breakfast %d", day), 20, 40, 10),
		mealJSON(fmt.Sprintf("Lunch %d", day), 30, 60, 15),
		mealJSON(fmt.Sprintf("Dinner %d", day), 35, 70, 20),
		mealJSON(fmt.Sprintf("Snack %d", day), 5, 20, 5))
}

func planJSON(days ...int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, dayJSON(d))
	}
	return `{"meals":[` + strings.Join(parts, ",") + `]}`
}

func menuJSON(id, name string, difficulty string, meals ...string) string {
	diff := ""
	if difficulty != "" {
		diff = fmt.Sprintf(`,"difficulty":%q`, difficulty)
	}
	return fmt.Sprintf(`{"id":%q,"name":%q,"description":"test menu","meals":[%s],"totalCalories":5,"tags":["test"]%s}`,
		id, name, strings.Join(meals, ","), diff)
}

func menusJSON(menus ...string) string {
	return `{"menus":[` + strings.Join(menus, ",") + `]}`
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

var testAnyString = mock.AnythingOfType("string")

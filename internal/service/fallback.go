package service

import (
	"time"

	"github.com/pageza/nutriplan/backend/internal/types"
)

// The fallback catalog is a fixed vegetarian rotation whose calories match
// their macros exactly. Every accessor builds fresh values so callers may mutate them.

func greekYogurtParfait() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Greek Yogurt Parfait",
		Description:  "Greek yogurt layered with rolled oats, berries and honey",
		Calories:     332,
		Protein:      20,
		Carbs:        45,
		Fat:          8,
		Fiber:        6,
		Ingredients:  []string{"200 g greek yogurt", "40 g rolled oats", "100 g mixed berries", "1 tsp honey"},
		Instructions: []string{"Layer yogurt, oats and berries in a glass", "Drizzle with honey"},
		PrepTime:     5,
		Difficulty:   types.DifficultyEasy,
	}
}

func quinoaChickpeaSalad() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Quinoa Chickpea Salad",
		Description:  "Quinoa with chickpeas, cucumber, tomato and lemon dressing",
		Calories:     438,
		Protein:      18,
		Carbs:        60,
		Fat:          14,
		Fiber:        11,
		Ingredients:  []string{"80 g quinoa", "120 g cooked chickpeas", "1 cucumber", "8 cherry tomatoes", "1 tbsp olive oil", "1/2 lemon"},
		Instructions: []string{"Cook the quinoa and let it cool", "Chop the vegetables", "Toss everything with olive oil and lemon juice"},
		PrepTime:     20,
		Difficulty:   types.DifficultyEasy,
	}
}

func lentilCurry() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Lentil Vegetable Curry with Brown Rice",
		Description:  "Red lentils simmered with spinach and tomatoes, served over brown rice",
		Calories:     504,
		Protein:      24,
		Carbs:        75,
		Fat:          12,
		Fiber:        16,
		Ingredients:  []string{"80 g red lentils", "60 g brown rice", "1 onion", "200 g chopped tomatoes", "50 g spinach", "1 tbsp curry paste", "1 tbsp coconut oil"},
		Instructions: []string{"Cook the rice", "Soften the onion in oil with the curry paste", "Add lentils, tomatoes and water and simmer 20 minutes", "Stir in spinach and serve over rice"},
		PrepTime:     40,
		Difficulty:   types.DifficultyMedium,
	}
}

func appleAlmondButter() types.MealSuggestion {
	return types.MealSuggestion{
		Name:        "Apple with Almond Butter",
		Description: "Sliced apple with a spoon of almond butter",
		Calories:    197,
		Protein:     4,
		Carbs:       25,
		Fat:         9,
		Fiber:       5,
		Ingredients: []string{"1 apple", "1 tbsp almond butter"},
		PrepTime:    3,
		Difficulty:  types.DifficultyEasy,
	}
}

func berryWalnutOatmeal() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Oatmeal with Berries and Walnuts",
		Description:  "Warm oats cooked in milk and topped with berries and walnuts",
		Calories:     364,
		Protein:      10,
		Carbs:        54,
		Fat:          12,
		Fiber:        8,
		Ingredients:  []string{"50 g rolled oats", "200 ml skim milk", "80 g blueberries", "15 g walnuts"},
		Instructions: []string{"Simmer oats in milk for 5 minutes", "Top with berries and chopped walnuts"},
		PrepTime:     10,
		Difficulty:   types.DifficultyEasy,
	}
}

func blackBeanBowl() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Black Bean Burrito Bowl",
		Description:  "Black beans, brown rice, corn, salsa and avocado",
		Calories:     481,
		Protein:      21,
		Carbs:        70,
		Fat:          13,
		Fiber:        15,
		Ingredients:  []string{"150 g cooked black beans", "60 g brown rice", "60 g corn", "3 tbsp salsa", "1/4 avocado"},
		Instructions: []string{"Cook the rice", "Warm beans and corn", "Assemble with salsa and sliced avocado"},
		PrepTime:     20,
		Difficulty:   types.DifficultyEasy,
	}
}

func tofuStirFry() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Tofu Vegetable Stir-Fry",
		Description:  "Crispy tofu with broccoli, peppers and soba noodles",
		Calories:     440,
		Protein:      26,
		Carbs:        48,
		Fat:          16,
		Fiber:        7,
		Ingredients:  []string{"150 g firm tofu", "60 g soba noodles", "100 g broccoli", "1 bell pepper", "1 tbsp soy sauce", "1 tbsp sesame oil"},
		Instructions: []string{"Press and cube the tofu", "Fry tofu in sesame oil until golden", "Add vegetables and stir-fry 5 minutes", "Toss with cooked noodles and soy sauce"},
		PrepTime:     25,
		Difficulty:   types.DifficultyMedium,
	}
}

func hummusCarrots() types.MealSuggestion {
	return types.MealSuggestion{
		Name:        "Hummus with Carrot Sticks",
		Description: "Classic hummus with crunchy carrots",
		Calories:    168,
		Protein:     6,
		Carbs:       18,
		Fat:         8,
		Fiber:       6,
		Ingredients: []string{"60 g hummus", "2 carrots"},
		PrepTime:    5,
		Difficulty:  types.DifficultyEasy,
	}
}

func spinachFetaOmelette() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Spinach Feta Omelette with Toast",
		Description:  "Three-egg omelette with spinach and feta on whole-wheat toast",
		Calories:     370,
		Protein:      24,
		Carbs:        28,
		Fat:          18,
		Fiber:        4,
		Ingredients:  []string{"3 eggs", "30 g feta", "40 g spinach", "1 slice whole-wheat bread"},
		Instructions: []string{"Whisk the eggs", "Wilt spinach in a pan and add eggs", "Add feta, fold and serve with toast"},
		PrepTime:     15,
		Difficulty:   types.DifficultyEasy,
	}
}

func capreseSandwich() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Caprese Whole-Wheat Sandwich",
		Description:  "Fresh mozzarella, tomato and basil on whole-wheat bread",
		Calories:     449,
		Protein:      22,
		Carbs:        52,
		Fat:          17,
		Fiber:        7,
		Ingredients:  []string{"2 slices whole-wheat bread", "60 g fresh mozzarella", "1 tomato", "fresh basil", "1 tsp balsamic glaze"},
		Instructions: []string{"Slice tomato and mozzarella", "Layer on bread with basil and balsamic"},
		PrepTime:     10,
		Difficulty:   types.DifficultyEasy,
	}
}

func pastaPrimavera() types.MealSuggestion {
	return types.MealSuggestion{
		Name:         "Whole-Wheat Pasta Primavera",
		Description:  "Whole-wheat penne with seasonal vegetables and parmesan",
		Calories:     518,
		Protein:      20,
		Carbs:        78,
		Fat:          14,
		Fiber:        10,
		Ingredients:  []string{"90 g whole-wheat penne", "1 zucchini", "80 g peas", "8 cherry tomatoes", "15 g parmesan", "1 tbsp olive oil"},
		Instructions: []string{"Cook the pasta", "Saute vegetables in olive oil", "Toss with pasta and top with parmesan"},
		PrepTime:     30,
		Difficulty:   types.DifficultyMedium,
	}
}

func cottageCheesePineapple() types.MealSuggestion {
	return types.MealSuggestion{
		Name:        "Cottage Cheese with Pineapple",
		Description: "Low-fat cottage cheese topped with pineapple chunks",
		Calories:    138,
		Protein:     14,
		Carbs:       16,
		Fat:         2,
		Fiber:       1,
		Ingredients: []string{"120 g low-fat cottage cheese", "80 g pineapple"},
		PrepTime:    3,
		Difficulty:  types.DifficultyEasy,
	}
}

func fallbackDays() []types.DayMeals {
	return []types.DayMeals{
		{
			Breakfast: greekYogurtParfait(),
			Lunch:     quinoaChickpeaSalad(),
			Dinner:    lentilCurry(),
			Snacks:    []types.MealSuggestion{appleAlmondButter()},
		},
		{
			Breakfast: berryWalnutOatmeal(),
			Lunch:     blackBeanBowl(),
			Dinner:    tofuStirFry(),
			Snacks:    []types.MealSuggestion{hummusCarrots()},
		},
		{
			Breakfast: spinachFetaOmelette(),
			Lunch:     capreseSandwich(),
			Dinner:    pastaPrimavera(),
			Snacks:    []types.MealSuggestion{cottageCheesePineapple()},
		},
	}
}

// FallbackPlan returns the three catalog days, numbered 1 to 3 and undated.
func FallbackPlan() []types.DailyMealPlan {
	days := fallbackDays()
	plan := make([]types.DailyMealPlan, 0, len(days))
	for i, meals := range days {
		d := types.DailyMealPlan{Day: i + 1, Meals: meals}
		d.TotalCalories = d.SumCalories()
		plan = append(plan, d)
	}
	return plan
}

// FallbackPlanFor cycles the catalog over duration days dated from start.
func FallbackPlanFor(duration int, start time.Time) []types.DailyMealPlan {
	if duration < 1 {
		return nil
	}
	catalog := len(fallbackDays())
	plan := make([]types.DailyMealPlan, 0, duration)
	for day := 1; day <= duration; day++ {
		// Rebuilt per day so repeated catalog entries do not share slices.
		d := types.DailyMealPlan{
			Day:   day,
			Date:  start.AddDate(0, 0, day-1).Format(dateLayout),
			Meals: fallbackDays()[(day-1)%catalog],
		}
		d.TotalCalories = d.SumCalories()
		plan = append(plan, d)
	}
	return plan
}

// FallbackMenus returns the three catalog menus.
func FallbackMenus() []types.RecommendedMenu {
	menus := []types.RecommendedMenu{
		{
			ID:          "fallback-menu-1",
			Name:        "Mediterranean Vegetarian Day",
			Description: "Light, fresh meals built around yogurt, grains and legumes",
			Meals:       []types.MealSuggestion{greekYogurtParfait(), quinoaChickpeaSalad(), hummusCarrots()},
			Tags:        []string{"vegetarian", "mediterranean", "quick"},
			Difficulty:  types.DifficultyEasy,
		},
		{
			ID:          "fallback-menu-2",
			Name:        "High-Protein Plant Power",
			Description: "Filling plant-based meals with beans, tofu and oats",
			Meals:       []types.MealSuggestion{berryWalnutOatmeal(), blackBeanBowl(), tofuStirFry()},
			Tags:        []string{"vegetarian", "high-protein", "high-fiber"},
			Difficulty:  types.DifficultyMedium,
		},
		{
			ID:          "fallback-menu-3",
			Name:        "Comfort Classics",
			Description: "Familiar vegetarian favourites with eggs, pasta and cheese",
			Meals:       []types.MealSuggestion{spinachFetaOmelette(), pastaPrimavera(), cottageCheesePineapple()},
			Tags:        []string{"vegetarian", "comfort"},
			Difficulty:  types.DifficultyMedium,
		},
	}
	for i := range menus {
		menus[i].TotalCalories = menus[i].SumCalories()
		for _, m := range menus[i].Meals {
			menus[i].PrepTime += m.PrepTime
		}
	}
	return menus
}

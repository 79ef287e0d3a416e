package main

import (
	"context"
	"errors"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/database"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const demoPassword = "testpassword123"

type demoUser struct {
	name    string
	email   string
	prefs   types.UserPreferences
	ratings []types.RateMealRequest
}

var demoUsers = []demoUser{
	{
		name:  "John Doe",
		email: "john.doe@example.com",
		prefs: types.UserPreferences{
			DietaryRestrictions: []string{"vegetarian"},
			Allergies:           []string{"peanuts"},
			PreferredCuisines:   []string{"mediterranean", "indian"},
		},
		ratings: []types.RateMealRequest{
			{MealName: "Greek Yogurt Parfait", Rating: 5},
			{MealName: "Vegetable Stir Fry", Rating: 4},
		},
	},
	{
		name:  "Jane Smith",
		email: "jane.smith@example.com",
		prefs: types.UserPreferences{
			DietaryRestrictions: []string{"gluten-free"},
			PreferredCuisines:   []string{"mexican"},
		},
		ratings: []types.RateMealRequest{
			{MealName: "Grilled Salmon with Quinoa", Rating: 5},
		},
	},
	{
		name:  "Bob Wilson",
		email: "bob.wilson@example.com",
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := zap.NewNop()
	db, err := database.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	auth := service.NewAuthService(db, cfg.JWTSecret, service.NewRedisMenuCache(nil, cfg.MenuCacheTTL, logger), logger)
	prefs := service.NewPreferenceService(db)
	ctx := context.Background()

	log.Println("Creating demo users...")

	for _, u := range demoUsers {
		user, _, err := auth.Register(ctx, types.RegisterRequest{Name: u.name, Email: u.email, Password: demoPassword})
		if errors.Is(err, service.ErrUserExists) {
			log.Printf("User %s already exists, skipping...", u.email)
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.email, err)
		}

		if _, err := prefs.Update(ctx, user.ID, u.prefs); err != nil {
			log.Fatalf("Failed to set preferences for %s: %v", u.email, err)
		}
		for _, r := range u.ratings {
			if err := prefs.RateMeal(ctx, user.ID, r); err != nil {
				log.Fatalf("Failed to rate meal for %s: %v", u.email, err)
			}
		}
		log.Printf("Created user %s (%s)", u.email, user.ID)
	}

	log.Printf("Done. All demo users share the password %q", demoPassword)
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// recentRatingLimit caps how many ratings are surfaced to menu prompts.
const recentRatingLimit = 10

// UserContextProvider supplies the profile slice used by menu prompts
type UserContextProvider interface {
	UserContext(ctx context.Context, userID uuid.UUID) (types.UserContext, error)
}

// PreferenceService manages dietary preferences and meal ratings
type PreferenceService struct {
	db *gorm.DB
}

func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// Get returns the user's preferences; a user without a row has empty preferences.
func (s *PreferenceService) Get(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error) {
	var pref models.UserPreference
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &types.UserPreferences{
			DietaryRestrictions: []string{},
			Allergies:           []string{},
			PreferredCuisines:   []string{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return toPreferences(&pref), nil
}

// Update replaces the user's preferences, creating the row if needed.
// The write is a single upsert keyed on user_id, so concurrent first updates cannot collide.
func (s *PreferenceService) Update(ctx context.Context, userID uuid.UUID, prefs types.UserPreferences) (*types.UserPreferences, error) {
	if err := Validate(prefs); err != nil {
		return nil, err
	}

	pref := models.UserPreference{
		UserID:              userID,
		DietaryRestrictions: nonNil(prefs.DietaryRestrictions),
		Allergies:           nonNil(prefs.Allergies),
		PreferredCuisines:   nonNil(prefs.PreferredCuisines),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"dietary_restrictions", "allergies", "preferred_cuisines", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return nil, err
	}
	return toPreferences(&pref), nil
}

// RateMeal records a rating for a meal the user was shown
func (s *PreferenceService) RateMeal(ctx context.Context, userID uuid.UUID, req types.RateMealRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	rating := models.MealRating{
		UserID:   userID,
		MealName: req.MealName,
		Rating:   req.Rating,
	}
	return s.db.WithContext(ctx).Create(&rating).Error
}

// UserContext assembles preferences and the most recent ratings
func (s *PreferenceService) UserContext(ctx context.Context, userID uuid.UUID) (types.UserContext, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return types.UserContext{}, err
	}

	var ratings []models.MealRating
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(recentRatingLimit).
		Find(&ratings).Error; err != nil {
		return types.UserContext{}, err
	}

	uc := types.UserContext{
		DietaryPreferences: prefs.DietaryRestrictions,
		Allergies:          prefs.Allergies,
		PreferredCuisines:  prefs.PreferredCuisines,
	}
	for _, r := range ratings {
		uc.RecentRatings = append(uc.RecentRatings, types.MealRatingSummary{MealName: r.MealName, Rating: r.Rating})
	}
	return uc, nil
}

func toPreferences(p *models.UserPreference) *types.UserPreferences {
	return &types.UserPreferences{
		DietaryRestrictions: nonNil(p.DietaryRestrictions),
		Allergies:           nonNil(p.Allergies),
		PreferredCuisines:   nonNil(p.PreferredCuisines),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

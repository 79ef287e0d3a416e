package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

func TestPreferenceService(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewPreferenceService(db)
	user := testhelpers.CreateTestUser(t, db, "prefs@example.com")

	t.Run("empty by default", func(t *testing.T) {
		prefs, err := svc.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, prefs.DietaryRestrictions)
		assert.NotNil(t, prefs.Allergies)
	})

	t.Run("user without a row", func(t *testing.T) {
		prefs, err := svc.Get(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, prefs.PreferredCuisines)
	})

	t.Run("update replaces values", func(t *testing.T) {
		_, err := svc.Update(ctx, user.ID, types.UserPreferences{
			DietaryRestrictions: []string{"vegetarian"},
			Allergies:           []string{"peanuts", "shellfish"},
		})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, user.ID, types.UserPreferences{PreferredCuisines: []string{"italian"}})
		require.NoError(t, err)
		assert.Empty(t, updated.Allergies)

		stored, err := svc.Get(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"italian"}, stored.PreferredCuisines)
		assert.Empty(t, stored.DietaryRestrictions)

		var rows int64
		require.NoError(t, db.Model(&models.UserPreference{}).Where("user_id = ?", user.ID).Count(&rows).Error)
		assert.Equal(t, int64(1), rows)
	})

	t.Run("rejects blank entries", func(t *testing.T) {
		_, err := svc.Update(ctx, user.ID, types.UserPreferences{Allergies: []string{""}})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestUserContext(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.SetupSQLiteDB(t)
	svc := NewPreferenceService(db)
	user := testhelpers.CreateTestUser(t, db, "ctx@example.com")

	_, err := svc.Update(ctx, user.ID, types.UserPreferences{DietaryRestrictions: []string{"vegan"}, Allergies: []string{"soy"}})
	require.NoError(t, err)

	for i := 0; i < recentRatingLimit+5; i++ {
		require.NoError(t, svc.RateMeal(ctx, user.ID, types.RateMealRequest{MealName: "Meal", Rating: 1 + i%5}))
	}

	uc, err := svc.UserContext(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"vegan"}, uc.DietaryPreferences)
	assert.Equal(t, []string{"soy"}, uc.Allergies)
	assert.Len(t, uc.RecentRatings, recentRatingLimit)

	err = svc.RateMeal(ctx, user.ID, types.RateMealRequest{MealName: "Meal", Rating: 6})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rating", vErr.Field)
}

func TestPreferenceUpdateConcurrentFirstWrite(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		testConcurrentFirstWrite(t, testhelpers.SetupSQLiteDB(t))
	})
	t.Run("postgres", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping container-based test in short mode")
		}
		testConcurrentFirstWrite(t, testhelpers.SetupPostgresDB(t))
	})
}

func testConcurrentFirstWrite(t *testing.T, db *gorm.DB) {
	ctx := context.Background()
	svc := NewPreferenceService(db)

	// No preference row yet, unlike users made by CreateTestUser.
	user := &models.User{Name: "Racer", Email: "racer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Update(ctx, user.ID, types.UserPreferences{
				PreferredCuisines: []string{fmt.Sprintf("cuisine-%d", i)},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var rows int64
	require.NoError(t, db.Model(&models.UserPreference{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	stored, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored.PreferredCuisines, 1)
	assert.Contains(t, stored.PreferredCuisines[0], "cuisine-")
}

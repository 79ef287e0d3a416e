package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/testhelpers"
	"github.com/pageza/nutriplan/backend/internal/types"
)

var fixedNow = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

type mealPlanFixture struct {
	db     *gorm.DB
	svc    *MealPlanService
	oracle *testhelpers.MockOracle
	cache  *testhelpers.MemoryMenuCache
	user   *models.User
}

func newMealPlanFixture(t *testing.T) *mealPlanFixture {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	cache := testhelpers.NewMemoryMenuCache()
	oracle := new(testhelpers.MockOracle)
	auth := NewAuthService(db, "test-secret", cache, zap.NewNop())
	svc := NewMealPlanService(auth, NewPlanStore(db), cache, oracle, NewPreferenceService(db), zap.NewNop(), Options{
		OracleTimeout: time.Second,
		Now:           func() time.Time { return fixedNow },
	})
	return &mealPlanFixture{
		db:     db,
		svc:    svc,
		oracle: oracle,
		cache:  cache,
		user:   testhelpers.CreateTestUser(t, db, "planner@example.com"),
	}
}

func (f *mealPlanFixture) expectPlanOracle(raw string, err error) {
	f.oracle.On("Complete", mock.Anything, PlanSystemInstruction, mock.AnythingOfType("string"), planTemperature).
		Return(raw, err).Once()
}

func (f *mealPlanFixture) expectMenuOracle(raw string, err error) {
	f.oracle.On("Complete", mock.Anything, MenuSystemInstruction, mock.AnythingOfType("string"), menuTemperature).
		Return(raw, err).Once()
}

func TestGeneratePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a generated plan", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.expectPlanOracle(planJSON(2, 1, 3), nil)

		plan, err := f.svc.GeneratePlan(ctx, types.GenerationRequest{UserID: f.user.ID, TargetCalories: 2000, Duration: 3})
		require.NoError(t, err)
		f.oracle.AssertExpectations(t)

		assert.Equal(t, types.SourceGenerated, plan.Source)
		assert.Equal(t, 3, plan.Duration)
		require.Len(t, plan.DailyMeals, 3)
		for i, day := range plan.DailyMeals {
			assert.Equal(t, i+1, day.Day)
			assert.Equal(t, day.SumCalories(), day.TotalCalories)
		}
		assert.Equal(t, "2026-05-10", plan.DailyMeals[0].Date)
		assert.Equal(t, "2026-05-12", plan.DailyMeals[2].Date)

		stored, err := f.svc.GetPlan(ctx, f.user.ID, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, plan.DailyMeals, stored.DailyMeals)
		assert.Equal(t, plan.TargetCalories, stored.TargetCalories)
	})

	fallbackCases := []struct {
		name string
		raw  string
		err  error
	}{
		{"invalid json", "{not json", nil},
		{"missing lunch", `{"meals":[{"day":1,"meals":{"breakfast":` + mealJSON("Toast", 5, 30, 3) + `,"dinner":` + mealJSON("Soup", 10, 30, 5) + `}}]}`, nil},
		{"oracle error", "", errors.New("connection refused")},
		{"wrong day count", planJSON(1), nil},
	}
	for _, tc := range fallbackCases {
		t.Run("falls back on "+tc.name, func(t *testing.T) {
			f := newMealPlanFixture(t)
			f.expectPlanOracle(tc.raw, tc.err)

			plan, err := f.svc.GeneratePlan(ctx, types.GenerationRequest{
				UserID:              f.user.ID,
				TargetCalories:      1500,
				Duration:            3,
				DietaryRestrictions: []string{"vegetarian"},
			})
			require.NoError(t, err)
			f.oracle.AssertExpectations(t)

			assert.Equal(t, types.SourceFallback, plan.Source)
			require.Len(t, plan.DailyMeals, 3)
			catalog := FallbackPlan()
			for i, day := range plan.DailyMeals {
				assert.Equal(t, catalog[i].Meals, day.Meals)
				assert.Equal(t, catalog[i].TotalCalories, day.TotalCalories)
			}
			assert.Equal(t, "2026-05-10", plan.DailyMeals[0].Date)

			stored, err := f.svc.GetPlan(ctx, f.user.ID, plan.ID)
			require.NoError(t, err)
			assert.Equal(t, types.SourceFallback, stored.Source)
		})
	}

	t.Run("oracle timeout falls back", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.svc.opts.OracleTimeout = 20 * time.Millisecond
		f.oracle.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				<-args.Get(0).(context.Context).Done()
			}).
			Return("", context.DeadlineExceeded).Once()

		plan, err := f.svc.GeneratePlan(ctx, types.GenerationRequest{UserID: f.user.ID, TargetCalories: 2000, Duration: 2})
		require.NoError(t, err)
		assert.Equal(t, types.SourceFallback, plan.Source)
		assert.Len(t, plan.DailyMeals, 2)
	})

	t.Run("default duration is seven days", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.expectPlanOracle("", errors.New("unavailable"))

		plan, err := f.svc.GeneratePlan(ctx, types.GenerationRequest{UserID: f.user.ID, TargetCalories: 2000})
		require.NoError(t, err)
		assert.Equal(t, 7, plan.Duration)
		assert.Len(t, plan.DailyMeals, 7)
		assert.Equal(t, "2026-05-16", plan.DailyMeals[6].Date)
	})

	t.Run("validation happens before the oracle", func(t *testing.T) {
		f := newMealPlanFixture(t)
		for _, req := range []types.GenerationRequest{
			{UserID: f.user.ID, TargetCalories: 500},
			{UserID: f.user.ID, TargetCalories: 6000},
			{UserID: f.user.ID, TargetCalories: 2000, Duration: 31},
		} {
			_, err := f.svc.GeneratePlan(ctx, req)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
		}
		f.oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newMealPlanFixture(t)
		_, err := f.svc.GeneratePlan(ctx, types.GenerationRequest{UserID: uuid.New(), TargetCalories: 2000})
		assert.ErrorIs(t, err, ErrNotFound)
		var nf *NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "user", nf.Resource)
		f.oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.svc.plans = failingPlanStore{}
		f.expectPlanOracle(planJSON(1), nil)

		plan, err := f.svc.GeneratePlan(ctx, types.GenerationRequest{UserID: f.user.ID, TargetCalories: 2000, Duration: 1})
		assert.Nil(t, plan)
		assert.ErrorContains(t, err, "failed to save meal plan")
	})
}

type failingPlanStore struct{}

func (failingPlanStore) CreatePlan(ctx context.Context, plan *models.MealPlan) error {
	return errors.New("disk full")
}

func (failingPlanStore) GetPlan(ctx context.Context, ownerID, planID uuid.UUID) (*models.MealPlan, error) {
	return nil, errors.New("disk full")
}

func (failingPlanStore) ListPlans(ctx context.Context, ownerID uuid.UUID, query string) ([]models.MealPlan, error) {
	return nil, errors.New("disk full")
}

func (failingPlanStore) DeletePlan(ctx context.Context, ownerID, planID uuid.UUID) error {
	return errors.New("disk full")
}

func TestGenerateMenus(t *testing.T) {
	ctx := context.Background()
	light := mealJSON("Garden Salad", 10, 20, 5)
	// 4*90 + 4*180 + 9*80 = 1800 kcal
	heavy := mealJSON("Feast", 90, 180, 80)

	t.Run("drops menus over max calories and caches the rest", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.expectMenuOracle(menusJSON(
			menuJSON("light", "Light Day", "easy", light),
			menuJSON("heavy", "Big Day", "easy", heavy),
		), nil)

		menus, err := f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{MaxCalories: 1500})
		require.NoError(t, err)
		require.Len(t, menus, 1)
		assert.Equal(t, "light", menus[0].ID)

		cached, err := f.svc.GetCachedMenus(ctx, f.user.ID)
		require.NoError(t, err)
		assert.Equal(t, menus, cached)
	})

	t.Run("drops menus of another difficulty", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.expectMenuOracle(menusJSON(
			menuJSON("a", "Easy Day", "easy", light),
			menuJSON("b", "Hard Day", "hard", light),
		), nil)

		menus, err := f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{Difficulty: types.DifficultyHard})
		require.NoError(t, err)
		require.Len(t, menus, 1)
		assert.Equal(t, "b", menus[0].ID)
	})

	t.Run("assigns ids to menus without one", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.expectMenuOracle(menusJSON(
			menuJSON("", "One", "easy", light),
			menuJSON("", "Two", "easy", light),
		), nil)

		menus, err := f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{})
		require.NoError(t, err)
		require.Len(t, menus, 2)
		assert.NotEmpty(t, menus[0].ID)
		assert.NotEqual(t, menus[0].ID, menus[1].ID)
	})

	t.Run("everything filtered out falls back without caching", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.expectMenuOracle(menusJSON(menuJSON("heavy", "Big Day", "easy", heavy)), nil)

		menus, err := f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{MaxCalories: 1500})
		require.NoError(t, err)
		assert.Equal(t, FallbackMenus(), menus)

		_, err = f.svc.GetCachedMenus(ctx, f.user.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("fallback set is filtered too", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.expectMenuOracle("garbage", nil)

		menus, err := f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{MaxCalories: 1000})
		require.NoError(t, err)
		require.Len(t, menus, 1)
		assert.Equal(t, "fallback-menu-1", menus[0].ID)
	})

	t.Run("unfiltered fallback when filter leaves nothing", func(t *testing.T) {
		f := newMealPlanFixture(t)
		f.expectMenuOracle("", errors.New("timeout"))

		menus, err := f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{Difficulty: types.DifficultyHard})
		require.NoError(t, err)
		assert.Len(t, menus, 3)
	})

	t.Run("prompt carries preferences and ratings", func(t *testing.T) {
		f := newMealPlanFixture(t)
		prefs := NewPreferenceService(f.db)
		_, err := prefs.Update(ctx, f.user.ID, types.UserPreferences{Allergies: []string{"peanuts"}})
		require.NoError(t, err)
		require.NoError(t, prefs.RateMeal(ctx, f.user.ID, types.RateMealRequest{MealName: "Tofu Stir-Fry", Rating: 4}))

		f.oracle.On("Complete", mock.Anything, MenuSystemInstruction,
			mock.MatchedBy(func(prompt string) bool {
				return containsAll(prompt, "Allergies (never use): peanuts", "Tofu Stir-Fry (4/5)")
			}), menuTemperature).
			Return(menusJSON(menuJSON("a", "Day", "easy", light)), nil).Once()

		_, err = f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{})
		require.NoError(t, err)
		f.oracle.AssertExpectations(t)
	})

	t.Run("invalid filter", func(t *testing.T) {
		f := newMealPlanFixture(t)
		_, err := f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{MaxCalories: 100})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "maxCalories", vErr.Field)

		_, err = f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{Difficulty: "extreme"})
		require.ErrorAs(t, err, &vErr)

		long := strings.Repeat("x", 51)
		_, err = f.svc.GenerateMenus(ctx, f.user.ID, types.MenuFilter{DietaryRestrictions: []string{"vegan", long}})
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "dietaryRestrictions[1]", vErr.Field)
		f.oracle.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newMealPlanFixture(t)
		_, err := f.svc.GenerateMenus(ctx, uuid.New(), types.MenuFilter{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPlanOwnership(t *testing.T) {
	ctx := context.Background()
	f := newMealPlanFixture(t)
	other := testhelpers.CreateTestUser(t, f.db, "other@example.com")

	f.expectPlanOracle("", errors.New("offline"))
	plan, err := f.svc.GeneratePlan(ctx, types.GenerationRequest{UserID: f.user.ID, TargetCalories: 2000, Duration: 1})
	require.NoError(t, err)

	_, err = f.svc.GetPlan(ctx, other.ID, plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeletePlan(ctx, other.ID, plan.ID), ErrNotFound)

	plans, err := f.svc.ListPlans(ctx, other.ID, "")
	require.NoError(t, err)
	assert.Empty(t, plans)

	plans, err = f.svc.ListPlans(ctx, f.user.ID, "")
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	require.NoError(t, f.svc.DeletePlan(ctx, f.user.ID, plan.ID))
	_, err = f.svc.GetPlan(ctx, f.user.ID, plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var days int64
	require.NoError(t, f.db.Model(&models.DailyMealPlan{}).Where("meal_plan_id = ?", plan.ID).Count(&days).Error)
	assert.Zero(t, days)
}

func TestGetCachedMenusMiss(t *testing.T) {
	f := newMealPlanFixture(t)
	_, err := f.svc.GetCachedMenus(context.Background(), f.user.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "cached menus", nf.Resource)
}

func TestGenerateMenusLogsMacroWarnings(t *testing.T) {
	f := newMealPlanFixture(t)
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewMealPlanService(NewAuthService(f.db, "test-secret", f.cache, zap.NewNop()), NewPlanStore(f.db), f.cache, f.oracle,
		NewPreferenceService(f.db), zap.New(core), Options{OracleTimeout: time.Second, Now: func() time.Time { return fixedNow }})

	off := `{"name":"Burger","calories":200,"protein":40,"carbs":80,"fat":40,"ingredients":["bun"]}`
	f.expectMenuOracle(menusJSON(menuJSON("a", "Off", "easy", mealJSON("Salad", 10, 20, 5), off)), nil)

	menus, err := svc.GenerateMenus(context.Background(), f.user.ID, types.MenuFilter{})
	require.NoError(t, err)
	require.Len(t, menus, 1)
	// Warnings never reject the menu.
	assert.Equal(t, "a", menus[0].ID)

	entries := logs.FilterMessage("menu inconsistency").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["warning"], "menu 1 meal 2")
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

type mockMealPlanService struct {
	mock.Mock
}

func (m *mockMealPlanService) GeneratePlan(ctx context.Context, req types.GenerationRequest) (*types.MealPlan, error) {
	args := m.Called(ctx, req)
	plan, _ := args.Get(0).(*types.MealPlan)
	return plan, args.Error(1)
}

func (m *mockMealPlanService) GenerateMenus(ctx context.Context, userID uuid.UUID, filter types.MenuFilter) ([]types.RecommendedMenu, error) {
	args := m.Called(ctx, userID, filter)
	menus, _ := args.Get(0).([]types.RecommendedMenu)
	return menus, args.Error(1)
}

func (m *mockMealPlanService) GetCachedMenus(ctx context.Context, userID uuid.UUID) ([]types.RecommendedMenu, error) {
	args := m.Called(ctx, userID)
	menus, _ := args.Get(0).([]types.RecommendedMenu)
	return menus, args.Error(1)
}

func (m *mockMealPlanService) GetPlan(ctx context.Context, ownerID, planID uuid.UUID) (*types.MealPlan, error) {
	args := m.Called(ctx, ownerID, planID)
	plan, _ := args.Get(0).(*types.MealPlan)
	return plan, args.Error(1)
}

func (m *mockMealPlanService) ListPlans(ctx context.Context, ownerID uuid.UUID, query string) ([]types.MealPlan, error) {
	args := m.Called(ctx, ownerID, query)
	plans, _ := args.Get(0).([]types.MealPlan)
	return plans, args.Error(1)
}

func (m *mockMealPlanService) DeletePlan(ctx context.Context, ownerID, planID uuid.UUID) error {
	return m.Called(ctx, ownerID, planID).Error(0)
}

type mockExporter struct {
	mock.Mock
}

func (m *mockExporter) ExportPlan(ctx context.Context, ownerID, planID uuid.UUID) (*service.PlanExport, error) {
	args := m.Called(ctx, ownerID, planID)
	export, _ := args.Get(0).(*service.PlanExport)
	return export, args.Error(1)
}

// newPlanRouter mounts the handler behind a stub that authenticates as userID.
func newPlanRouter(h *MealPlanHandler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.POST("/generate", h.Generate)
	r.GET("/recommended", h.Recommended)
	r.GET("/recommended/cached", h.CachedRecommended)
	r.GET("/plans", h.List)
	r.GET("/plans/:id", h.Get)
	r.DELETE("/plans/:id", h.Delete)
	r.POST("/plans/:id/export", h.Export)
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRecommendedBindsFilter(t *testing.T) {
	userID := uuid.New()
	plans := new(mockMealPlanService)
	r := newPlanRouter(NewMealPlanHandler(plans, nil), userID)

	want := types.MenuFilter{
		Difficulty:          types.DifficultyEasy,
		MaxCalories:         1500,
		DietaryRestrictions: []string{"vegan", "gluten-free", "halal"},
	}
	plans.On("GenerateMenus", mock.Anything, userID, want).
		Return([]types.RecommendedMenu{{ID: "m1", Name: "Light"}}, nil).Once()

	w := serve(r, http.MethodGet, "/recommended?difficulty=easy&maxCalories=1500&dietaryRestrictions=vegan,%20gluten-free&dietaryRestrictions=halal")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Menus []types.RecommendedMenu `json:"menus"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Menus, 1)
	assert.Equal(t, "m1", body.Menus[0].ID)
	plans.AssertExpectations(t)
}

func TestRecommendedRestrictionLists(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "list longer than one item limit",
			query: "dietaryRestrictions=vegetarian,gluten-free,dairy-free,nut-free,low-sodium",
			want:  []string{"vegetarian", "gluten-free", "dairy-free", "nut-free", "low-sodium"},
		},
		{name: "empty value means none", query: "dietaryRestrictions=", want: nil},
		{name: "only separators", query: "dietaryRestrictions=,%20,", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans := new(mockMealPlanService)
			r := newPlanRouter(NewMealPlanHandler(plans, nil), userID)
			plans.On("GenerateMenus", mock.Anything, userID, types.MenuFilter{DietaryRestrictions: tt.want}).
				Return([]types.RecommendedMenu{}, nil).Once()

			w := serve(r, http.MethodGet, "/recommended?"+tt.query)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			plans.AssertExpectations(t)
		})
	}
}

func TestRecommendedRejectsBadFilter(t *testing.T) {
	plans := new(mockMealPlanService)
	r := newPlanRouter(NewMealPlanHandler(plans, nil), uuid.New())

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"unknown difficulty", "difficulty=extreme", "difficulty"},
		{"calories too low", "maxCalories=100", "maxCalories"},
		{"calories too high", "maxCalories=9000", "maxCalories"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, http.MethodGet, "/recommended?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.field, body.Field)
		})
	}
	plans.AssertNotCalled(t, "GenerateMenus", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlersRequireUser(t *testing.T) {
	plans := new(mockMealPlanService)
	r := newPlanRouter(NewMealPlanHandler(plans, nil), uuid.Nil)

	for _, path := range []string{"/recommended", "/recommended/cached", "/plans"} {
		w := serve(r, http.MethodGet, path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestPlanLookupErrors(t *testing.T) {
	userID := uuid.New()
	plans := new(mockMealPlanService)
	r := newPlanRouter(NewMealPlanHandler(plans, nil), userID)

	w := serve(r, http.MethodGet, "/plans/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	missing := uuid.New()
	plans.On("GetPlan", mock.Anything, userID, missing).
		Return(nil, &service.NotFoundError{Resource: "meal plan", ID: missing.String()}).Once()
	w = serve(r, http.MethodGet, "/plans/"+missing.String())
	assert.Equal(t, http.StatusNotFound, w.Code)

	plans.On("GetCachedMenus", mock.Anything, userID).
		Return(nil, &service.NotFoundError{Resource: "cached menus", ID: userID.String()}).Once()
	w = serve(r, http.MethodGet, "/recommended/cached")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPassesQuery(t *testing.T) {
	userID := uuid.New()
	plans := new(mockMealPlanService)
	r := newPlanRouter(NewMealPlanHandler(plans, nil), userID)

	plans.On("ListPlans", mock.Anything, userID, "salmon").Return([]types.MealPlan{}, nil).Once()
	w := serve(r, http.MethodGet, "/plans?q=salmon")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"mealPlans":[]}`, w.Body.String())
}

func TestDeletePlan(t *testing.T) {
	userID, planID := uuid.New(), uuid.New()
	plans := new(mockMealPlanService)
	r := newPlanRouter(NewMealPlanHandler(plans, nil), userID)

	plans.On("DeletePlan", mock.Anything, userID, planID).Return(nil).Once()
	w := serve(r, http.MethodDelete, "/plans/"+planID.String())
	assert.Equal(t, http.StatusNoContent, w.Code)
	plans.AssertExpectations(t)
}

func TestExport(t *testing.T) {
	userID, planID := uuid.New(), uuid.New()

	t.Run("disabled without exporter", func(t *testing.T) {
		r := newPlanRouter(NewMealPlanHandler(new(mockMealPlanService), nil), userID)
		w := serve(r, http.MethodPost, "/plans/"+planID.String()+"/export")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("returns presigned url", func(t *testing.T) {
		exporter := new(mockExporter)
		r := newPlanRouter(NewMealPlanHandler(new(mockMealPlanService), exporter), userID)

		expires := time.Date(2026, 5, 10, 12, 15, 0, 0, time.UTC)
		exporter.On("ExportPlan", mock.Anything, userID, planID).Return(&service.PlanExport{
			Key:       "exports/" + userID.String() + "/" + planID.String() + ".json",
			URL:       "https://example.com/signed",
			ExpiresAt: expires,
		}, nil).Once()

		w := serve(r, http.MethodPost, "/plans/"+planID.String()+"/export")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got service.PlanExport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "https://example.com/signed", got.URL)
		assert.True(t, expires.Equal(got.ExpiresAt))
	})
}

func TestSplitCSV(t *testing.T) {
	assert.Nil(t, splitCSV(nil))
	assert.Equal(t, []string{"a", "b", "c"}, splitCSV([]string{"a, b", " ", "c,"}))
}

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/service"
	"github.com/pageza/nutriplan/backend/internal/types"
)

// MealPlanService is the orchestration surface used by MealPlanHandler
type MealPlanService interface {
	GeneratePlan(ctx context.Context, req types.GenerationRequest) (*types.MealPlan, error)
	GenerateMenus(ctx context.Context, userID uuid.UUID, filter types.MenuFilter) ([]types.RecommendedMenu, error)
	GetCachedMenus(ctx context.Context, userID uuid.UUID) ([]types.RecommendedMenu, error)
	GetPlan(ctx context.Context, ownerID, planID uuid.UUID) (*types.MealPlan, error)
	ListPlans(ctx context.Context, ownerID uuid.UUID, query string) ([]types.MealPlan, error)
	DeletePlan(ctx context.Context, ownerID, planID uuid.UUID) error
}

// PlanExporter uploads plans for download
type PlanExporter interface {
	ExportPlan(ctx context.Context, ownerID, planID uuid.UUID) (*service.PlanExport, error)
}

type MealPlanHandler struct {
	plans    MealPlanService
	exporter PlanExporter
}

// NewMealPlanHandler creates the handler. A nil exporter disables exports.
func NewMealPlanHandler(plans MealPlanService, exporter PlanExporter) *MealPlanHandler {
	return &MealPlanHandler{plans: plans, exporter: exporter}
}

func (h *MealPlanHandler) Generate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	req.UserID = userID

	plan, err := h.plans.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) Recommended(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var filter types.MenuFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}
	filter.DietaryRestrictions = splitCSV(c.QueryArray("dietaryRestrictions"))

	menus, err := h.plans.GenerateMenus(c.Request.Context(), userID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus})
}

func (h *MealPlanHandler) CachedRecommended(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	menus, err := h.plans.GetCachedMenus(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus})
}

func (h *MealPlanHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	plans, err := h.plans.ListPlans(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mealPlans": plans})
}

func (h *MealPlanHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c)
	if !ok {
		return
	}

	plan, err := h.plans.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.plans.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealPlanHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "plan export is not configured"})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := pathID(c)
	if !ok {
		return
	}

	export, err := h.exporter.ExportPlan(c.Request.Context(), userID, planID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, export)
}

func splitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

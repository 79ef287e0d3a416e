package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/pageza/nutriplan/backend/internal/types"
)

const defaultOracleTimeout = 30 * time.Second

// Options tunes MealPlanService
type Options struct {
	// OracleTimeout bounds the single oracle call per request.
	OracleTimeout time.Duration
	// Now returns the current time; plans start on Now's UTC date.
	Now func() time.Time
}

// MealPlanService turns oracle output into validated plans and menus, falling
// back to the built-in catalog whenever the oracle fails or answers badly.
type MealPlanService struct {
	users    UserStore
	plans    PlanStore
	cache    MenuCache
	oracle   Oracle
	profiles UserContextProvider
	logger   *zap.Logger
	opts     Options
}

func NewMealPlanService(users UserStore, plans PlanStore, cache MenuCache, oracle Oracle, profiles UserContextProvider, logger *zap.Logger, opts Options) *MealPlanService {
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = defaultOracleTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &MealPlanService{
		users:    users,
		plans:    plans,
		cache:    cache,
		oracle:   oracle,
		profiles: profiles,
		logger:   logger,
		opts:     opts,
	}
}

func (s *MealPlanService) today() time.Time {
	now := s.opts.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// GeneratePlan builds, stores and returns a plan of req.ResolvedDuration() days starting today.
// Oracle and parse failures are absorbed by the fallback catalog; storage failures are returned.
func (s *MealPlanService) GeneratePlan(ctx context.Context, req types.GenerationRequest) (*types.MealPlan, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.users.FindUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	duration := req.ResolvedDuration()
	start := s.today()
	log := s.logger.With(zap.String("user_id", req.UserID.String()), zap.Int("duration", duration))

	source := types.SourceGenerated
	days, err := s.requestPlan(ctx, req, start, duration)
	if err != nil {
		log.Warn("meal plan generation failed, using fallback catalog", zap.Error(err))
		source = types.SourceFallback
		days = FallbackPlanFor(duration, start)
	}

	for i := range days {
		days[i].Date = start.AddDate(0, 0, days[i].Day-1).Format(dateLayout)
	}

	summary := planSummary(days)
	plan := models.MealPlan{
		UserID:         req.UserID,
		TargetCalories: req.TargetCalories,
		Duration:       duration,
		Source:         source,
		Summary:        summary,
		Embedding:      GenerateEmbedding(summary),
		Days:           models.NewDailyMealPlans(days),
	}
	if err := s.plans.CreatePlan(ctx, &plan); err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}

	log.Info("meal plan created", zap.String("plan_id", plan.ID.String()), zap.String("source", source))
	return plan.ToType(), nil
}

func (s *MealPlanService) requestPlan(ctx context.Context, req types.GenerationRequest, start time.Time, duration int) ([]types.DailyMealPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.OracleTimeout)
	defer cancel()

	raw, err := s.oracle.Complete(ctx, PlanSystemInstruction, BuildPlanPrompt(req, start), planTemperature)
	if err != nil {
		return nil, err
	}
	parsed, err := ParsePlanResponse(raw, duration)
	if err != nil {
		return nil, err
	}
	for _, w := range parsed.Warnings {
		s.logger.Debug("meal plan inconsistency", zap.String("warning", w))
	}
	return parsed.Meals, nil
}

// GenerateMenus recommends menus for the user. Menus over filter.MaxCalories or
// of another difficulty are dropped; if none survive the fallback menus are used.
// Only oracle menus are cached.
func (s *MealPlanService) GenerateMenus(ctx context.Context, userID uuid.UUID, filter types.MenuFilter) ([]types.RecommendedMenu, error) {
	if err := Validate(filter); err != nil {
		return nil, err
	}
	if _, err := s.users.FindUser(ctx, userID); err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("user_id", userID.String()))

	userCtx, err := s.profiles.UserContext(ctx, userID)
	if err != nil {
		log.Warn("failed to load user context, continuing without it", zap.Error(err))
		userCtx = types.UserContext{}
	}

	menus, err := s.requestMenus(ctx, userCtx, filter)
	if err == nil {
		if kept := filterMenus(menus, filter); len(kept) > 0 {
			s.cache.CacheMenus(ctx, userID, kept)
			return kept, nil
		}
		err = fmt.Errorf("all %d menus rejected by filter", len(menus))
	}

	log.Warn("menu generation failed, using fallback menus", zap.Error(err))
	fallback := FallbackMenus()
	if kept := filterMenus(fallback, filter); len(kept) > 0 {
		return kept, nil
	}
	return fallback, nil
}

func (s *MealPlanService) requestMenus(ctx context.Context, userCtx types.UserContext, filter types.MenuFilter) ([]types.RecommendedMenu, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.OracleTimeout)
	defer cancel()

	raw, err := s.oracle.Complete(ctx, MenuSystemInstruction, BuildMenuPrompt(userCtx, filter, s.today()), menuTemperature)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseMenuResponse(raw)
	if err != nil {
		return nil, err
	}
	for _, w := range parsed.Warnings {
		s.logger.Debug("menu inconsistency", zap.String("warning", w))
	}
	menus := parsed.Menus

	seen := make(map[string]bool, len(menus))
	for i := range menus {
		if menus[i].ID == "" || seen[menus[i].ID] {
			menus[i].ID = uuid.NewString()
		}
		seen[menus[i].ID] = true
	}
	return menus, nil
}

func filterMenus(menus []types.RecommendedMenu, filter types.MenuFilter) []types.RecommendedMenu {
	var kept []types.RecommendedMenu
	for _, m := range menus {
		if filter.Allows(m) {
			kept = append(kept, m)
		}
	}
	return kept
}

// GetCachedMenus returns the user's last oracle-generated menus
func (s *MealPlanService) GetCachedMenus(ctx context.Context, userID uuid.UUID) ([]types.RecommendedMenu, error) {
	menus, ok := s.cache.GetCachedMenus(ctx, userID)
	if !ok {
		return nil, &NotFoundError{Resource: "cached menus", ID: userID.String()}
	}
	return menus, nil
}

// GetPlan returns one of the owner's plans
func (s *MealPlanService) GetPlan(ctx context.Context, ownerID, planID uuid.UUID) (*types.MealPlan, error) {
	plan, err := s.plans.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	return plan.ToType(), nil
}

// ListPlans returns the owner's plans, optionally narrowed by a meal search
func (s *MealPlanService) ListPlans(ctx context.Context, ownerID uuid.UUID, query string) ([]types.MealPlan, error) {
	plans, err := s.plans.ListPlans(ctx, ownerID, query)
	if err != nil {
		return nil, err
	}
	out := make([]types.MealPlan, 0, len(plans))
	for i := range plans {
		out = append(out, *plans[i].ToType())
	}
	return out, nil
}

// DeletePlan removes one of the owner's plans
func (s *MealPlanService) DeletePlan(ctx context.Context, ownerID, planID uuid.UUID) error {
	return s.plans.DeletePlan(ctx, ownerID, planID)
}

// planSummary lists the distinct meal names of a plan for search.
func planSummary(days []types.DailyMealPlan) string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range days {
		for _, m := range d.Meals.All() {
			if !seen[m.Name] {
				seen[m.Name] = true
				names = append(names, m.Name)
			}
		}
	}
	return strings.Join(names, "; ")
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// UserStore looks up users
type UserStore interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// PlanStore persists meal plans. Every read and delete is scoped to the owner.
type PlanStore interface {
	CreatePlan(ctx context.Context, plan *models.MealPlan) error
	GetPlan(ctx context.Context, ownerID, planID uuid.UUID) (*models.MealPlan, error)
	ListPlans(ctx context.Context, ownerID uuid.UUID, query string) ([]models.MealPlan, error)
	DeletePlan(ctx context.Context, ownerID, planID uuid.UUID) error
}

type gormPlanStore struct {
	db *gorm.DB
}

// NewPlanStore returns a GORM-backed PlanStore
func NewPlanStore(db *gorm.DB) PlanStore {
	return &gormPlanStore{db: db}
}

func preloadDays(db *gorm.DB) *gorm.DB {
	return db.Order("day ASC")
}

func (s *gormPlanStore) CreatePlan(ctx context.Context, plan *models.MealPlan) error {
	return s.db.WithContext(ctx).Create(plan).Error
}

func (s *gormPlanStore) GetPlan(ctx context.Context, ownerID, planID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Days", preloadDays).
		Where("id = ? AND user_id = ?", planID, ownerID).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "meal plan", ID: planID.String()}
		}
		return nil, err
	}
	return &plan, nil
}

// ListPlans returns the owner's plans, newest first. A non-empty query keeps plans
// whose meals mention it; on PostgreSQL matches are ranked by embedding distance.
func (s *gormPlanStore) ListPlans(ctx context.Context, ownerID uuid.UUID, query string) ([]models.MealPlan, error) {
	tx := s.db.WithContext(ctx).
		Preload("Days", preloadDays).
		Where("user_id = ?", ownerID)

	ranked := false
	if query = strings.TrimSpace(query); query != "" {
		tx = tx.Where("LOWER(summary) LIKE ?", "%"+strings.ToLower(query)+"%")
		if s.db.Dialector.Name() == "postgres" {
			tx = tx.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{GenerateEmbedding(query)}},
			})
			ranked = true
		}
	}
	if !ranked {
		tx = tx.Order("created_at DESC")
	}

	var plans []models.MealPlan
	if err := tx.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *gormPlanStore) DeletePlan(ctx context.Context, ownerID, planID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.MealPlan
		if err := tx.Where("id = ? AND user_id = ?", planID, ownerID).First(&plan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "meal plan", ID: planID.String()}
			}
			return err
		}
		if err := tx.Where("meal_plan_id = ?", plan.ID).Delete(&models.DailyMealPlan{}).Error; err != nil {
			return err
		}
		return tx.Delete(&plan).Error
	})
}

package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/nutriplan/backend/internal/types"
)

// MealPlan is the stored header of a multi-day plan.
type MealPlan struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	TargetCalories float64         `gorm:"not null" json:"target_calories"`
	Duration       int             `gorm:"not null" json:"duration"`
	Source         string          `gorm:"size:20;not null;default:'generated'" json:"source"`
	Summary        string          `gorm:"type:text" json:"summary"`
	Embedding      pgvector.Vector `gorm:"type:vector(3)" json:"-"`
	Days           []DailyMealPlan `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE" json:"days"`
}

func (MealPlan) TableName() string {
	return "meal_plans"
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DailyMealPlan stores one day of a plan; the meal slots live in a JSON column.
type DailyMealPlan struct {
	ID            uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"id"`
	MealPlanID    uuid.UUID                          `gorm:"type:uuid;not null;uniqueIndex:idx_plan_day" json:"meal_plan_id"`
	Day           int                                `gorm:"not null;uniqueIndex:idx_plan_day" json:"day"`
	Date          string                             `gorm:"size:10;not null" json:"date"`
	Meals         datatypes.JSONType[types.DayMeals] `json:"meals"`
	TotalCalories float64                            `gorm:"not null" json:"total_calories"`
}

func (DailyMealPlan) TableName() string {
	return "daily_meal_plans"
}

func (d *DailyMealPlan) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ToType converts the stored plan into the client-facing shape.
func (p *MealPlan) ToType() *types.MealPlan {
	days := make([]types.DailyMealPlan, 0, len(p.Days))
	for _, d := range p.Days {
		days = append(days, types.DailyMealPlan{
			Day:           d.Day,
			Date:          d.Date,
			Meals:         d.Meals.Data(),
			TotalCalories: d.TotalCalories,
		})
	}
	return &types.MealPlan{
		ID:             p.ID,
		UserID:         p.UserID,
		TargetCalories: p.TargetCalories,
		Duration:       p.Duration,
		DailyMeals:     days,
		Source:         p.Source,
		CreatedAt:      p.CreatedAt,
	}
}

// NewDailyMealPlans converts validated days into rows.
func NewDailyMealPlans(days []types.DailyMealPlan) []DailyMealPlan {
	rows := make([]DailyMealPlan, 0, len(days))
	for _, d := range days {
		rows = append(rows, DailyMealPlan{
			Day:           d.Day,
			Date:          d.Date,
			Meals:         datatypes.NewJSONType(d.Meals),
			TotalCalories: d.TotalCalories,
		})
	}
	return rows
}

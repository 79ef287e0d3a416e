package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const exportURLTTL = 15 * time.Minute

// ObjectStore is the subset of S3 used for plan exports
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

// PlanExport describes an uploaded plan document
type PlanExport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportService uploads plans as JSON documents and hands out temporary download links
type ExportService struct {
	plans   *MealPlanService
	storage ObjectStore
	logger  *zap.Logger
}

func NewExportService(plans *MealPlanService, storage ObjectStore, logger *zap.Logger) *ExportService {
	return &ExportService{plans: plans, storage: storage, logger: logger}
}

// ExportPlan uploads one of the owner's plans and returns a presigned download URL
func (s *ExportService) ExportPlan(ctx context.Context, ownerID, planID uuid.UUID) (*PlanExport, error) {
	plan, err := s.plans.GetPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode meal plan: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", ownerID, planID)
	if err := s.storage.PutObject(ctx, key, body, "application/json"); err != nil {
		return nil, err
	}

	url, err := s.storage.GeneratePresignedURL(ctx, key, exportURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %w", err)
	}

	s.logger.Info("meal plan exported", zap.String("plan_id", planID.String()), zap.String("key", key))
	return &PlanExport{Key: key, URL: url, ExpiresAt: time.Now().Add(exportURLTTL)}, nil
}

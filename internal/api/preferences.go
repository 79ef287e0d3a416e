package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/types"
)

// PreferenceService is the preference and rating surface used by PreferenceHandler
type PreferenceService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.UserPreferences, error)
	Update(ctx context.Context, userID uuid.UUID, prefs types.UserPreferences) (*types.UserPreferences, error)
	RateMeal(ctx context.Context, userID uuid.UUID, req types.RateMealRequest) error
}

type PreferenceHandler struct {
	preferences PreferenceService
}

func NewPreferenceHandler(preferences PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences}
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	prefs, err := h.preferences.Get(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PreferenceHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.UserPreferences
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	prefs, err := h.preferences.Update(c.Request.Context(), userID, req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *PreferenceHandler) RateMeal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.RateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.preferences.RateMeal(c.Request.Context(), userID, req); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusCreated)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/internal/middleware"
	"github.com/pageza/nutriplan/backend/internal/service"
)

// bindError reports a request body or query that failed to bind
func bindError(c *gin.Context, err error) {
	_ = c.Error(service.NewValidationError(err))
}

// currentUser returns the authenticated user id or aborts with 401
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "unauthorized"})
	}
	return id, ok
}

// pathID parses the :id parameter or reports a validation error
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		_ = c.Error(&service.ValidationError{Field: "id", Message: "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/delhayec/MillionRecap/internal/ingest"
	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/service"
	"github.com/delhayec/MillionRecap/pkg/response"
)

// maxImportBytes bounds the body of an import request
const maxImportBytes = 64 << 20

// ActivityHandler handles HTTP requests for activities and athletes
type ActivityHandler struct {
	service *service.ActivityService
	loader  *ingest.Loader
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(service *service.ActivityService, loader *ingest.Loader) *ActivityHandler {
	return &ActivityHandler{service: service, loader: loader}
}

// GetActivities handles GET /api/v1/activities
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	var filter models.ActivityFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	activities, total, err := h.service.GetActivities(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get activities", err)
		return
	}
	if activities == nil {
		activities = []models.Activity{}
	}

	page, pageSize, _ := filter.Pagination()
	response.Success(c, gin.H{
		"data":       activities,
		"total":      total,
		"page":       page,
		"pageSize":   pageSize,
		"totalPages": models.TotalPages(total, pageSize),
	})
}

// ImportActivities handles POST /api/v1/activities. The body is a Strava
// activity array, or an object with an "activities" array.
func (h *ActivityHandler) ImportActivities(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	if len(body) > maxImportBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "Request body too large", nil)
		return
	}

	activities, err := h.loader.Read(bytes.NewReader(body))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid activities", err)
		return
	}

	result, err := h.service.Import(c.Request.Context(), activities)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to import activities", err)
		return
	}

	response.Success(c, result)
}

// GetAthletes handles GET /api/v1/athletes
func (h *ActivityHandler) GetAthletes(c *gin.Context) {
	athletes, err := h.service.GetAthletes(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get athletes", err)
		return
	}
	if athletes == nil {
		athletes = []models.Athlete{}
	}

	response.Success(c, athletes)
}

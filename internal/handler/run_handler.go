package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/delhayec/MillionRecap/internal/middleware"
	"github.com/delhayec/MillionRecap/internal/service"
	"github.com/delhayec/MillionRecap/pkg/response"
)

// RunHandler handles HTTP requests for detection runs
type RunHandler struct {
	service *service.RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(service *service.RunService) *RunHandler {
	return &RunHandler{service: service}
}

// CreateRunRequest represents the request body for starting a run
type CreateRunRequest struct {
	// Threshold overrides, see grouping.Params
	Params json.RawMessage `json:"params"`
}

// CreateRun starts a full recomputation of the groups
// POST /api/v1/runs
func (h *RunHandler) CreateRun(c *gin.Context) {
	var req CreateRunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	params := ""
	if len(req.Params) > 0 && string(req.Params) != "null" {
		params = string(req.Params)
	}

	createdBy := c.GetString(middleware.UserKey)

	run, err := h.service.StartRun(c.Request.Context(), params, createdBy)
	switch {
	case errors.Is(err, service.ErrInvalidParams):
		response.Error(c, http.StatusBadRequest, "Invalid run parameters", err)
		return
	case errors.Is(err, service.ErrRunInProgress):
		response.Error(c, http.StatusConflict, "A detection run is already in progress", err)
		return
	case err != nil:
		response.Error(c, http.StatusInternalServerError, "Failed to start detection run", err)
		return
	}

	response.Accepted(c, run)
}

// GetRun retrieves a run by ID
// GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get detection run", err)
		return
	}

	if run == nil {
		response.Error(c, http.StatusNotFound, "Detection run not found", nil)
		return
	}

	response.Success(c, run)
}

// ListRuns retrieves recent runs
// GET /api/v1/runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}

	runs, err := h.service.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list detection runs", err)
		return
	}

	response.Success(c, gin.H{
		"runs":   runs,
		"limit":  limit,
		"offset": offset,
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/delhayec/MillionRecap/internal/models"
	"github.com/delhayec/MillionRecap/internal/service"
	"github.com/delhayec/MillionRecap/pkg/response"
)

// GroupHandler handles HTTP requests for detected groups
type GroupHandler struct {
	service *service.GroupService
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(service *service.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// GetGroups handles GET /api/v1/groups
func (h *GroupHandler) GetGroups(c *gin.Context) {
	var filter models.GroupFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	groups, total, err := h.service.GetGroups(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get groups", err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}

	page, pageSize, _ := filter.Pagination()
	response.Success(c, gin.H{
		"data":       groups,
		"total":      total,
		"page":       page,
		"pageSize":   pageSize,
		"totalPages": models.TotalPages(total, pageSize),
	})
}

// GetGroupByID handles GET /api/v1/groups/:id
func (h *GroupHandler) GetGroupByID(c *gin.Context) {
	group, err := h.service.GetGroupByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get group", err)
		return
	}

	if group == nil {
		response.Error(c, http.StatusNotFound, "Group not found", nil)
		return
	}

	response.Success(c, group)
}

// GetSummary handles GET /api/v1/groups/summary
func (h *GroupHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to summarize groups", err)
		return
	}

	response.Success(c, summary)
}

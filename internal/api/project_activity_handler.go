package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/service"
)

// ProjectActivityHandler handles activity-to-project assignments.
type ProjectActivityHandler struct {
	assignments *service.ProjectActivityService
}

func NewProjectActivityHandler(assignments *service.ProjectActivityService) *ProjectActivityHandler {
	return &ProjectActivityHandler{assignments: assignments}
}

type assignActivityRequest struct {
	ProjectID  int `json:"projectId"`
	ActivityID int `json:"activityId"`
}

func (h *ProjectActivityHandler) ListProjectActivities(c *gin.Context) {
	assignments, err := h.assignments.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *ProjectActivityHandler) AssignActivity(c *gin.Context) {
	var req assignActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	assignment, err := h.assignments.Assign(c.Request.Context(), req.ProjectID, req.ActivityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *ProjectActivityHandler) UnassignActivity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.assignments.Unassign(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

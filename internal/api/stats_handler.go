package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/service"
)

// StatsHandler serves per-project effort reports.
type StatsHandler struct {
	stats *service.StatsService
}

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// ProjectStats returns booked minutes, hours and derived revenue per project
// for the requested date range.
func (h *StatsHandler) ProjectStats(c *gin.Context) {
	stats, err := h.stats.ProjectStats(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportProjectStats streams the report as an XLSX download.
func (h *StatsHandler) ExportProjectStats(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	data, err := h.stats.ExportXLSX(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("project-stats_%s_%s.xlsx", from, to)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

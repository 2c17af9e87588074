package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/service"
)

// TicketSystemHandler handles ticket system configuration requests. Secrets
// are accepted on writes and never included in responses.
type TicketSystemHandler struct {
	ticketSystems *service.TicketSystemService
}

func NewTicketSystemHandler(ticketSystems *service.TicketSystemService) *TicketSystemHandler {
	return &TicketSystemHandler{ticketSystems: ticketSystems}
}

func (h *TicketSystemHandler) ListTicketSystems(c *gin.Context) {
	systems, err := h.ticketSystems.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, systems)
}

func (h *TicketSystemHandler) GetTicketSystem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ts, err := h.ticketSystems.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (h *TicketSystemHandler) CreateTicketSystem(c *gin.Context) {
	var req models.TicketSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	ts, err := h.ticketSystems.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ts)
}

func (h *TicketSystemHandler) UpdateTicketSystem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.TicketSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	ts, err := h.ticketSystems.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (h *TicketSystemHandler) DeleteTicketSystem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.ticketSystems.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

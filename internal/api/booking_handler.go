package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/middleware"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/service"
)

// BookingHandler handles time-booking HTTP requests.
type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// ListBookings returns the authenticated user's bookings, newest first.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	responses, err := h.bookings.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, responses)
}

// GetBooking returns one booking.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	booking, err := h.bookings.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CreateBooking books time on a project.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// UpdateBooking applies partial changes to a booking.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	booking, err := h.bookings.Update(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking removes a booking and its external worklog.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.bookings.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

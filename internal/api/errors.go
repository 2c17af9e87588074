package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/service"
)

// ErrorResponse is the JSON error shape returned by all handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondServiceError maps service errors to HTTP status codes: validation
// and overlap failures are client errors, missing entities are 404, and
// integration failures surface as server errors.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message})
		return
	}

	var oerr *service.OverlapError
	if errors.As(err, &oerr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: oerr.Message})
		return
	}

	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: nf.Error()})
		return
	}

	var ierr *service.IntegrationError
	if errors.As(err, &ierr) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: ierr.Message})
		return
	}

	if database.IsConnectionError(err) {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database unavailable"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

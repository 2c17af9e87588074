package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trackwerk-io/trackwerk-ce/internal/middleware"
	"github.com/trackwerk-io/trackwerk-ce/internal/service"
	"github.com/trackwerk-io/trackwerk-ce/internal/template"
)

// PageHandler serves the server-rendered pages.
type PageHandler struct {
	renderer  *template.Pongo2Renderer
	bookings  *service.BookingService
	projects  *service.ProjectService
	customers *service.CustomerService
}

func NewPageHandler(
	renderer *template.Pongo2Renderer,
	bookings *service.BookingService,
	projects *service.ProjectService,
	customers *service.CustomerService,
) *PageHandler {
	return &PageHandler{
		renderer:  renderer,
		bookings:  bookings,
		projects:  projects,
		customers: customers,
	}
}

func (h *PageHandler) LoginPage(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "login.pongo2", gin.H{
		"Title": "Sign in",
	})
}

// BookingsPage lists the user's bookings.
func (h *PageHandler) BookingsPage(c *gin.Context) {
	user := middleware.CurrentUser(c)
	bookings, err := h.bookings.List(c.Request.Context(), user)
	if err != nil {
		h.renderer.HTML(c, http.StatusInternalServerError, "error.pongo2", gin.H{"Error": err.Error()})
		return
	}
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.renderer.HTML(c, http.StatusInternalServerError, "error.pongo2", gin.H{"Error": err.Error()})
		return
	}
	h.renderer.HTML(c, http.StatusOK, "bookings.pongo2", gin.H{
		"Title":    "Time Bookings",
		"User":     user,
		"Bookings": bookings,
		"Projects": projects,
	})
}

// ProjectsPage lists projects with their customers.
func (h *PageHandler) ProjectsPage(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.renderer.HTML(c, http.StatusInternalServerError, "error.pongo2", gin.H{"Error": err.Error()})
		return
	}
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.renderer.HTML(c, http.StatusInternalServerError, "error.pongo2", gin.H{"Error": err.Error()})
		return
	}
	h.renderer.HTML(c, http.StatusOK, "projects.pongo2", gin.H{
		"Title":     "Projects",
		"User":      middleware.CurrentUser(c),
		"Projects":  projects,
		"Customers": customers,
	})
}

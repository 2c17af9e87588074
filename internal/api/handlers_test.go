package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackwerk-io/trackwerk-ce/internal/auth"
	"github.com/trackwerk-io/trackwerk-ce/internal/middleware"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
	"github.com/trackwerk-io/trackwerk-ce/internal/service"
	"github.com/trackwerk-io/trackwerk-ce/internal/ticketsystem"
)

type apiFixture struct {
	engine   *gin.Engine
	users    *repository.MemoryUserRepository
	projects *repository.MemoryProjectRepository
	token    string
	user     *models.User
}

// noClientFactory never resolves a client; API tests exercise local-only flows.
type noClientFactory struct{}

func (noClientFactory) ForTicketSystem(ts *models.TicketSystem) (ticketsystem.Client, error) {
	return nil, nil
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewMemoryUserRepository()
	customers := repository.NewMemoryCustomerRepository()
	activities := repository.NewMemoryActivityRepository()
	ticketSystems := repository.NewMemoryTicketSystemRepository()
	projects := repository.NewMemoryProjectRepository()
	assignments := repository.NewMemoryProjectActivityRepository()
	bookings := repository.NewMemoryBookingRepository()

	user := &models.User{Login: "alice", DisplayName: "Alice", ValidID: 1}
	require.NoError(t, user.SetPassword("secret"))
	require.NoError(t, users.Create(context.Background(), user))

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.GenerateToken(user.ID, user.Login)
	require.NoError(t, err)

	bookingService := service.NewBookingService(bookings, projects, activities, ticketSystems, noClientFactory{})
	customerService := service.NewCustomerService(customers)
	activityService := service.NewActivityService(activities)
	projectService := service.NewProjectService(projects, customers, ticketSystems, bookings)
	ticketSystemService := service.NewTicketSystemService(ticketSystems)
	assignmentService := service.NewProjectActivityService(assignments, projects, activities)
	statsService := service.NewStatsService(bookings)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, users)

	engine := gin.New()
	authHandler := NewAuthHandler(users, jwtManager)
	bookingHandler := NewBookingHandler(bookingService)
	customerHandler := NewCustomerHandler(customerService)
	activityHandler := NewActivityHandler(activityService)
	projectHandler := NewProjectHandler(projectService)
	ticketSystemHandler := NewTicketSystemHandler(ticketSystemService)
	assignmentHandler := NewProjectActivityHandler(assignmentService)
	statsHandler := NewStatsHandler(statsService)

	v1 := engine.Group("/api/v1")
	v1.POST("/auth/login", authHandler.Login)

	protected := v1.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/auth/me", authHandler.Me)
		protected.GET("/bookings", bookingHandler.ListBookings)
		protected.GET("/bookings/:id", bookingHandler.GetBooking)
		protected.POST("/bookings", bookingHandler.CreateBooking)
		protected.PATCH("/bookings/:id", bookingHandler.UpdateBooking)
		protected.DELETE("/bookings/:id", bookingHandler.DeleteBooking)
		protected.POST("/customers", customerHandler.CreateCustomer)
		protected.GET("/customers", customerHandler.ListCustomers)
		protected.POST("/activities", activityHandler.CreateActivity)
		protected.POST("/projects", projectHandler.CreateProject)
		protected.PATCH("/projects/:id", projectHandler.UpdateProject)
		protected.POST("/ticket-systems", ticketSystemHandler.CreateTicketSystem)
		protected.GET("/ticket-systems/:id", ticketSystemHandler.GetTicketSystem)
		protected.POST("/project-activities", assignmentHandler.AssignActivity)
		protected.GET("/stats/projects", statsHandler.ProjectStats)
		protected.GET("/stats/projects/export", statsHandler.ExportProjectStats)
	}

	return &apiFixture{
		engine:   engine,
		users:    users,
		projects: projects,
		token:    token,
		user:     user,
	}
}

func (f *apiFixture) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) seedProject(t *testing.T) int {
	t.Helper()
	w := f.request(t, http.MethodPost, "/api/v1/customers", gin.H{"name": "ACME"})
	require.Equal(t, http.StatusCreated, w.Code)
	var customer models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))

	w = f.request(t, http.MethodPost, "/api/v1/projects", gin.H{"name": "Website", "customerId": customer.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var project models.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	return project.ID
}

func TestLoginEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	t.Run("valid credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"login":"alice","password":"secret"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		f.engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := bytes.NewBufferString(`{"login":"alice","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		f.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	f := newAPIFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	f.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.request(t, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Login)
	// Password hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "pw")
}

func TestBookingEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	projectID := f.seedProject(t)

	t.Run("create and read back", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
			"projectId":    projectID,
			"startedAt":    "2026-03-02T10:00:00Z",
			"endedAt":      "2026-03-02T10:50:00Z",
			"ticketNumber": "ABC-123",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var booking models.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
		assert.Equal(t, 60, booking.DurationMinutes)

		w = f.request(t, http.MethodGet, "/api/v1/bookings", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []models.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	t.Run("validation maps to 400", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
			"projectId":    projectID,
			"startedAt":    "2026-03-03T11:00:00Z",
			"endedAt":      "2026-03-03T10:00:00Z",
			"ticketNumber": "ABC-123",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "endedAt must be after startedAt")
	})

	t.Run("overlap maps to 400", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
			"projectId":    projectID,
			"startedAt":    "2026-03-02T10:15:00Z",
			"endedAt":      "2026-03-02T10:30:00Z",
			"ticketNumber": "ABC-123",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "overlap")
	})

	t.Run("unknown project maps to 404", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
			"projectId":    9999,
			"startedAt":    "2026-03-04T10:00:00Z",
			"endedAt":      "2026-03-04T11:00:00Z",
			"ticketNumber": "ABC-123",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update and delete", func(t *testing.T) {
		w := f.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
			"projectId":    projectID,
			"startedAt":    "2026-03-05T10:00:00Z",
			"endedAt":      "2026-03-05T11:00:00Z",
			"ticketNumber": "ABC-123",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var booking models.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))

		w = f.request(t, http.MethodPatch, "/api/v1/bookings/"+itoa(booking.ID), gin.H{
			"ticketNumber": "XYZ-9",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var updated models.BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.Equal(t, "XYZ-9", updated.TicketNumber)

		w = f.request(t, http.MethodDelete, "/api/v1/bookings/"+itoa(booking.ID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = f.request(t, http.MethodGet, "/api/v1/bookings/"+itoa(booking.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/bookings/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTicketSystemSecretNotExposed(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(t, http.MethodPost, "/api/v1/ticket-systems", gin.H{
		"name":   "Company Jira",
		"type":   "jira",
		"url":    "https://example.atlassian.net",
		"secret": "super-secret-token",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "super-secret-token")

	var ts models.TicketSystem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ts))
	w = f.request(t, http.MethodGet, "/api/v1/ticket-systems/"+itoa(ts.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "super-secret-token")
}

func TestStatsEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	projectID := f.seedProject(t)

	w := f.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"projectId":    projectID,
		"startedAt":    "2026-03-02T10:00:00Z",
		"endedAt":      "2026-03-02T11:30:00Z",
		"ticketNumber": "ABC-123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("json report", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/stats/projects?from=2026-03-01&to=2026-03-31", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var stats []models.ProjectStat
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		require.Len(t, stats, 1)
		assert.Equal(t, 90, stats[0].Minutes)
	})

	t.Run("missing range maps to 400", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/stats/projects", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("xlsx export", func(t *testing.T) {
		w := f.request(t, http.MethodGet, "/api/v1/stats/projects/export?from=2026-03-01&to=2026-03-31", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "project-stats_2026-03-01_2026-03-31.xlsx")
		assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
		assert.NotEmpty(t, w.Body.Bytes())
	})
}

func TestProjectUpdateNullClearsTicketSystem(t *testing.T) {
	f := newAPIFixture(t)

	w := f.request(t, http.MethodPost, "/api/v1/ticket-systems", gin.H{"name": "Jira", "type": "jira"})
	require.Equal(t, http.StatusCreated, w.Code)
	var ts models.TicketSystem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ts))

	w = f.request(t, http.MethodPost, "/api/v1/customers", gin.H{"name": "ACME"})
	require.Equal(t, http.StatusCreated, w.Code)
	var customer models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))

	w = f.request(t, http.MethodPost, "/api/v1/projects", gin.H{
		"name":           "Website",
		"customerId":     customer.ID,
		"ticketSystemId": ts.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var project models.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	require.NotNil(t, project.TicketSystemID)

	// An explicit null detaches the ticket system; an absent key would not.
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/projects/"+itoa(project.ID), bytes.NewBufferString(`{"ticketSystemId": null}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	w = httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.ProjectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Nil(t, updated.TicketSystemID)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

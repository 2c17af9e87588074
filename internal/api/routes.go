package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trackwerk-io/trackwerk-ce/internal/auth"
	"github.com/trackwerk-io/trackwerk-ce/internal/config"
	"github.com/trackwerk-io/trackwerk-ce/internal/middleware"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
	"github.com/trackwerk-io/trackwerk-ce/internal/service"
	"github.com/trackwerk-io/trackwerk-ce/internal/template"
	"github.com/trackwerk-io/trackwerk-ce/internal/ticketsystem"
)

type Router struct {
	engine         *gin.Engine
	db             *sql.DB
	cfg            *config.Config
	jwtManager     *auth.JWTManager
	authMiddleware *middleware.AuthMiddleware

	authHandler            *AuthHandler
	bookingHandler         *BookingHandler
	customerHandler        *CustomerHandler
	activityHandler        *ActivityHandler
	projectHandler         *ProjectHandler
	ticketSystemHandler    *TicketSystemHandler
	projectActivityHandler *ProjectActivityHandler
	statsHandler           *StatsHandler
	pageHandler            *PageHandler
}

func NewRouter(db *sql.DB, cfg *config.Config) *Router {
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize repositories
	customerRepo := repository.NewDBCustomerRepository(db)
	activityRepo := repository.NewDBActivityRepository(db)
	ticketSystemRepo := repository.NewDBTicketSystemRepository(db)
	projectRepo := repository.NewDBProjectRepository(db)
	projectActivityRepo := repository.NewDBProjectActivityRepository(db)
	bookingRepo := repository.NewDBBookingRepository(db)
	userRepo := repository.NewDBUserRepository(db)

	// Initialize services
	clientFactory := ticketsystem.NewClientFactory()
	bookingService := service.NewBookingService(bookingRepo, projectRepo, activityRepo, ticketSystemRepo, clientFactory)
	customerService := service.NewCustomerService(customerRepo)
	activityService := service.NewActivityService(activityRepo)
	projectService := service.NewProjectService(projectRepo, customerRepo, ticketSystemRepo, bookingRepo)
	ticketSystemService := service.NewTicketSystemService(ticketSystemRepo)
	projectActivityService := service.NewProjectActivityService(projectActivityRepo, projectRepo, activityRepo)
	statsService := service.NewStatsService(bookingRepo)

	renderer := template.NewPongo2Renderer(cfg.Templates.Dir, cfg.Templates.Debug)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Router{
		engine:         gin.Default(),
		db:             db,
		cfg:            cfg,
		jwtManager:     jwtManager,
		authMiddleware: middleware.NewAuthMiddleware(jwtManager, userRepo),

		authHandler:            NewAuthHandler(userRepo, jwtManager),
		bookingHandler:         NewBookingHandler(bookingService),
		customerHandler:        NewCustomerHandler(customerService),
		activityHandler:        NewActivityHandler(activityService),
		projectHandler:         NewProjectHandler(projectService),
		ticketSystemHandler:    NewTicketSystemHandler(ticketSystemService),
		projectActivityHandler: NewProjectActivityHandler(projectActivityService),
		statsHandler:           NewStatsHandler(statsService),
		pageHandler:            NewPageHandler(renderer, bookingService, projectService, customerService),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestID())

	if r.cfg.Metrics.Enabled {
		metrics := middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)
		r.engine.Use(metrics.Handler())
		r.engine.GET(r.cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.engine.GET("/health", r.healthCheck)

	// Server-rendered pages
	r.engine.GET("/login", r.pageHandler.LoginPage)
	pages := r.engine.Group("/")
	pages.Use(r.authMiddleware.RequireAuth())
	{
		pages.GET("/", r.pageHandler.BookingsPage)
		pages.GET("/bookings", r.pageHandler.BookingsPage)
		pages.GET("/projects", r.pageHandler.ProjectsPage)
	}

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", r.authHandler.Login)
			authGroup.POST("/logout", r.authHandler.Logout)
		}

		authProtected := v1.Group("/auth")
		authProtected.Use(r.authMiddleware.RequireAuth())
		{
			authProtected.GET("/me", r.authHandler.Me)
		}

		bookingGroup := v1.Group("/bookings")
		bookingGroup.Use(r.authMiddleware.RequireAuth())
		{
			bookingGroup.GET("", r.bookingHandler.ListBookings)
			bookingGroup.GET("/:id", r.bookingHandler.GetBooking)
			bookingGroup.POST("", r.bookingHandler.CreateBooking)
			bookingGroup.PATCH("/:id", r.bookingHandler.UpdateBooking)
			bookingGroup.DELETE("/:id", r.bookingHandler.DeleteBooking)
		}

		customerGroup := v1.Group("/customers")
		customerGroup.Use(r.authMiddleware.RequireAuth())
		{
			customerGroup.GET("", r.customerHandler.ListCustomers)
			customerGroup.GET("/:id", r.customerHandler.GetCustomer)
			customerGroup.POST("", r.customerHandler.CreateCustomer)
			customerGroup.PUT("/:id", r.customerHandler.UpdateCustomer)
			customerGroup.DELETE("/:id", r.customerHandler.DeleteCustomer)
		}

		activityGroup := v1.Group("/activities")
		activityGroup.Use(r.authMiddleware.RequireAuth())
		{
			activityGroup.GET("", r.activityHandler.ListActivities)
			activityGroup.GET("/:id", r.activityHandler.GetActivity)
			activityGroup.POST("", r.activityHandler.CreateActivity)
			activityGroup.PUT("/:id", r.activityHandler.UpdateActivity)
			activityGroup.DELETE("/:id", r.activityHandler.DeleteActivity)
		}

		projectGroup := v1.Group("/projects")
		projectGroup.Use(r.authMiddleware.RequireAuth())
		{
			projectGroup.GET("", r.projectHandler.ListProjects)
			projectGroup.GET("/:id", r.projectHandler.GetProject)
			projectGroup.POST("", r.projectHandler.CreateProject)
			projectGroup.PATCH("/:id", r.projectHandler.UpdateProject)
			projectGroup.DELETE("/:id", r.projectHandler.DeleteProject)
		}

		ticketSystemGroup := v1.Group("/ticket-systems")
		ticketSystemGroup.Use(r.authMiddleware.RequireAuth())
		{
			ticketSystemGroup.GET("", r.ticketSystemHandler.ListTicketSystems)
			ticketSystemGroup.GET("/:id", r.ticketSystemHandler.GetTicketSystem)
			ticketSystemGroup.POST("", r.ticketSystemHandler.CreateTicketSystem)
			ticketSystemGroup.PATCH("/:id", r.ticketSystemHandler.UpdateTicketSystem)
			ticketSystemGroup.DELETE("/:id", r.ticketSystemHandler.DeleteTicketSystem)
		}

		assignmentGroup := v1.Group("/project-activities")
		assignmentGroup.Use(r.authMiddleware.RequireAuth())
		{
			assignmentGroup.GET("", r.projectActivityHandler.ListProjectActivities)
			assignmentGroup.POST("", r.projectActivityHandler.AssignActivity)
			assignmentGroup.DELETE("/:id", r.projectActivityHandler.UnassignActivity)
		}

		statsGroup := v1.Group("/stats")
		statsGroup.Use(r.authMiddleware.RequireAuth())
		{
			statsGroup.GET("/projects", r.statsHandler.ProjectStats)
			statsGroup.GET("/projects/export", r.statsHandler.ExportProjectStats)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

func (r *Router) healthCheck(c *gin.Context) {
	if err := r.db.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

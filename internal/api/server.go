package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/eonix/collab/internal/annotations"
	"github.com/eonix/collab/internal/directory"
	"github.com/eonix/collab/internal/issues"
)

// Server exposes the collaboration stores over HTTP for the dashboard.
type Server struct {
	echo *echo.Echo
	port int

	directory   *directory.Directory
	invites     *directory.InviteService
	annotations *annotations.Store
	issues      *issues.Tracker
}

// Options carries the wired dependencies and tuning knobs for the server.
type Options struct {
	Port               int
	Directory          *directory.Directory
	Invites            *directory.InviteService
	Annotations        *annotations.Store
	Issues             *issues.Tracker
	FlushRatePerMinute int
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:        e,
		port:        opts.Port,
		directory:   opts.Directory,
		invites:     opts.Invites,
		annotations: opts.Annotations,
		issues:      opts.Issues,
	}

	server.setupRoutes(opts.FlushRatePerMinute)

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes(flushRatePerMinute int) {
	// Health check endpoint
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 group
	v1 := s.echo.Group("/api/v1")

	// Directory
	v1.GET("/directory/members", s.listMembers)
	v1.GET("/directory/current-user", s.getCurrentUser)
	v1.POST("/directory/invites", s.createInvite)

	// Mention composition
	v1.GET("/mentions/candidates", s.mentionCandidates)

	// Canvas comments
	v1.GET("/comments", s.listComments)
	v1.POST("/comments", s.createComment)
	v1.POST("/comments/:id/replies", s.createReply)
	v1.POST("/comments/:id/resolve", s.resolveComment)
	v1.DELETE("/comments/:id", s.deleteComment)

	// Canvas UI-mode state
	v1.GET("/canvas/state", s.getCanvasState)
	v1.PUT("/canvas/active-comment", s.setActiveComment)
	v1.POST("/canvas/adding-mode/toggle", s.toggleAddingComment)

	// Pending notification queue. Flushing hands payloads to the external
	// delivery system, so it gets a rate limiter.
	if flushRatePerMinute <= 0 {
		flushRatePerMinute = 30
	}
	// Burst is set explicitly: the per-second rate is usually below 1 and the
	// store's derived burst would round down to zero, denying everything.
	flushLimiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Limit(float64(flushRatePerMinute) / 60.0),
			Burst: flushRatePerMinute,
		},
	))
	v1.POST("/webhooks/flush", s.flushWebhooks, flushLimiter)
	v1.GET("/webhooks/pending", s.pendingWebhooks)

	// Issues
	v1.GET("/issues", s.listIssues)
	v1.POST("/issues", s.createIssue)
	v1.GET("/issues/:id", s.getIssue)
	v1.PUT("/issues/:id/status", s.updateIssueStatus)
	v1.POST("/issues/:id/comments", s.addIssueComment)
	v1.GET("/issues/modal", s.getIssueModal)
	v1.POST("/issues/modal/open", s.openIssueModal)
	v1.POST("/issues/modal/close", s.closeIssueModal)
}

// Start begins the API server
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(fmt.Sprintf(":%d", s.port)); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("shutting down the server")
		}
	}()
	log.Info().Int("port", s.port).Msg("collab API listening")

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying http.Handler for tests.
func (s *Server) Handler() http.Handler { return s.echo }

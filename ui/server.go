// Package ui exposes the engine over HTTP: a gin JSON API for tournament
// play and a chi ops surface for health, transcripts, and review reports.
package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"gauntlet/app"
	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
	"gauntlet/internal"
)

// ServerOptions bounds how the API evaluates rounds.
type ServerOptions struct {
	// RoundTimeout caps one round evaluation. Zero means no deadline.
	RoundTimeout time.Duration
	// MaxInFlight bounds concurrent round evaluations across all
	// tournaments. Zero means unbounded.
	MaxInFlight int
}

// Server is the submission-facing JSON API. External challengers and
// defenders drive tournaments through it one round at a time.
type Server struct {
	router       *gin.Engine
	service      *app.TournamentService
	budget       *app.Budget
	roundTimeout time.Duration
	sem          *semaphore.Weighted
	log          *internal.Logger
}

// NewServer wires the API routes. Mode should be set via gin.SetMode
// before calling.
func NewServer(service *app.TournamentService, budget *app.Budget, opts ServerOptions, log *internal.Logger) *Server {
	s := &Server{
		router:       gin.New(),
		service:      service,
		budget:       budget,
		roundTimeout: opts.RoundTimeout,
		log:          log,
	}
	if opts.MaxInFlight > 0 {
		s.sem = semaphore.NewWeighted(int64(opts.MaxInFlight))
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

// roundContext applies the in-flight bound and round deadline. The returned
// release func must be called when evaluation finishes.
func (s *Server) roundContext(parent context.Context) (context.Context, func(), error) {
	ctx := parent
	cancel := func() {}
	if s.roundTimeout > 0 {
		ctx, cancel = context.WithTimeout(parent, s.roundTimeout)
	}
	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			cancel()
			return nil, nil, err
		}
		release := cancel
		return ctx, func() { s.sem.Release(1); release() }, nil
	}
	return ctx, cancel, nil
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.POST("/tournaments", s.handleOpen)
	api.GET("/tournaments/:id", s.handleGet)
	api.POST("/tournaments/:id/rounds", s.handlePlayRound)
	api.POST("/tournaments/:id/timeout", s.handleTimeout)
	api.POST("/tournaments/:id/cancel", s.handleCancel)
	api.GET("/budget", s.handleBudget)
}

// Start runs the server on addr, blocking until it exits.
func (s *Server) Start(addr string) error {
	s.log.Info("submission API listening on %s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

type quantityRequest struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type openRequest struct {
	Claim          string                     `json:"claim" binding:"required"`
	Parameters     map[string]quantityRequest `json:"parameters"`
	SafetyCritical bool                       `json:"safety_critical"`
}

func (s *Server) handleOpen(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h := hypothesis.Hypothesis{
		ID:             core.NewHypothesisID(),
		Claim:          req.Claim,
		Parameters:     make(map[string]hypothesis.Quantity, len(req.Parameters)),
		Stage:          hypothesis.StageGeneration,
		SafetyCritical: req.SafetyCritical,
	}
	for name, q := range req.Parameters {
		h.Parameters[name] = hypothesis.Quantity{Value: q.Value, Unit: q.Unit}
	}

	t, err := s.service.Open(c.Request.Context(), h)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleGet(c *gin.Context) {
	id, err := core.ParseTournamentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tournament id"})
		return
	}
	t, err := s.service.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type playRoundRequest struct {
	Critique exchange.Critique `json:"critique" binding:"required"`
	Defense  exchange.Defense  `json:"defense" binding:"required"`
}

func (s *Server) handlePlayRound(c *gin.Context) {
	id, err := core.ParseTournamentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tournament id"})
		return
	}
	var req playRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Critique.ID.IsZero() {
		req.Critique.ID = core.NewCritiqueID()
	}
	if req.Defense.ID.IsZero() {
		req.Defense.ID = core.NewDefenseID()
	}
	if req.Defense.CritiqueID.IsZero() {
		req.Defense.CritiqueID = req.Critique.ID
	}
	now := core.Now()
	if req.Critique.SubmittedAt.IsZero() {
		req.Critique.SubmittedAt = now
	}
	if req.Defense.SubmittedAt.IsZero() {
		req.Defense.SubmittedAt = now
	}

	ctx, release, err := s.roundContext(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "round evaluation capacity exhausted"})
		return
	}
	defer release()

	result, err := s.service.PlayRound(ctx, id, req.Critique, req.Defense)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type timeoutRequest struct {
	Party string `json:"party" binding:"required"`
}

// handleTimeout records a forfeited round when one party misses the
// submission deadline.
func (s *Server) handleTimeout(c *gin.Context) {
	id, err := core.ParseTournamentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tournament id"})
		return
	}
	var req timeoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Party != "challenger" && req.Party != "defender" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party must be challenger or defender"})
		return
	}
	ctx, release, err := s.roundContext(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "round evaluation capacity exhausted"})
		return
	}
	defer release()

	result, err := s.service.PlayTimedOut(ctx, id, req.Party)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCancel(c *gin.Context) {
	id, err := core.ParseTournamentID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tournament id"})
		return
	}
	term, err := s.service.Cancel(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, term)
}

func (s *Server) handleBudget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"remaining": s.budget.Remaining(),
		"as_of":     time.Now().UTC(),
	})
}

func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case core.IsMalformedInput(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrTournamentTerminal),
		errors.Is(err, core.ErrRoundOutOfOrder):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

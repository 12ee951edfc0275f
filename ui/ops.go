package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gauntlet/adapters/report"
	"gauntlet/domain/core"
	"gauntlet/domain/tournament"
	"gauntlet/internal"
	"gauntlet/internal/oversight"
	"gauntlet/ports"
)

// App is the operator-facing surface: health, transcripts, batch summaries,
// and the cross-hypothesis consistency report. Read-only; all writes go
// through the submission API.
type App struct {
	router   *chi.Mux
	repo     ports.TournamentRepository
	analyzer *oversight.Analyzer
	log      *internal.Logger
}

// NewApp builds the ops router over a tournament repository.
func NewApp(repo ports.TournamentRepository, log *internal.Logger) *App {
	a := &App{
		router:   chi.NewRouter(),
		repo:     repo,
		analyzer: oversight.NewAnalyzer(),
		log:      log,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)
	a.router.Get("/tournaments", a.handleList)
	a.router.Get("/tournaments/{id}/transcript", a.handleTranscript)
	a.router.Get("/tournaments/{id}/transcript.md", a.handleTranscriptMarkdown)
	a.router.Get("/reports/summary", a.handleSummary)
	a.router.Get("/reports/consistency", a.handleConsistency)
	a.router.Get("/reports/scoreboard.xlsx", a.handleScoreboard)
}

// Start runs the ops server on addr, blocking until it exits.
func (a *App) Start(addr string) error {
	a.log.Info("ops surface listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Handler exposes the router for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleList(w http.ResponseWriter, r *http.Request) {
	state := tournament.State(r.URL.Query().Get("state"))
	ts, err := a.repo.List(r.Context(), state, 200)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (a *App) handleTranscript(w http.ResponseWriter, r *http.Request) {
	t, ok := a.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(report.TranscriptHTML(t))
}

func (a *App) handleTranscriptMarkdown(w http.ResponseWriter, r *http.Request) {
	t, ok := a.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(report.Transcript(t)))
}

func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	ts, err := a.repo.List(r.Context(), "", 1000)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(ts))
}

// handleConsistency runs the meta-analysis over every stored tournament:
// parameter outliers, repeated defect categories, and the root-cause hints
// they imply.
func (a *App) handleConsistency(w http.ResponseWriter, r *http.Request) {
	ts, err := a.repo.List(r.Context(), "", 1000)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"parameter_outliers": a.analyzer.ParameterOutliers(ts),
		"defect_patterns":    a.analyzer.DefectPatterns(ts),
		"hints":              a.analyzer.Hints(ts),
	})
}

func (a *App) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	ts, err := a.repo.List(r.Context(), "", 1000)
	if err != nil {
		a.fail(w, err)
		return
	}
	f, err := report.Scoreboard(ts)
	if err != nil {
		a.fail(w, err)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="scoreboard.xlsx"`)
	if err := f.Write(w); err != nil {
		a.log.Error("scoreboard write: %v", err)
	}
}

func (a *App) lookup(w http.ResponseWriter, r *http.Request) (*tournament.Tournament, bool) {
	id, err := core.ParseTournamentID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid tournament id", http.StatusBadRequest)
		return nil, false
	}
	t, err := a.repo.Get(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			a.fail(w, err)
		}
		return nil, false
	}
	return t, true
}

func (a *App) fail(w http.ResponseWriter, err error) {
	a.log.Error("ops request failed: %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ABOUTME: Web UI server with embedded templates
// ABOUTME: Provides a read-only proposal dashboard at localhost:8080
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harperreed/pitch/logging"
	"github.com/harperreed/pitch/models"
	"github.com/harperreed/pitch/proposals"
	"github.com/harperreed/pitch/viz"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	svc       *proposals.Service
	templates *template.Template
	generator *viz.GraphGenerator
	logger    *log.Logger
}

func NewServer(svc *proposals.Service, logger *log.Logger) (*Server, error) {
	funcMap := template.FuncMap{
		"money": models.FormatRange,
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"add": func(a, b int) int {
			return a + b
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		svc:       svc,
		templates: tmpl,
		generator: viz.NewGraphGenerator(svc),
		logger:    logging.OrDiscard(logger),
	}, nil
}

// Handler returns the routes without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /proposals/{id}", s.handleProposal)

	// Partials for HTMX
	mux.HandleFunc("GET /partials/graph", s.handleGraphPartial)
	return mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type filterLink struct {
	Label  string
	Status string
	Active bool
}

type proposalRow struct {
	ID       string
	Company  string
	Status   string
	StatusID string
	Priority string
	Low      float64
	High     float64
	Created  time.Time
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	var status models.ProposalStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseStatus(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status = parsed
	}

	d, err := s.svc.Dashboard(r.Context(), status)
	if err != nil {
		s.renderError(w, err, "Failed to load proposals")
		return
	}

	var filters []filterLink
	for _, f := range proposals.Filters {
		filters = append(filters, filterLink{Label: f.Label, Status: string(f.Status), Active: f.Status == status})
	}

	var rows []proposalRow
	for _, p := range d.Proposals {
		rows = append(rows, proposalRow{
			ID:       p.ID,
			Company:  p.CompanyName(),
			Status:   p.Status.Label(),
			StatusID: string(p.Status),
			Priority: p.Priority.Label(),
			Low:      p.TotalEstimateLow,
			High:     p.TotalEstimateHigh,
			Created:  p.CreatedAt,
		})
	}

	data := map[string]any{
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
		"Stats":           d.Stats,
		"Filters":         filters,
		"Proposals":       rows,
		"EmptyMessage":    d.Filter.EmptyMessage(),
	}

	s.renderTemplate(w, "layout.html", data)
}

type tabLink struct {
	Name   string
	Label  string
	Active bool
}

func (s *Server) handleProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, proposals.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.renderError(w, err, "Failed to load proposal")
		return
	}

	detail := proposals.NewDetail(p)
	if raw := r.URL.Query().Get("tab"); raw != "" {
		tab, err := proposals.ParseTab(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		detail.Tab = tab
	}

	var tabs []tabLink
	for _, t := range proposals.Tabs {
		tabs = append(tabs, tabLink{Name: t.String(), Label: t.Label(), Active: t == detail.Tab})
	}

	data := map[string]any{
		"Title":           p.CompanyName(),
		"ContentTemplate": "proposal-content",
		"Proposal":        p,
		"Company":         p.CompanyName(),
		"Contact":         proposals.ContactLine(p),
		"Tabs":            tabs,
		"Tab":             detail.Tab.String(),
		"Pricing":         detail.Pricing(),
		"Recipient":       detail.Recipient(),
		"CanMarkSent":     detail.CanMarkSent(),
		"CanOutcome":      detail.CanRecordOutcome(),
	}

	s.renderTemplate(w, "layout.html", data)
}

func (s *Server) handleGraphPartial(w http.ResponseWriter, r *http.Request) {
	graphType := r.URL.Query().Get("type")
	id := r.URL.Query().Get("id")

	var dot string
	var err error

	switch graphType {
	case "stakeholders":
		if id == "" {
			http.Error(w, "Proposal ID required", http.StatusBadRequest)
			return
		}
		dot, err = s.generator.GenerateStakeholderGraph(r.Context(), id)
	case "pipeline":
		dot, err = s.generator.GeneratePipelineGraph(r.Context())
	default:
		http.Error(w, "Invalid graph type", http.StatusBadRequest)
		return
	}

	if err != nil {
		s.renderError(w, err, "Failed to generate graph")
		return
	}

	s.renderTemplate(w, "graph.html", map[string]any{"DOT": dot})
}

// renderError shows the same notice text the other surfaces use.
func (s *Server) renderError(w http.ResponseWriter, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, proposals.ErrNotSignedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, proposals.ErrNotFound):
		status = http.StatusNotFound
	}
	s.logger.Warn("request failed", "err", err)
	http.Error(w, proposals.NoticeFor(err, fallback).Message, status)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", "template", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

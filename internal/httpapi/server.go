package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/healthmon/internal/domain"
	apimw "github.com/hamed0406/healthmon/internal/httpapi/middleware"
	"github.com/hamed0406/healthmon/internal/report"
	"github.com/hamed0406/healthmon/internal/repo"
)

// Server exposes the latest report over HTTP and streams new ones over a
// websocket. It is read-only: targets are fixed at startup.
type Server struct {
	Logger  *zap.Logger
	Reports repo.ReportStore
	Hub     *Hub
	Text    *report.Renderer
}

func NewServer(l *zap.Logger, rs repo.ReportStore, hub *Hub) *Server {
	return &Server{Logger: l, Reports: rs, Hub: hub, Text: report.Plain()}
}

// Publish stores r as the latest report and pushes it to subscribers.
func (s *Server) Publish(ctx context.Context, r domain.Report) {
	if err := s.Reports.Save(ctx, r); err != nil {
		s.Logger.Warn("report_save_error", zap.String("report_id", r.ID), zap.Error(err))
	}
	if s.Hub != nil {
		s.Hub.Broadcast(r)
	}
}

// Router builds the handler. reqPerMin <= 0 disables rate limiting; an
// empty keys list disables authentication.
func (s *Server) Router(keys []string, reqPerMin, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(reqPerMin, burst))
		r.Use(apimw.RequireKey(keys))
		r.Get("/api/report/latest", s.handleLatestJSON)
		r.Get("/api/report/latest.txt", s.handleLatestText)
		if s.Hub != nil {
			r.Get("/api/report/stream", s.Hub.HandleConnect)
		}
	})

	return r
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) (domain.Report, bool) {
	rep, ok, err := s.Reports.Latest(r.Context())
	if err != nil {
		s.Logger.Warn("report_latest_error", zap.Error(err))
		http.Error(w, "report unavailable", http.StatusInternalServerError)
		return domain.Report{}, false
	}
	if !ok {
		http.Error(w, "no report yet", http.StatusNotFound)
		return domain.Report{}, false
	}
	return rep, true
}

func (s *Server) handleLatestJSON(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.latest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rep)
}

func (s *Server) handleLatestText(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.latest(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s.Text.Render(rep)))
}

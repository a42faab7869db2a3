package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"vantage/internal/ports"
	"vantage/internal/services/refresh"
	"vantage/internal/services/signals"
)

// Server exposes the orchestration trigger and the signal feed to
// presentation-layer collaborators. Everything heavier (auth, rendering,
// CRUD) lives outside this service.
type Server struct {
	refresher *refresh.Service
	feed      *signals.Feed
	jobs      ports.JobRepository
	log       *logrus.Logger
}

func New(refresher *refresh.Service, feed *signals.Feed, jobs ports.JobRepository, log *logrus.Logger) *Server {
	return &Server{refresher: refresher, feed: feed, jobs: jobs, log: log}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealthz)
	r.Route("/companies/{companyID}", func(r chi.Router) {
		r.Post("/refresh", s.handleRefresh)
		r.Get("/signals", s.handleListSignals)
		r.Get("/signals/unread", s.handleUnreadCounts)
		r.Post("/signals/read", s.handleMarkRead)
		r.Get("/news", s.handleNews)
	})
	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRefresh triggers one refresh cycle. force=true disables snapshot
// reuse and requires live AI enrichment; async=true queues a background
// job instead of processing inline.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	force := r.URL.Query().Get("force") == "true"

	if r.URL.Query().Get("async") == "true" {
		jobID, err := s.jobs.Enqueue(r.Context(), companyID, force)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"job_id": jobID})
		return
	}

	result, err := s.refresher.Refresh(r.Context(), companyID, force)
	if err != nil {
		if errors.Is(err, refresh.ErrCompanyNotFound) {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")
	category := r.URL.Query().Get("category")
	list, err := s.feed.List(r.Context(), companyID, category)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"signals": list})
}

func (s *Server) handleUnreadCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.feed.CountUnread(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := s.feed.MarkAllRead(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": n})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	news, err := s.feed.CollectNews(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"news": news})
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	if code >= 500 {
		s.log.WithField("error", err).Error("request failed")
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

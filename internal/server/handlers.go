package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ppiankov/reviewlens/internal/insight"
	"github.com/ppiankov/reviewlens/internal/model"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	names := s.pipeline.Names()

	company := r.URL.Query().Get("company")
	if company == "" && len(names) > 0 {
		company = names[0]
	}

	view := dashboardView{Names: names, Selected: company}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if company != "" {
		report, err := s.pipeline.Build(r.Context(), company)
		if err != nil {
			if !errors.Is(err, insight.ErrCompanyNotFound) {
				s.fail(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNotFound)
			view.NotFound = true
		} else {
			view.setReport(report)
		}
	}

	if err := s.page.render(w, view); err != nil {
		s.logger.Error("render dashboard", "error", err)
	}
}

func (s *Server) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildReport(w, r)
	if !ok {
		return
	}

	svg, err := s.pipeline.WordCloudSVG(r.Context(), report)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if svg == nil {
		http.Error(w, "no text for word cloud", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(svg)
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"companies": s.pipeline.Names(),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, ok := s.buildReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := s.pipeline.Dataset()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"companies":   len(data.Companies),
		"reviews":     len(data.Reviews),
		"fingerprint": data.Fingerprint,
	})
}

// buildReport resolves the company query parameter, writing the error
// response itself when it cannot
func (s *Server) buildReport(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	company := r.URL.Query().Get("company")
	if company == "" {
		writeError(w, http.StatusBadRequest, "missing company parameter")
		return nil, false
	}

	report, err := s.pipeline.Build(r.Context(), company)
	if errors.Is(err, insight.ErrCompanyNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}

	return report, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		return
	}
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

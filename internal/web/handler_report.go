package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/depositdefender/internal/report"
)

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.service.ListReports(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// handleGenerateReport accepts optional report.Options; an empty body uses
// the defaults.
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	opts := report.DefaultOptions()
	if err := decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	rep, err := s.service.GenerateReport(r.Context(), chi.URLParam(r, "id"), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReport(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.service.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBlob(w, "application/pdf", rep.Filename, rep.Data)
}

type shareResponse struct {
	URL       string `json:"url"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	MaxAccess int    `json:"maxAccess"`
}

func (s *Server) handleShareReport(w http.ResponseWriter, r *http.Request) {
	grant, err := s.service.ShareReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shareResponse{
		URL:       "/share/" + grant.Token,
		Token:     grant.Token,
		ExpiresAt: grant.Link.ExpiresAt.Format(time.RFC3339),
		MaxAccess: grant.Link.MaxAccess,
	})
}

// handleOpenShare is the public entry point for a shared report. Every
// successful request counts against the link's access allowance.
func (s *Server) handleOpenShare(w http.ResponseWriter, r *http.Request) {
	rep, _, err := s.service.OpenShare(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Cache-Control", "no-store")
	h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", rep.Filename))
	_, _ = w.Write(rep.Data)
}

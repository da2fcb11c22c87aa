package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/depositdefender/internal/domain"
)

// date accepts either a calendar date (2006-01-02) or an RFC 3339 timestamp.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (d *date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

type propertyRequest struct {
	Address         *string `json:"address"`
	Unit            *string `json:"unit"`
	LandlordName    *string `json:"landlordName"`
	LandlordContact *string `json:"landlordContact"`
	TenantName      *string `json:"tenantName"`
	TenantContact   *string `json:"tenantContact"`
	LeaseStartDate  *date   `json:"leaseStartDate"`
	LeaseEndDate    *date   `json:"leaseEndDate"`
	MoveOutDate     *date   `json:"moveOutDate"`
}

func (p propertyRequest) patch() domain.PropertyPatch {
	return domain.PropertyPatch{
		Address:         p.Address,
		Unit:            p.Unit,
		LandlordName:    p.LandlordName,
		LandlordContact: p.LandlordContact,
		TenantName:      p.TenantName,
		TenantContact:   p.TenantContact,
		LeaseStartDate:  p.LeaseStartDate.ptr(),
		LeaseEndDate:    p.LeaseEndDate.ptr(),
		MoveOutDate:     p.MoveOutDate.ptr(),
	}
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.service.ListProperties(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var p domain.Property
	req.patch().Apply(&p)

	created, err := s.service.CreateProperty(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.service.UpdateProperty(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteProperty(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListInspections(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListInspections(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type titleRequest struct {
	Title string `json:"title"`
}

const maxTitleLen = 200

func (t titleRequest) validate() error {
	if len(strings.TrimSpace(t.Title)) > maxTitleLen {
		return fmt.Errorf("title too long: %w", domain.ErrValidation)
	}
	return nil
}

func (s *Server) handleStartInspection(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.service.StartInspection(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(req.Title))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.StorageStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

package web

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/depositdefender/internal/domain"
	"github.com/vbonduro/depositdefender/internal/imaging"
)

// maxUploadBody leaves room for multipart framing around a maximum-size image.
const maxUploadBody = imaging.MaxUploadSize + 1<<20

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		s.writeError(w, r, fmt.Errorf("failed to parse form: %w", domain.ErrValidation))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("image file required: %w", domain.ErrValidation))
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "item_id", itemID, "error", err)
		s.writeError(w, r, err)
		return
	}

	photo, err := s.service.AttachPhoto(r.Context(), itemID, imageData, header.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.thumbs.Add(photo.ID, photo.Thumbnail)
	writeJSON(w, http.StatusCreated, photo)
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := s.service.ListPhotos(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := s.service.Photo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.DeletePhoto(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.thumbs.Remove(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePhotoImage(w http.ResponseWriter, r *http.Request) {
	photo, err := s.service.Photo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBlob(w, "image/jpeg", "", photo.Image)
}

func (s *Server) handlePhotoWatermarked(w http.ResponseWriter, r *http.Request) {
	photo, err := s.service.Photo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBlob(w, "image/jpeg", "", photo.Watermarked)
}

// handlePhotoThumbnail serves thumbnails from the LRU cache. Photos are
// immutable so cached entries never go stale; deletes evict them.
func (s *Server) handlePhotoThumbnail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if thumb, ok := s.thumbs.Get(id); ok {
		if s.metrics != nil {
			s.metrics.CacheHit()
		}
		writeBlob(w, "image/jpeg", "", thumb)
		return
	}
	if s.metrics != nil {
		s.metrics.CacheMiss()
	}

	photo, err := s.service.Photo(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.thumbs.Add(id, photo.Thumbnail)
	writeBlob(w, "image/jpeg", "", photo.Thumbnail)
}

func (s *Server) handleAssessPhoto(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.AssessItemPhoto(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/acrispino/gemini-vision/internal/imagelib"
)

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	images, err := s.service.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list images", http.StatusInternalServerError)
		s.logger.Error("list images failed", "error", err)
		return
	}

	data := map[string]any{"ActiveNav": "gallery", "Images": images}
	if err := s.renderPage(w, data, "base.html", "pages/gallery.html"); err != nil {
		s.logger.Error("render gallery page failed", "error", err)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.service.History(r.Context())
	if err != nil {
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		s.logger.Error("load history failed", "error", err)
		return
	}

	data := map[string]any{"ActiveNav": "history", "Analyses": analyses}
	if err := s.renderPage(w, data, "base.html", "pages/history.html"); err != nil {
		s.logger.Error("render history page failed", "error", err)
	}
}

// handleGetImage serves a resolved image's bytes. The name may omit its
// extension, same as everywhere else.
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	reader, _, mimeType, err := s.library.Open(name)
	if err != nil {
		if errors.Is(err, imagelib.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to open image", http.StatusInternalServerError)
		s.logger.Error("open image failed", "name", name, "error", err)
		return
	}
	defer closeWithLog(reader, "image reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write image failed", "name", name, "error", err)
	}
}

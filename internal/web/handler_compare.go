package web

import (
	"net/http"
	"strings"

	"github.com/acrispino/gemini-vision/internal/service"
)

// comparePage is the view model for the compare template.
type comparePage struct {
	ActiveNav string
	Images    []string
	First     string
	Second    string
	Result    *service.Outcome
}

func (s *Server) handleCompareForm(w http.ResponseWriter, r *http.Request) {
	images, err := s.service.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list images", http.StatusInternalServerError)
		s.logger.Error("list images failed", "error", err)
		return
	}

	data := &comparePage{ActiveNav: "compare", Images: images}
	if err := s.renderPage(w, data, "base.html", "pages/compare.html"); err != nil {
		s.logger.Error("render compare page failed", "error", err)
	}
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	first := strings.TrimSpace(r.FormValue("image1"))
	second := strings.TrimSpace(r.FormValue("image2"))
	if first == "" || second == "" {
		http.Error(w, "two image names required", http.StatusBadRequest)
		return
	}

	result := s.service.Compare(r.Context(), first, second)

	images, err := s.service.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list images", http.StatusInternalServerError)
		s.logger.Error("list images failed", "error", err)
		return
	}

	data := &comparePage{
		ActiveNav: "compare",
		Images:    images,
		First:     first,
		Second:    second,
		Result:    &result,
	}
	if err := s.renderPage(w, data, "base.html", "pages/compare.html"); err != nil {
		s.logger.Error("render compare page failed", "error", err)
	}
}

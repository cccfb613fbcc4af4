package web

import (
	"net/http"
	"strings"

	"github.com/acrispino/gemini-vision/internal/service"
)

// analyzePage is the view model for the analyze template.
type analyzePage struct {
	ActiveNav string
	Images    []string
	Selected  string
	Prompt    string
	Result    *service.Outcome
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	images, err := s.service.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list images", http.StatusInternalServerError)
		s.logger.Error("list images failed", "error", err)
		return
	}

	data := &analyzePage{ActiveNav: "analyze", Images: images, Selected: r.URL.Query().Get("image")}
	if err := s.renderPage(w, data, "base.html", "pages/analyze.html"); err != nil {
		s.logger.Error("render analyze page failed", "error", err)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	image := strings.TrimSpace(r.FormValue("image"))
	if image == "" {
		http.Error(w, "image name required", http.StatusBadRequest)
		return
	}
	prompt := r.FormValue("prompt")

	result := s.service.Analyze(r.Context(), image, prompt)

	images, err := s.service.List(r.Context())
	if err != nil {
		http.Error(w, "failed to list images", http.StatusInternalServerError)
		s.logger.Error("list images failed", "error", err)
		return
	}

	data := &analyzePage{
		ActiveNav: "analyze",
		Images:    images,
		Selected:  image,
		Prompt:    prompt,
		Result:    &result,
	}
	if err := s.renderPage(w, data, "base.html", "pages/analyze.html"); err != nil {
		s.logger.Error("render analyze page failed", "error", err)
	}
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/acrispino/gemini-vision/internal/domain"
	"github.com/acrispino/gemini-vision/internal/vision"
)

// NoAnalysisText is returned when the model produces no text at all.
const NoAnalysisText = "No analysis generated."

// historyLimit caps the number of rows returned by History.
const historyLimit = 50

// Outcome is the tagged result of an analyze or compare call. Exactly one of
// Text or Err is meaningful: Err is non-nil when the operation failed, for
// any reason (resolution or remote). Failures never propagate past the
// service as faults.
type Outcome struct {
	Text string
	Err  error
}

// Failed reports whether the operation failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// String renders the outcome for display: the model text on success, or an
// "Error <doing thing>: <message>" line on failure.
func (o Outcome) String() string {
	if o.Err != nil {
		return "Error " + o.Err.Error()
	}
	return o.Text
}

// imageLibrary is the subset of imagelib.Library that VisionService requires.
type imageLibrary interface {
	Load(name string) ([]byte, string, error)
	List() ([]string, error)
	SaveUpload(filename string, r io.Reader) (string, error)
}

// analysisRecorder is the subset of store.AnalysisStore that VisionService
// requires. A nil recorder disables history.
type analysisRecorder interface {
	Record(ctx context.Context, mode, images, prompt, response string, failed bool) (*domain.Analysis, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Analysis, error)
}

type VisionService struct {
	library   imageLibrary
	describer vision.Describer
	history   analysisRecorder
	logger    *slog.Logger
}

func NewVisionService(library imageLibrary, describer vision.Describer, history analysisRecorder, logger *slog.Logger) *VisionService {
	return &VisionService{
		library:   library,
		describer: describer,
		history:   history,
		logger:    logger,
	}
}

// Analyze resolves name, sends [prompt, image] to the model, and returns the
// generated text. An empty prompt falls back to the default analyze prompt;
// empty model output falls back to NoAnalysisText. Any failure is flattened
// into the returned Outcome with the message "analyzing image: ...".
func (s *VisionService) Analyze(ctx context.Context, name, prompt string) Outcome {
	if strings.TrimSpace(prompt) == "" {
		prompt = vision.DefaultAnalyzePrompt
	}
	s.logger.Info("analyze started", "image", name)

	text, resolved, err := s.describeImages(ctx, prompt, name)
	if err != nil {
		out := Outcome{Err: fmt.Errorf("analyzing image: %w", err)}
		s.record(ctx, domain.ModeAnalyze, name, prompt, out)
		s.logger.Warn("analyze failed", "image", name, "error", err)
		return out
	}

	out := Outcome{Text: text}
	s.record(ctx, domain.ModeAnalyze, resolved, prompt, out)
	s.logger.Info("analyze complete", "image", resolved, "chars", len(text))
	return out
}

// Compare resolves both names and sends the fixed comparison prompt followed
// by both images. Failures flatten into the Outcome with the message
// "comparing images: ...". The empty-text fallback applies here too.
func (s *VisionService) Compare(ctx context.Context, name1, name2 string) Outcome {
	s.logger.Info("compare started", "image1", name1, "image2", name2)

	text, resolved, err := s.describeImages(ctx, vision.ComparePrompt, name1, name2)
	if err != nil {
		out := Outcome{Err: fmt.Errorf("comparing images: %w", err)}
		s.record(ctx, domain.ModeCompare, name1+","+name2, vision.ComparePrompt, out)
		s.logger.Warn("compare failed", "image1", name1, "image2", name2, "error", err)
		return out
	}

	out := Outcome{Text: text}
	s.record(ctx, domain.ModeCompare, resolved, vision.ComparePrompt, out)
	s.logger.Info("compare complete", "images", resolved, "chars", len(text))
	return out
}

// describeImages resolves and loads each named image, calls the model, and
// applies the empty-text fallback. It returns the model text and the resolved
// filenames joined with commas.
func (s *VisionService) describeImages(ctx context.Context, prompt string, names ...string) (string, string, error) {
	images := make([]vision.Image, 0, len(names))
	resolved := make([]string, 0, len(names))
	for _, name := range names {
		data, filename, err := s.library.Load(name)
		if err != nil {
			return "", strings.Join(resolved, ","), err
		}
		images = append(images, vision.Image{Data: data, MIMEType: http.DetectContentType(data)})
		resolved = append(resolved, filename)
	}

	text, err := s.describer.Describe(ctx, prompt, images)
	if err != nil {
		return "", strings.Join(resolved, ","), err
	}
	if text == "" {
		text = NoAnalysisText
	}
	return text, strings.Join(resolved, ","), nil
}

// List returns the gallery: all supported image filenames in the library.
func (s *VisionService) List(ctx context.Context) ([]string, error) {
	return s.library.List()
}

// Upload stores an image so it becomes resolvable by later operations.
func (s *VisionService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	name, err := s.library.SaveUpload(filename, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	s.logger.Info("image uploaded", "name", name, "bytes", len(data))
	return name, nil
}

// History returns recent analyses, newest first.
func (s *VisionService) History(ctx context.Context) ([]*domain.Analysis, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListRecent(ctx, historyLimit)
}

// record writes the outcome to the history log. History is best-effort: a
// write failure is logged, never surfaced to the caller.
func (s *VisionService) record(ctx context.Context, mode, images, prompt string, out Outcome) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, mode, images, prompt, out.String(), out.Failed()); err != nil {
		s.logger.Error("failed to record analysis", "mode", mode, "error", err)
	}
}

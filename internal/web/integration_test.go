package web

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acrispino/gemini-vision/internal/db"
	"github.com/acrispino/gemini-vision/internal/imagelib"
	"github.com/acrispino/gemini-vision/internal/service"
	"github.com/acrispino/gemini-vision/internal/store"
	"github.com/acrispino/gemini-vision/internal/vision"
	"github.com/acrispino/gemini-vision/internal/web/templates"
)

// pngBytes is a minimal payload that sniffs as image/png.
var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}

type stubDescriber struct {
	text string
	err  error
}

func (d *stubDescriber) Describe(ctx context.Context, prompt string, images []vision.Image) (string, error) {
	return d.text, d.err
}

func newTestServer(t *testing.T, describer vision.Describer, files ...string) (*Server, *imagelib.Library) {
	t.Helper()

	dir := t.TempDir()
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), pngBytes, 0644))
	}
	lib, err := imagelib.New(dir)
	require.NoError(t, err)

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, database.Close()) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewVisionService(lib, describer, store.NewAnalysisStore(database), logger)
	return NewServer(svc, lib, templates.FS, logger), lib
}

func TestRootRedirectsToAnalyze(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/analyze", rec.Header().Get("Location"))
}

func TestAnalyzePageListsImages(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{}, "cat.png", "dog.jpg")

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "cat.png")
	assert.Contains(t, body, "dog.jpg")
}

func TestAnalyzeSubmission(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{text: "A photogenic cat."}, "cat.png")

	form := url.Values{"image": {"cat"}, "prompt": {"What is this?"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A photogenic cat.")
}

func TestAnalyzeSubmissionMissingImage(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{text: "unreached"}, "cat.png")

	form := url.Values{"image": {"ghost"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	// Failures render as page content, not HTTP errors.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error analyzing image:")
	assert.Contains(t, rec.Body.String(), "ghost")
}

func TestAnalyzeSubmissionNoImageField(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareSubmission(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{text: "They differ."}, "cat.png", "dog.png")

	form := url.Values{"image1": {"cat"}, "image2": {"dog"}}
	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "They differ.")
}

func TestCompareSubmissionMissingSecondImage(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{text: "unreached"}, "cat.png")

	form := url.Values{"image1": {"cat"}, "image2": {"missing"}}
	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error comparing images:")
	assert.Contains(t, rec.Body.String(), "missing")
}

func multipartUpload(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadThenServeImage(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{})

	body, contentType := multipartUpload(t, "fresh.png", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/analyze?image=fresh.png", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/images/fresh.png", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestUploadRejectsNonImage(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{})

	body, contentType := multipartUpload(t, "evil.png", []byte("%PDF-1.4 not an image"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGalleryPage(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{}, "cat.png")

	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cat.png")
}

func TestHistoryPageShowsPastAnalyses(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{text: "A cat."}, "cat.png")

	form := url.Values{"image": {"cat"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A cat.")
	assert.Contains(t, rec.Body.String(), "cat.png")
}

func TestGetImageNotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{})

	req := httptest.NewRequest(http.MethodGet, "/images/nope.png", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t, &stubDescriber{})

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

package imagelib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound reports that no file in the library matches a requested image
// name under any supported extension.
var ErrNotFound = errors.New("image not found or format not supported")

// SupportedExtensions is the extension allow-list, in resolution order.
// Resolve tries these in order when the requested name has no extension.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Library is a directory of image files. It is the single source of truth
// for both front ends: resolution, listing, serving, and uploads all go
// through it. Listings are recomputed from the filesystem on every call.
type Library struct {
	dir  string
	exts []string
}

// New creates a Library rooted at dir, creating the directory if absent.
func New(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Library{dir: dir, exts: SupportedExtensions}, nil
}

// Dir returns the library's root directory.
func (l *Library) Dir() string {
	return l.dir
}

// Resolve maps a user-supplied image name to a path inside the library.
// A literal match with a supported extension wins; otherwise, when the name
// carries no extension, each supported extension is tried in order and the
// first existing file is returned. Failures wrap ErrNotFound and name the
// missing identifier.
func (l *Library) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("image %q: %w", name, ErrNotFound)
	}

	path, err := l.safeJoin(name)
	if err != nil {
		return "", err
	}
	if fileExists(path) && l.supported(path) {
		return path, nil
	}

	if !strings.Contains(name, ".") {
		for _, ext := range l.exts {
			candidate := filepath.Join(l.dir, name+ext)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("image %q not found in %s: %w", name, l.dir, ErrNotFound)
}

// List returns the filenames of all supported images in the library, in
// directory iteration order. The result is never cached.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !l.supported(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Open resolves name and opens the file, returning the reader, the resolved
// filename, and the MIME type derived from the extension.
func (l *Library) Open(name string) (io.ReadCloser, string, string, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, "", "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to open image: %w", err)
	}
	return f, filepath.Base(path), extToMimeType(path), nil
}

// Load resolves name and reads the full file contents.
func (l *Library) Load(name string) ([]byte, string, error) {
	path, err := l.Resolve(name)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return data, filepath.Base(path), nil
}

// SaveUpload writes an uploaded image into the library under its original
// (sanitized) filename and returns the stored name. An existing file with
// the same name is overwritten: last write wins, no locking. The extension
// must be on the allow-list.
func (l *Library) SaveUpload(filename string, r io.Reader) (string, error) {
	filename = sanitizeFilename(filepath.Base(filename))
	if filename == "" || !l.supported(filename) {
		return "", fmt.Errorf("upload %q: %w", filename, ErrNotFound)
	}

	path, err := l.safeJoin(filename)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return filename, nil
}

// supported reports whether the file's extension is on the allow-list.
// The comparison is case-insensitive.
func (l *Library) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range l.exts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// safeJoin resolves name relative to the library directory and rejects
// directory traversal.
func (l *Library) safeJoin(name string) (string, error) {
	absBase, err := filepath.Abs(l.dir)
	if err != nil {
		return "", fmt.Errorf("invalid image directory: %w", err)
	}

	absPath, err := filepath.Abs(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal attempt")
	}
	return absPath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// sanitizeFilename replaces characters that are unsafe in filenames.
func sanitizeFilename(filename string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := filename
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	return strings.Trim(result, " .")
}

func extToMimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

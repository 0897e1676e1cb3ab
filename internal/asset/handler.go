// Package asset stores uploaded images for Image layers.
package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"

	"github.com/inamate/canvas/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

var ErrUnsupportedType = errors.New("unsupported image type")

var allowedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// UploadResponse is returned from the upload endpoint. AspectRatio is
// width/height, what an Image layer keeps while resizing.
type UploadResponse struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspectRatio"`
	Name        string  `json:"name"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	dir string
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string) (*Handler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Handler{dir: dir}, nil
}

// Upload handles POST /assets/upload (multipart form with "file" field).
// Every accepted image is stored as PNG.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 10MB)"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	contentType, err := sniffType(file)
	if err == nil {
		err = checkContentType(contentType)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid image: " + err.Error()})
		return
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty image"})
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + ".png"
	if err := h.writePNG(filepath.Join(h.dir, filename), img); err != nil {
		slog.Error("store asset", "error", err, "asset", assetID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save file"})
		return
	}

	slog.Info("asset uploaded", "asset", assetID, "width", bounds.Dx(), "height", bounds.Dy())
	writeJSON(w, http.StatusOK, UploadResponse{
		ID:          assetID,
		URL:         "/assets/" + filename,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		AspectRatio: float64(bounds.Dx()) / float64(bounds.Dy()),
		Name:        header.Filename,
	})
}

func (h *Handler) writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}
	return out.Close()
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// sniffType reads the magic bytes of f and rewinds it. The client's declared
// Content-Type is not trusted.
func sniffType(f io.ReadSeeker) (string, error) {
	head := make([]byte, 261)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedType, err)
	}
	return kind.MIME.Value, nil
}

func checkContentType(contentType string) error {
	for _, t := range allowedTypes {
		if strings.HasPrefix(contentType, t) {
			return nil
		}
	}
	return fmt.Errorf("%w %q: use PNG, JPEG, GIF or WebP", ErrUnsupportedType, contentType)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

package rooms

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/export"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Sample bool `json:"sample"`
}

// Create handles POST /api/rooms.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	room, err := h.service.Create(r.Context(), req.Sample)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

// GetSnapshot handles GET /api/rooms/{roomId}/snapshot.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.Get(r.Context(), mux.Vars(r)["roomId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// PutSnapshot handles PUT /api/rooms/{roomId}/snapshot with a document body.
func (h *Handler) PutSnapshot(w http.ResponseWriter, r *http.Request) {
	doc := document.NewEmptyDocument()
	if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid document"})
		return
	}

	if err := h.service.Replace(r.Context(), mux.Vars(r)["roomId"], doc); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportPDF handles GET /api/rooms/{roomId}/export.pdf.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	room, err := h.service.Get(r.Context(), roomID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+roomID+`.pdf"`)
	if err := export.WritePDF(w, room.Document); err != nil {
		slog.Error("export pdf", "error", err, "room", roomID)
	}
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidRoomID):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid room id"})
	case errors.Is(err, ErrInvalidDocument):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

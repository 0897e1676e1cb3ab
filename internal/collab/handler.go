package collab

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/canvas/internal/typeid"
)

// ServeRoom returns the websocket endpoint for /ws/room/{roomId}. Users are
// anonymous; the optional "name" query parameter becomes the display name.
func (h *Hub) ServeRoom(originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := mux.Vars(r)["roomId"]
		if err := typeid.Validate(roomID, typeid.PrefixRoom); err != nil {
			http.Error(w, "invalid room id", http.StatusBadRequest)
			return
		}

		userID := "anon-" + uuid.New().String()[:8]
		displayName := r.URL.Query().Get("name")
		if displayName == "" {
			displayName = "Anonymous"
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			slog.Error("websocket accept", "error", err)
			return
		}

		clientID := uuid.New().String()
		client := NewClient(h, conn, userID, displayName, roomID, clientID)

		ctx := r.Context()
		go client.WritePump(ctx)

		if err := h.Register(client); err != nil {
			client.close()
			conn.Close(websocket.StatusInternalError, "room unavailable")
			return
		}
		client.ReadPump(ctx)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/vrain/internal/notify"
)

type errorResponse struct {
	Error         string                `json:"error"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, notes ...notify.Notification) {
	writeJSON(w, status, errorResponse{Error: msg, Notifications: notes})
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"frontline-server/internal/engine"
	"frontline-server/internal/storage"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сервера.
// Только чтение; к живому состоянию симуляции отсюда не дотянуться,
// она принадлежит горутине матча.
type DebugHandler struct {
	Service *engine.GameService
	Archive *storage.Archive // nil, если архив выключен
}

func NewDebugHandler(s *engine.GameService, archive *storage.Archive) *DebugHandler {
	return &DebugHandler{Service: s, Archive: archive}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/session", h.handleSession)
	mux.HandleFunc("/debug/matches", h.handleMatches)
}

// /debug/session - состояние сессии и подписчики хаба
func (h *DebugHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	type SessionSummary struct {
		State       string `json:"state"`
		Subscribers int    `json:"subscribers"`
		MatchID     string `json:"match_id,omitempty"`
	}

	summary := SessionSummary{
		State:       h.Service.State(),
		Subscribers: h.Service.Hub.SubscriberCount(),
	}
	if m := h.Service.CurrentMatch(); m != nil {
		summary.MatchID = m.ID
	}
	writeJSON(w, summary)
}

// /debug/matches?limit=20 - последние завершенные матчи из архива
func (h *DebugHandler) handleMatches(w http.ResponseWriter, r *http.Request) {
	if h.Archive == nil {
		http.Error(w, "Match archive is disabled", http.StatusNotFound)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := h.Archive.Recent(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}

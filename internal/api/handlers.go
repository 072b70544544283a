package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dogstory/internal/app"
)

// Handler methods for routerHandlers. Each maps internal/app's sentinel
// errors onto the status/code pairs from the external interface table.

func (h *routerHandlers) handleListMaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Maps())
}

func (h *routerHandlers) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m := h.app.Map(id)
	if m == nil {
		writeError(w, "mapNotFound", "no such map", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *routerHandlers) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"userName"`
		MapID    string `json:"mapId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalidArgument", "malformed request body", http.StatusBadRequest)
		return
	}

	p, err := h.app.Join(req.UserName, req.MapID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authToken": p.Token,
		"playerId":  p.ID,
	})
}

func (h *routerHandlers) handleGetPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.app.Players(r.Header.Get("Authorization"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	out := make(map[string]interface{}, len(players))
	for id, name := range players {
		out[strconv.Itoa(id)] = map[string]string{"name": name}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.app.State(r.Header.Get("Authorization"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	players := make(map[string]interface{}, len(state.Dogs))
	for _, d := range state.Dogs {
		bag := make([]map[string]int, 0, len(d.Bag))
		for _, l := range d.Bag {
			bag = append(bag, map[string]int{"id": l.ID, "type": l.Type})
		}
		players[strconv.Itoa(d.ID)] = map[string]interface{}{
			"pos":   [2]float64{d.Pos.X, d.Pos.Y},
			"speed": [2]float64{d.Speed.X, d.Speed.Y},
			"dir":   string(d.Dir),
			"bag":   bag,
			"score": d.Score,
		}
	}

	lostObjects := make(map[string]interface{}, len(state.Loots))
	for i, l := range state.Loots {
		lostObjects[strconv.Itoa(i)] = map[string]interface{}{
			"type": l.Type,
			"pos":  [2]float64{l.Pos.X, l.Pos.Y},
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"players":     players,
		"lostObjects": lostObjects,
	})
}

func (h *routerHandlers) handleAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Move string `json:"move"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalidArgument", "malformed request body", http.StatusBadRequest)
		return
	}

	if err := h.app.Action(r.Header.Get("Authorization"), req.Move); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{})
}

func (h *routerHandlers) handleTick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TimeDelta int64 `json:"timeDelta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TimeDelta <= 0 {
		writeError(w, "invalidArgument", "timeDelta must be a positive integer", http.StatusBadRequest)
		return
	}

	h.app.Tick(req.TimeDelta)
	sessions, players, loots := h.app.Stats()
	UpdateWorldGauges(sessions, players, loots)
	writeJSON(w, http.StatusOK, map[string]interface{}{})
}

func (h *routerHandlers) handleGetRecords(w http.ResponseWriter, r *http.Request) {
	start := parseIntParam(r, "start", 0)
	maxItems := parseIntParam(r, "maxItems", 10)
	if maxItems < 0 || maxItems > 100 {
		writeError(w, "invalidArgument", "maxItems must be between 0 and 100", http.StatusBadRequest)
		return
	}

	entries, err := h.app.Records(maxItems, start)
	if err != nil {
		writeError(w, "internalError", "failed to load records", http.StatusInternalServerError)
		return
	}

	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{
			"name":     e.Name,
			"score":    e.Score,
			"playTime": float64(e.PlayTimeMs) / 1000,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *routerHandlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func parseIntParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// writeAppError maps a sentinel error from internal/app onto the HTTP
// status/code pairs from the external interface table.
func writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidToken):
		writeError(w, "invalidToken", err.Error(), http.StatusUnauthorized)
	case errors.Is(err, app.ErrUnknownToken):
		writeError(w, "unknownToken", err.Error(), http.StatusUnauthorized)
	case errors.Is(err, app.ErrUnknownMap):
		writeError(w, "mapNotFound", err.Error(), http.StatusNotFound)
	case errors.Is(err, app.ErrDuplicateName), errors.Is(err, app.ErrEmptyName), errors.Is(err, app.ErrInvalidMove):
		writeError(w, "invalidArgument", err.Error(), http.StatusBadRequest)
	default:
		writeError(w, "internalError", "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}

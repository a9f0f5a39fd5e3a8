package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lpnguyen0310/metro-search/internal/models"
	"github.com/lpnguyen0310/metro-search/internal/stations"
)

// StationService defines the station store operations the HTTP layer needs
type StationService interface {
	State() stations.InitState
	SnapshotID() uuid.UUID
	DatasetSize() int
	Lines() []models.Line
	SetSearch(q string)
	Search() string
	Suggestions() []models.Suggestion
	FilteredByLine() map[models.LineID][]models.StationItem
	ToggleStation(lineID models.LineID, stationID string) bool
	SelectedByLine() map[models.LineID][]string
	ClearSelection()
	ToggleExpand(lineID models.LineID)
	Expanded() map[models.LineID]bool
	Markers() []models.StationItem
	Recents() []string
	AddRecent(term string)
	ClearRecents()
}

// StationsHandler handles HTTP requests for the metro station search screen
type StationsHandler struct {
	svc StationService
}

// NewStationsHandler creates a new handler backed by the given service
func NewStationsHandler(svc StationService) *StationsHandler {
	return &StationsHandler{svc: svc}
}

// StatusResponse is the JSON response for GET /api/status
type StatusResponse struct {
	State       stations.InitState `json:"state"`
	SnapshotID  string             `json:"snapshotId,omitempty"`
	DatasetSize int                `json:"datasetSize"`
	LineCount   int                `json:"lineCount"`
	CheckedAt   time.Time          `json:"checkedAt"`
}

// GetStatus handles GET /api/status
// Exposes the dataset initialization state machine to consumers.
func (h *StationsHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		State:       h.svc.State(),
		DatasetSize: h.svc.DatasetSize(),
		LineCount:   len(h.svc.Lines()),
		CheckedAt:   time.Now().UTC(),
	}
	if id := h.svc.SnapshotID(); id != uuid.Nil {
		resp.SnapshotID = id.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// LineResponse is one line in the GET /api/lines payload
type LineResponse struct {
	models.Line
	Expanded bool `json:"expanded"`
}

// GetLines handles GET /api/lines
func (h *StationsHandler) GetLines(w http.ResponseWriter, r *http.Request) {
	expanded := h.svc.Expanded()
	lines := h.svc.Lines()

	out := make([]LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineResponse{Line: l, Expanded: expanded[l.ID]})
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lines": out,
		"count": len(out),
	})
}

// GetStations handles GET /api/stations?q=
// Sets the current search keyword and returns the filtered per-line lists.
func (h *StationsHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	h.svc.SetSearch(r.URL.Query().Get("q"))

	byLine := h.svc.FilteredByLine()
	total := 0
	for _, items := range byLine {
		total += len(items)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"search": h.svc.Search(),
		"byLine": byLine,
		"count":  total,
	})
}

// GetSuggestions handles GET /api/suggestions?q=
func (h *StationsHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	h.svc.SetSearch(r.URL.Query().Get("q"))

	suggestions := h.svc.Suggestions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// toggleSelectionRequest is the JSON body for POST /api/selection
type toggleSelectionRequest struct {
	LineID    models.LineID `json:"lineId"`
	StationID string        `json:"stationId"`
}

// ToggleSelection handles POST /api/selection
// A toggle on a disabled or unknown station is a no-op, not an error.
func (h *StationsHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	var req toggleSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if !req.LineID.Valid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Unknown line",
			Details: map[string]interface{}{"lineId": req.LineID},
		})
		return
	}
	if req.StationID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "stationId is required"})
		return
	}

	applied := h.svc.ToggleStation(req.LineID, req.StationID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applied":        applied,
		"selectedByLine": h.svc.SelectedByLine(),
	})
}

// ClearSelection handles DELETE /api/selection
func (h *StationsHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearSelection()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"selectedByLine": h.svc.SelectedByLine(),
	})
}

// ToggleExpand handles POST /api/lines/{lineId}/expand
func (h *StationsHandler) ToggleExpand(w http.ResponseWriter, r *http.Request) {
	lineID := models.LineID(chi.URLParam(r, "lineId"))
	if !lineID.Valid() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Unknown line",
			Details: map[string]interface{}{"lineId": lineID},
		})
		return
	}

	h.svc.ToggleExpand(lineID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"expanded": h.svc.Expanded(),
	})
}

// GetMarkers handles GET /api/markers
// Returns the selected, coordinate-bearing stations for map rendering.
func (h *StationsHandler) GetMarkers(w http.ResponseWriter, r *http.Request) {
	markers := h.svc.Markers()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"markers": markers,
		"count":   len(markers),
	})
}

// GetRecents handles GET /api/recents
func (h *StationsHandler) GetRecents(w http.ResponseWriter, r *http.Request) {
	recents := h.svc.Recents()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recents": recents,
		"count":   len(recents),
	})
}

// addRecentRequest is the JSON body for POST /api/recents
type addRecentRequest struct {
	Term string `json:"term"`
}

// AddRecent handles POST /api/recents
func (h *StationsHandler) AddRecent(w http.ResponseWriter, r *http.Request) {
	var req addRecentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	h.svc.AddRecent(req.Term)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recents": h.svc.Recents(),
	})
}

// ClearRecents handles DELETE /api/recents
func (h *StationsHandler) ClearRecents(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearRecents()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recents": h.svc.Recents(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"trendscout-backend/internal/usecase"
)

type IngestHandler struct {
	tracker *usecase.TrackerUsecase
}

func NewIngestHandler(tracker *usecase.TrackerUsecase) *IngestHandler {
	return &IngestHandler{tracker: tracker}
}

type IngestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

type IngestStatusResponse struct {
	LastCycle    string `json:"last_cycle,omitempty"`
	ProductCount int    `json:"product_count"`
	Running      bool   `json:"running"`
}

// HandleRun triggers one tracking cycle in the background.
func (h *IngestHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Detached from the request context; the cycle outlives the request.
	go h.tracker.RunCycle(context.Background())

	response := IngestResponse{
		Success: true,
		Message: "Tracking cycle started",
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandlePopulate seeds the store from the mock catalog.
func (h *IngestHandler) HandlePopulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count := 50
	if v := r.URL.Query().Get("count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			count = n
		}
	}

	n := h.tracker.Populate(r.Context(), count)

	response := IngestResponse{
		Success: true,
		Message: "Mock catalog populated",
		Count:   n,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleStatus reports the last cycle time and product count.
func (h *IngestHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lastCycle, count := h.tracker.Status()

	response := IngestStatusResponse{
		ProductCount: count,
		Running:      !lastCycle.IsZero(),
	}
	if !lastCycle.IsZero() {
		response.LastCycle = lastCycle.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

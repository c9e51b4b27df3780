package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/dom/worldcup-stats/internal/service"
	"github.com/go-chi/chi/v5"
)

type RadarHandler struct {
	radarService *service.RadarService
}

func NewRadarHandler(radarService *service.RadarService) *RadarHandler {
	return &RadarHandler{radarService: radarService}
}

type SchemaResponse struct {
	Position       domain.Position           `json:"position"`
	Label          string                    `json:"label"`
	AvailableBases []domain.Basis            `json:"availableBases"`
	Metrics        []domain.MetricDescriptor `json:"metrics"`
	ScatterAxes    []engine.AxisOption       `json:"scatterAxes"`
}

// Schema describes the radar metrics and scatter axes of a position
func (h *RadarHandler) Schema(w http.ResponseWriter, r *http.Request) {
	position := domain.ParsePosition(chi.URLParam(r, "position"))

	writeJSON(w, SchemaResponse{
		Position:       position,
		Label:          position.Label(),
		AvailableBases: engine.AvailableBases(position),
		Metrics:        engine.SchemaFor(position),
		ScatterAxes:    engine.AxisOptionsFor(position),
	})
}

func (h *RadarHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req service.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Position = domain.ParsePosition(string(req.Position))
	req.Basis = domain.ParseBasis(string(req.Basis))

	result, err := h.radarService.Compare(r.Context(), req)
	if err != nil {
		writeError(w, "radar.Compare", err)
		return
	}
	writeJSON(w, result)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/service"
)

type ScatterHandler struct {
	scatterService *service.ScatterService
}

func NewScatterHandler(scatterService *service.ScatterService) *ScatterHandler {
	return &ScatterHandler{scatterService: scatterService}
}

func (h *ScatterHandler) Points(w http.ResponseWriter, r *http.Request) {
	var req service.ScatterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Position = domain.ParsePosition(string(req.Position))

	result, err := h.scatterService.Points(r.Context(), req)
	if err != nil {
		writeError(w, "scatter.Points year="+req.Year, err)
		return
	}
	writeJSON(w, result)
}

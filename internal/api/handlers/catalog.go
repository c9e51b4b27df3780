package handlers

import (
	"net/http"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/service"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.catalogService.Years(r.Context())
	if err != nil {
		writeError(w, "catalog.Years", err)
		return
	}
	writeJSON(w, years)
}

func (h *CatalogHandler) Teams(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")

	teams, err := h.catalogService.Teams(r.Context(), year)
	if err != nil {
		writeError(w, "catalog.Teams year="+year, err)
		return
	}
	writeJSON(w, teams)
}

func (h *CatalogHandler) Players(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	team := chi.URLParam(r, "team")

	players, err := h.catalogService.Players(r.Context(), year, team)
	if err != nil {
		writeError(w, "catalog.Players year="+year+" team="+team, err)
		return
	}
	writeJSON(w, players)
}

func (h *CatalogHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	team := chi.URLParam(r, "team")
	filename := chi.URLParam(r, "filename")

	doc, err := h.catalogService.PlayerStats(r.Context(), year, team, filename)
	if err != nil {
		writeError(w, "catalog.PlayerStats filename="+filename, err)
		return
	}
	writeJSON(w, doc)
}

func (h *CatalogHandler) TeamStats(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	team := chi.URLParam(r, "team")

	doc, err := h.catalogService.TeamStats(r.Context(), year, team)
	if err != nil {
		writeError(w, "catalog.TeamStats year="+year+" team="+team, err)
		return
	}
	writeJSON(w, doc)
}

// Search handles ?q=&type=player|team&position=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	kind := domain.SearchKindPlayer
	if q.Get("type") == string(domain.SearchKindTeam) {
		kind = domain.SearchKindTeam
	}
	var position domain.Position
	if p := q.Get("position"); p != "" {
		position = domain.ParsePosition(p)
	}

	results, err := h.catalogService.Search(r.Context(), q.Get("q"), kind, position)
	if err != nil {
		writeError(w, "catalog.Search", err)
		return
	}
	writeJSON(w, results)
}

func (h *CatalogHandler) Population(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")

	rows, err := h.catalogService.Population(r.Context(), year)
	if err != nil {
		writeError(w, "catalog.Population year="+year, err)
		return
	}
	writeJSON(w, rows)
}

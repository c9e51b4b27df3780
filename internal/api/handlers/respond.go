package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/worldcup-stats/internal/domain"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR [handlers.writeJSON]: %v", err)
	}
}

// writeError maps service errors onto plain-text HTTP errors. Anything the
// caller could not have caused is logged under op.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound):
		http.Error(w, "Player file not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrTeamNotFound):
		http.Error(w, "Team not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrQueryTooShort), errors.Is(err, domain.ErrMissingSubject):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("ERROR [%s]: %v", op, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

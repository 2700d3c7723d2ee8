package handlers

import (
	"net/http"

	"github.com/aora/backend/internal/avatars"
)

// AvatarHandler serves generated initials avatars.
type AvatarHandler struct{}

// Initials handles GET /api/v1/avatars/initials?name=<display name>.
func (AvatarHandler) Initials(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		respondJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(avatars.RenderSVG(name)))
}

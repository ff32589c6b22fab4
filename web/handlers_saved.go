package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SaveNiche adds a niche to the viewer's saved list. Saving an already
// saved niche succeeds without effect.
func (h *Handler) SaveNiche(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	code := chi.URLParam(r, "code")

	if err := h.savedSvc.Save(r.Context(), id, code); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"display_code": code, "saved": true})
}

// UnsaveNiche removes a niche from the viewer's saved list. Removal only
// ever touches the viewer's own row; an attempt that matches no owned row
// is refused.
func (h *Handler) UnsaveNiche(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	code := chi.URLParam(r, "code")

	if err := h.savedSvc.Unsave(r.Context(), id, code); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"display_code": code, "saved": false})
}

// ListSaved returns the viewer's saved niches, newest first, with
// entitlement re-applied per item so lapsed subscribers see their saved
// list redacted rather than emptied.
func (h *Handler) ListSaved(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	decisions, err := h.savedSvc.ListSaved(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nichesFromDecisions(decisions))
}

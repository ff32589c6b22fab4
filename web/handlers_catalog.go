package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nicheshunter/nicheshunter/app"
	"github.com/nicheshunter/nicheshunter/domain/catalog"
	"github.com/nicheshunter/nicheshunter/domain/entitlement"
	"github.com/nicheshunter/nicheshunter/domain/revenue"
)

// nicheResponse is the wire projection of an entitlement decision. The
// internal niche ID is never exposed; clients address niches by display
// code only. Analysis is absent, not empty, on locked items.
type nicheResponse struct {
	DisplayCode string            `json:"display_code"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Tags        []string          `json:"tags,omitempty"`
	Score       float64           `json:"score"`
	SourceType  string            `json:"source_type,omitempty"`
	FreeTier    bool              `json:"free_tier"`
	Stats       catalog.Stats     `json:"stats"`
	Analysis    *catalog.Analysis `json:"analysis,omitempty"`
	Unlocked    bool              `json:"unlocked"`
}

func nicheFromDecision(d entitlement.Decision) nicheResponse {
	resp := nicheResponse{
		DisplayCode: d.Niche.DisplayCode,
		Title:       d.Niche.Title,
		Category:    d.Niche.Category,
		Tags:        d.Niche.Tags,
		Score:       d.Niche.Score,
		SourceType:  d.Niche.SourceType,
		FreeTier:    d.Niche.FreeTier,
		Stats:       d.Niche.Stats,
		Unlocked:    d.Unlocked,
	}
	if d.Unlocked {
		a := d.Niche.Analysis
		resp.Analysis = &a
	}
	return resp
}

func nichesFromDecisions(ds []entitlement.Decision) []nicheResponse {
	out := make([]nicheResponse, 0, len(ds))
	for _, d := range ds {
		out = append(out, nicheFromDecision(d))
	}
	return out
}

// ListNiches returns the catalog with per-item entitlement applied.
// Optional query parameters narrow the listing: category (case-insensitive
// match), revenue (an amount or band such as "$5K-$10K/mo") and free=true.
func (h *Handler) ListNiches(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	q := r.URL.Query()
	filter := app.ListFilter{
		Category: q.Get("category"),
		FreeOnly: q.Get("free") == "true",
	}
	if v := q.Get("revenue"); v != "" {
		band, err := revenue.ParseBracket(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, "unrecognized revenue band")
			return
		}
		filter.Revenue = &band
	}

	decisions, err := h.catalogSvc.List(r.Context(), id, filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nichesFromDecisions(decisions))
}

// GetNiche returns one niche by display code. A locked niche is a 200
// with a redacted body; only an unknown code is a 404.
func (h *Handler) GetNiche(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	code := chi.URLParam(r, "code")

	decision, err := h.catalogSvc.GetByCode(r.Context(), id, code)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nicheFromDecision(decision))
}

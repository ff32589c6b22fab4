package web

import (
	"net/http"

	"github.com/nicheshunter/nicheshunter/domain/revenue"
)

type validateIdeaRequest struct {
	Idea string `json:"idea" validate:"required,min=10,max=2000"`
}

// DescribeValidation returns the validator step sequence and the free
// preview steps, for rendering the flow before an idea is submitted.
func (h *Handler) DescribeValidation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.validation.Flow())
}

// RunValidation runs the idea validator for the steps the viewer's
// entitlement allows.
func (h *Handler) RunValidation(w http.ResponseWriter, r *http.Request) {
	var req validateIdeaRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	id := identityFrom(r.Context())
	outcome, err := h.validation.Run(r.Context(), id, req.Idea)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type estimateRequest struct {
	Category     string  `json:"category" validate:"required"`
	Competition  string  `json:"competition" validate:"required,oneof=low medium high"`
	Monetization string  `json:"monetization" validate:"required,oneof=subscription one_time ads freemium"`
	MarketSize   string  `json:"market_size" validate:"required,oneof=small medium large"`
	PriceUSD     float64 `json:"price_usd" validate:"gte=0"`
	Downloads    int64   `json:"downloads" validate:"gte=0"`
}

type estimateResponse struct {
	MonthlyLow  int64  `json:"monthly_low"`
	MonthlyHigh int64  `json:"monthly_high"`
	Bracket     string `json:"bracket"`
	Confidence  string `json:"confidence"`
}

// RunEstimate computes a revenue estimate. The estimator is deterministic
// and free for everyone, anonymous viewers included.
func (h *Handler) RunEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	est := h.estimator.Estimate(revenue.EstimateInput{
		Category:     req.Category,
		Competition:  req.Competition,
		Monetization: req.Monetization,
		MarketSize:   req.MarketSize,
		PriceUSD:     req.PriceUSD,
		Downloads:    req.Downloads,
	})
	writeJSON(w, http.StatusOK, estimateResponse{
		MonthlyLow:  est.MonthlyLow,
		MonthlyHigh: est.MonthlyHigh,
		Bracket:     est.Bracket.String(),
		Confidence:  est.Confidence,
	})
}

type spinRequest struct {
	// Count is the client-persisted number of spins already taken. The
	// limiter is advisory, so the server takes the client's word for it.
	Count int `json:"count" validate:"gte=0"`
}

type spinResponse struct {
	Limited   bool           `json:"limited"`
	Remaining int            `json:"remaining"`
	Niche     *nicheResponse `json:"niche,omitempty"`
}

// Spin draws a random free-tier niche for the roulette.
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	var req spinRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	id := identityFrom(r.Context())
	result, err := h.spinSvc.Spin(r.Context(), id, req.Count)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := spinResponse{Limited: result.Limited, Remaining: result.Remaining}
	if !result.Limited {
		n := nicheFromDecision(result.Decision)
		resp.Niche = &n
	}
	writeJSON(w, http.StatusOK, resp)
}

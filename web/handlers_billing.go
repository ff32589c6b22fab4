package web

import "net/http"

type redirectResponse struct {
	URL string `json:"url"`
}

// StartCheckout creates a hosted checkout session and returns its URL.
// Subscription status is never written here; only webhook confirmations
// flip a user to active.
func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	url, err := h.checkout.StartCheckout(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redirectResponse{URL: url})
}

// StartPortal creates a billing portal session for subscription management.
func (h *Handler) StartPortal(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	url, err := h.checkout.StartPortal(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redirectResponse{URL: url})
}

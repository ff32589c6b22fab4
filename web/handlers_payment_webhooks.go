package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nicheshunter/nicheshunter/app"
)

// maxWebhookBody caps webhook payload reads at 1 MiB.
const maxWebhookBody = 1 << 20

// PaymentWebhook receives payment provider callbacks. These requests are
// authenticated by payload signature, not by session, so they bypass the
// identity middleware's notion of a viewer entirely.
func (h *Handler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if h.webhooks == nil || provider != h.webhooks.ProviderName() {
		http.Error(w, "unknown payment provider", http.StatusNotFound)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.webhooks.ProcessWebhook(r.Context(), payload, signature); err != nil {
		if errors.Is(err, app.ErrBadSignature) {
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Str("provider", provider).Msg("webhook processing failed")
		// Non-2xx makes the provider retry the delivery.
		http.Error(w, "webhook processing failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

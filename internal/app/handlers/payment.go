package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/marketplace/internal/service"
)

// PaymentLinkResponse carries the checkout redirect URL for the buyer.
type PaymentLinkResponse struct {
	URL string `json:"url"`
}

// WebhookResponse acknowledges a received gateway callback.
type WebhookResponse struct {
	Received bool `json:"received"`
}

// CreatePaymentLinkHandler handles POST /orders/{id}/pay and
// POST /payments/{orderId}/create-link; idParam names the URL parameter.
func CreatePaymentLinkHandler(log *slog.Logger, paymentService service.PaymentService, idParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreatePaymentLinkHandler"
		logger := log.With(slog.String("op", op))

		orderID := chi.URLParam(r, idParam)
		if orderID == "" {
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: idParam + " parameter is required"})
			return
		}

		url, err := paymentService.CreatePaymentLink(r.Context(), orderID)
		if err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, PaymentLinkResponse{URL: url})
	}
}

// StripeWebhookHandler handles POST /payments/webhooks/stripe. The raw body
// is passed to signature verification untouched; parsing it before
// verification would break the signature.
func StripeWebhookHandler(log *slog.Logger, paymentService service.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.StripeWebhookHandler"
		logger := log.With(slog.String("op", op))

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("failed to read webhook body", slog.Any("error", err))
			writeJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if err := paymentService.HandleWebhook(r.Context(), payload, signature); err != nil {
			writeError(logger, w, err)
			return
		}
		writeJSON(logger, w, http.StatusOK, WebhookResponse{Received: true})
	}
}

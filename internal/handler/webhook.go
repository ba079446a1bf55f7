package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/filedrive/filedrive/internal/service"
)

// maxWebhookBody caps identity webhook payloads at 1MB.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhookService *service.WebhookService
}

func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// Identity receives user and membership sync events from the identity
// provider. Signature verification happens in the service; a rejected
// signature is a 401 so the provider retries with a fresh signature.
func (h *WebhookHandler) Identity(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request", "message": "failed to read body"})
		return
	}

	err = h.webhookService.HandleWebhook(
		payload,
		r.Header.Get("webhook-id"),
		r.Header.Get("webhook-timestamp"),
		r.Header.Get("webhook-signature"),
	)
	if err != nil {
		slog.Warn("identity webhook rejected", "error", err)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthenticated", "message": "webhook rejected"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"received": true})
}

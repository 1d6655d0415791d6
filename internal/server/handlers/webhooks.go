package handlers

// webhooks.go implements the POST /webhooks endpoint for platform
// notifications.

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sphere-wallet/sphere-gateway/internal/api"
)

// Dispatcher processes a webhook notification. Implemented by
// notify.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, keyID, signature string, rawBody []byte) error
}

// WebhookHandler accepts platform webhook notifications and hands them to
// the dispatcher.
type WebhookHandler struct {
	dispatcher      Dispatcher
	dispatchTimeout time.Duration
	logger          *slog.Logger
}

// NewWebhookHandler creates the webhook endpoint handler. dispatchTimeout
// bounds the background processing of each notification.
func NewWebhookHandler(dispatcher Dispatcher, dispatchTimeout time.Duration, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher:      dispatcher,
		dispatchTimeout: dispatchTimeout,
		logger:          logger,
	}
}

// HandleWebhook godoc
//
//	@Summary		Receive a platform notification
//	@Description	Accepts a signed webhook notification and processes it in the background. Always acknowledges 200 so the platform does not retry on downstream failures.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			x-circle-key-id		header		string	true	"signing key id"
//	@Param			x-circle-signature	header		string	true	"base64 signature over the canonical body"
//	@Success		200					{string}	string	"Successful"
//	@Router			/webhooks [post]
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	keyID := r.Header.Get("x-circle-key-id")
	signature := r.Header.Get("x-circle-signature")

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("failed to read webhook body", slog.String("error", err.Error()))
		api.RespondWithJSON(w, http.StatusOK, "Successful")
		return
	}

	// Processing continues after the response is written, so detach from the
	// request context before handing off.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, h.dispatchTimeout)
		defer cancel()

		if err := h.dispatcher.Dispatch(ctx, keyID, signature, rawBody); err != nil {
			h.logger.Error("webhook processing failed", slog.String("error", err.Error()))
		}
	}()

	api.RespondWithJSON(w, http.StatusOK, "Successful")
}

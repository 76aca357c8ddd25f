package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/vleukhin/workmart/internal/reconciler"
	"github.com/vleukhin/workmart/pkg/utils"
)

type Reconciler interface {
	HandleWebhook(ctx context.Context, body []byte, signature, timestamp string) error
}

type WebhookHandler struct {
	reconciler Reconciler
}

func New(rec Reconciler) *WebhookHandler {
	return &WebhookHandler{
		reconciler: rec,
	}
}

// Handle godoc
//
//	@Summary		Settlement gateway webhook
//	@Description	Receives asynchronous payout outcome notifications. Authentic events are always acknowledged, known or not; only bad signatures are rejected.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-Gateway-Signature	header		string				true	"HMAC-SHA256 signature"
//	@Param			X-Gateway-Timestamp	header		string				true	"Signing timestamp"
//	@Param			event				body		dto.WebhookEventDTO	true	"Payout outcome event"
//	@Success		202					{object}	utils.Response		"Event accepted"
//	@Failure		400					{object}	utils.Response		"Malformed payload"
//	@Failure		401					{object}	utils.Response		"Invalid signature"
//	@Failure		500					{object}	utils.Response		"Internal server error"
//	@Router			/api/webhooks/settlement [post]
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "can't read request body")
		return
	}

	signature := r.Header.Get("X-Gateway-Signature")
	timestamp := r.Header.Get("X-Gateway-Timestamp")

	err = h.reconciler.HandleWebhook(r.Context(), body, signature, timestamp)
	if err != nil {
		switch {
		case errors.Is(err, reconciler.ErrInvalidSignature):
			utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, reconciler.ErrMalformedPayload):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusAccepted, utils.Response{Message: "accepted"})
}

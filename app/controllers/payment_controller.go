package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nikhilverma/shopline/app/services"
	"github.com/nikhilverma/shopline/config"
	"github.com/nikhilverma/shopline/pkg/logger"
	"github.com/nikhilverma/shopline/pkg/paygate"
	"github.com/nikhilverma/shopline/pkg/response"
)

// PaymentController receives callbacks from the payment gateway.
type PaymentController struct {
	service *services.PaymentService
}

func NewPaymentController() *PaymentController {
	return &PaymentController{service: services.NewPaymentService()}
}

// maxWebhookBody caps the raw payload read for signature verification.
const maxWebhookBody = 1 << 20

// Webhook verifies the gateway signature over the raw body, then applies
// the charge event to the matching payment. Replays of an already-applied
// status are acknowledged without effect.
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "could not read payload")
		return
	}

	header := r.Header.Get(paygate.SignatureHeader)
	if err := paygate.VerifySignature(payload, header, config.GatewayWebhookSecret()); err != nil {
		logger.Warn("webhook signature rejected", "error", err)
		response.Error(w, http.StatusBadRequest, "invalid signature")
		return
	}

	ev, err := paygate.ParseEvent(payload)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "malformed event")
		return
	}

	var charge paygate.Charge
	if err := json.Unmarshal(ev.Data, &charge); err != nil {
		response.Error(w, http.StatusBadRequest, "malformed charge object")
		return
	}

	if err := c.service.HandleWebhook(r.Context(), ev, charge); err != nil {
		if errors.Is(err, services.ErrUnknownCharge) {
			// Ack so the gateway stops retrying a charge we never opened.
			logger.Warn("webhook for unknown charge", "charge_id", charge.ID)
			response.Success(w, map[string]string{"status": "ignored"})
			return
		}
		response.Error(w, http.StatusInternalServerError, "webhook processing failed")
		return
	}

	response.Success(w, map[string]string{"status": "ok"})
}

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/expohall/backend/internal/application/payments"
	"github.com/expohall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBodyBytes caps webhook payloads. Invoice events are a few KB;
// anything bigger is not a payload we recognize.
const maxWebhookBodyBytes = 64 * 1024

// WebhookHandler handles payment processor webhook deliveries
type WebhookHandler struct {
	BaseHandler
	webhooks *payments.WebhookService
	logger   *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *payments.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
		logger:   logger,
	}
}

// HandlePaymentWebhook receives processor events over the raw request body.
// The signature arrives in X-Signature, with Stripe-Signature accepted for
// direct processor deliveries. Events the reconciliation path decides to
// skip are acknowledged with 200 so the processor stops redelivering them;
// a signature failure gets 400 and a processing failure gets 500 so the
// processor retries the delivery.
// POST /webhooks/payment
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(payload) > maxWebhookBodyBytes {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBadRequest, "Webhook payload too large")
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" {
		signature = c.GetHeader("Stripe-Signature")
	}

	result, err := h.webhooks.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeSignature, "Invalid webhook signature")
			return
		}
		// The event's ledger claim was released, so the processor's retry
		// will be processed rather than skipped as a duplicate
		h.logger.Error("webhook processing failed, requesting redelivery",
			zap.String("event_id", result.EventID),
			zap.String("event_type", result.EventType),
			zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Event processing failed")
		return
	}

	h.Success(c, result)
}

package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/expohall/backend/internal/application/payments"
	"github.com/expohall/backend/internal/infrastructure/billing"
	"github.com/expohall/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

// stubProcessor serves canned webhook verification results; the invoice
// methods are never reached by these tests
type stubProcessor struct {
	event     stripe.Event
	verifyErr error
	signature string
}

func (p *stubProcessor) IssueInvoice(ctx context.Context, input billing.IssueInvoiceInput) (*billing.IssueInvoiceOutput, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProcessor) GetInvoice(ctx context.Context, ref string) (*billing.InvoiceSnapshot, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProcessor) VoidInvoice(ctx context.Context, ref string) (*billing.InvoiceSnapshot, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProcessor) DeleteDraftInvoice(ctx context.Context, ref string) error {
	return errors.New("not implemented")
}

func (p *stubProcessor) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	p.signature = signatureHeader
	if p.verifyErr != nil {
		return stripe.Event{}, p.verifyErr
	}
	return p.event, nil
}

func setupWebhookRouter(t *testing.T, processor *stubProcessor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	service := payments.NewWebhookService(payments.WebhookServiceConfig{
		Processor:   processor,
		Idempotency: store,
		Logger:      zap.NewNop(),
	})

	engine := gin.New()
	engine.POST("/webhooks/payment", NewWebhookHandler(service, zap.NewNop()).HandlePaymentWebhook)
	return engine
}

func postWebhook(engine *gin.Engine, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_HandlePaymentWebhook(t *testing.T) {
	t.Run("invalid signature is refused with 400", func(t *testing.T) {
		processor := &stubProcessor{verifyErr: errors.New("signature mismatch")}
		engine := setupWebhookRouter(t, processor)

		w := postWebhook(engine, []byte(`{}`), map[string]string{"X-Signature": "bad"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_SIGNATURE")
	})

	t.Run("verified event is acknowledged", func(t *testing.T) {
		processor := &stubProcessor{event: stripe.Event{
			ID:      "evt_1",
			Type:    "customer.created",
			Created: time.Now().Unix(),
			Data:    &stripe.EventData{Raw: []byte(`{}`)},
		}}
		engine := setupWebhookRouter(t, processor)

		w := postWebhook(engine, []byte(`{}`), map[string]string{"X-Signature": "sig"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "evt_1")
		assert.Equal(t, "sig", processor.signature)
	})

	t.Run("falls back to the Stripe-Signature header", func(t *testing.T) {
		processor := &stubProcessor{event: stripe.Event{
			ID:   "evt_2",
			Type: "customer.created",
			Data: &stripe.EventData{Raw: []byte(`{}`)},
		}}
		engine := setupWebhookRouter(t, processor)

		w := postWebhook(engine, []byte(`{}`), map[string]string{"Stripe-Signature": "t=1,v1=abc"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "t=1,v1=abc", processor.signature)
	})

	t.Run("redelivered event is acknowledged without reprocessing", func(t *testing.T) {
		processor := &stubProcessor{event: stripe.Event{
			ID:   "evt_dup",
			Type: "customer.created",
			Data: &stripe.EventData{Raw: []byte(`{}`)},
		}}
		engine := setupWebhookRouter(t, processor)

		first := postWebhook(engine, []byte(`{}`), map[string]string{"X-Signature": "sig"})
		second := postWebhook(engine, []byte(`{}`), map[string]string{"X-Signature": "sig"})

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Contains(t, second.Body.String(), "already processed")
	})

	t.Run("processing failure requests redelivery with 500", func(t *testing.T) {
		processor := &stubProcessor{event: stripe.Event{
			ID:   "evt_broken",
			Type: "invoice.paid",
			Data: &stripe.EventData{Raw: []byte(`{`)},
		}}
		engine := setupWebhookRouter(t, processor)

		first := postWebhook(engine, []byte(`{}`), map[string]string{"X-Signature": "sig"})
		second := postWebhook(engine, []byte(`{}`), map[string]string{"X-Signature": "sig"})

		assert.Equal(t, http.StatusInternalServerError, first.Code)
		// The claim was released on failure, so the redelivery is attempted
		// again instead of being skipped as a duplicate
		assert.Equal(t, http.StatusInternalServerError, second.Code)
		assert.NotContains(t, second.Body.String(), "already processed")
	})

	t.Run("oversized payload is refused", func(t *testing.T) {
		processor := &stubProcessor{}
		engine := setupWebhookRouter(t, processor)

		w := postWebhook(engine, bytes.Repeat([]byte("x"), 65*1024), map[string]string{"X-Signature": "sig"})

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

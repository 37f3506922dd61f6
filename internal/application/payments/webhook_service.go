package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"go.uber.org/zap"
)

// ErrInvalidSignature is returned when a webhook payload fails signature
// verification. It is the only webhook failure that must not be acknowledged.
var ErrInvalidSignature = shared.NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")

// eventDedupTTL is how long processed event IDs are remembered. Processors
// stop redelivering well within this window.
const eventDedupTTL = 24 * time.Hour

// WebhookService reconciles vendor payment state from processor webhook
// events. Every transition it applies is idempotent, so a redelivered or
// replayed event converges to the same state; the event-ID ledger on top of
// that just skips the work.
type WebhookService struct {
	vendors     registration.VendorRepository
	booths      registration.BoothRepository
	processor   InvoiceProcessor
	idempotency shared.IdempotencyStore
	eventBus    shared.EventBus
	logger      *zap.Logger
}

// WebhookServiceConfig contains the collaborators for WebhookService
type WebhookServiceConfig struct {
	Vendors     registration.VendorRepository
	Booths      registration.BoothRepository
	Processor   InvoiceProcessor
	Idempotency shared.IdempotencyStore
	EventBus    shared.EventBus
	Logger      *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	return &WebhookService{
		vendors:     cfg.Vendors,
		booths:      cfg.Booths,
		processor:   cfg.Processor,
		idempotency: cfg.Idempotency,
		eventBus:    cfg.EventBus,
		logger:      cfg.Logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies and reconciles a processor webhook delivery.
// Events the reconciliation path decides to skip (stale ref, unknown vendor,
// missing metadata) are acknowledged with a nil error so the processor stops
// redelivering them. A transient processing failure returns an error and
// releases the event's ledger claim, so the processor's retry is not skipped
// as a duplicate.
func (s *WebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.processor.VerifyEvent(payload, signature)
	if err != nil {
		s.logger.Warn("rejected webhook with invalid signature", zap.Error(err))
		return nil, ErrInvalidSignature
	}

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	claimedEvent := false
	if event.ID != "" {
		claimed, err := s.idempotency.MarkProcessed(ctx, event.ID, eventDedupTTL)
		if err != nil {
			// The ledger is defense in depth; reconciliation itself is
			// idempotent, so a ledger outage must not drop events
			s.logger.Warn("idempotency store unavailable, processing anyway",
				zap.String("event_id", event.ID),
				zap.Error(err))
		} else if !claimed {
			s.logger.Info("skipping already-processed event",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)))
			result.Processed = false
			result.Message = "Event already processed"
			return result, nil
		} else {
			claimedEvent = true
		}
	}

	s.logger.Info("processing webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	switch event.Type {
	case "invoice.paid", "invoice.payment_succeeded":
		err = s.handleInvoicePaid(ctx, event)
	case "invoice.payment_failed":
		err = s.handleInvoiceNotCollected(ctx, event, "payment_failed")
	case "invoice.voided":
		err = s.handleInvoiceNotCollected(ctx, event, "void")
	case "invoice.marked_uncollectible":
		err = s.handleInvoiceNotCollected(ctx, event, "uncollectible")
	case "invoice.finalized":
		err = s.handleInvoiceFinalized(ctx, event)
	default:
		s.logger.Debug("unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		s.logger.Error("failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		// Give the claim back so the processor's redelivery is not skipped
		// as a duplicate of an attempt that never completed
		if claimedEvent {
			if releaseErr := s.idempotency.Release(ctx, event.ID); releaseErr != nil {
				s.logger.Error("failed to release event claim, redelivery may be skipped",
					zap.String("event_id", event.ID),
					zap.Error(releaseErr))
			}
		}
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// resolveVendor finds the vendor an invoice event belongs to and checks the
// event is about the vendor's current invoice. A nil vendor with a nil error
// means the event should be skipped and acknowledged.
func (s *WebhookService) resolveVendor(ctx context.Context, invoice *stripe.Invoice) (*registration.Vendor, error) {
	vendorIDStr := invoice.Metadata["vendor_id"]
	if vendorIDStr == "" {
		s.logger.Warn("invoice event carries no vendor metadata, skipping",
			zap.String("invoice_ref", invoice.ID))
		return nil, nil
	}

	vendorID, err := uuid.Parse(vendorIDStr)
	if err != nil {
		s.logger.Warn("invoice event carries malformed vendor metadata, skipping",
			zap.String("invoice_ref", invoice.ID),
			zap.String("vendor_id", vendorIDStr))
		return nil, nil
	}

	vendor, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		if err == shared.ErrNotFound {
			// Acknowledge so the processor does not retry an event we can
			// never apply
			s.logger.Warn("vendor not found for invoice event, skipping",
				zap.String("invoice_ref", invoice.ID),
				zap.String("vendor_id", vendorIDStr))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}

	if !vendor.MatchesInvoice(invoice.ID) {
		// The vendor has been re-billed since this invoice was created; the
		// event describes an invoice we no longer track
		s.logger.Info("ignoring event for superseded invoice",
			zap.String("vendor_id", vendor.ID.String()),
			zap.String("event_invoice_ref", invoice.ID),
			zap.String("current_invoice_ref", vendor.LastInvoiceRef))
		return nil, nil
	}

	return vendor, nil
}

// handleInvoicePaid handles invoice.paid events
func (s *WebhookService) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	vendor, err := s.resolveVendor(ctx, &invoice)
	if err != nil || vendor == nil {
		return err
	}

	paidAt := time.Unix(event.Created, 0)
	if invoice.StatusTransitions != nil && invoice.StatusTransitions.PaidAt > 0 {
		paidAt = time.Unix(invoice.StatusTransitions.PaidAt, 0)
	}

	if err := vendor.MarkPaid(invoice.AmountPaid, paidAt); err != nil {
		// Confirmation without a sent invoice means local state was reset
		// out from under the processor; record and acknowledge
		s.logger.Warn("payment confirmation does not fit vendor state, skipping",
			zap.String("vendor_id", vendor.ID.String()),
			zap.String("payment_status", vendor.PaymentStatus.String()),
			zap.Error(err))
		return nil
	}

	status := vendor.PaymentStatus
	invoiceStatus := vendor.LastInvoiceStatus
	if err := s.vendors.MergePayment(ctx, vendor.ID, registration.VendorPaymentPatch{
		PaymentStatus:     &status,
		LastInvoiceStatus: &invoiceStatus,
		PaidAmountCents:   &vendor.PaidAmountCents,
		PaidAt:            vendor.PaidAt,
	}); err != nil {
		return fmt.Errorf("failed to save vendor payment: %w", err)
	}

	sold, err := s.booths.MarkSold(ctx, vendor.ID, vendor.BoothNumbers)
	if err != nil {
		return fmt.Errorf("failed to commit booths: %w", err)
	}
	if sold != int64(len(vendor.BoothNumbers)) {
		s.logger.Warn("not all assigned booths could be committed",
			zap.String("vendor_id", vendor.ID.String()),
			zap.Int64("committed", sold),
			zap.Int("assigned", len(vendor.BoothNumbers)))
	}

	s.publish(ctx, registration.NewPaymentConfirmedEvent(
		vendor.ID, vendor.OwnerUserID, invoice.ID, invoice.AmountPaid))

	s.logger.Info("payment confirmed",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("invoice_ref", invoice.ID),
		zap.Int64("amount_cents", invoice.AmountPaid))
	return nil
}

// handleInvoiceNotCollected handles the failed, voided, and uncollectible
// outcomes, which all revert the vendor and free its booths
func (s *WebhookService) handleInvoiceNotCollected(ctx context.Context, event stripe.Event, invoiceStatus string) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	vendor, err := s.resolveVendor(ctx, &invoice)
	if err != nil || vendor == nil {
		return err
	}

	if err := vendor.MarkPaymentFailed(invoiceStatus); err != nil {
		// A paid vendor is never downgraded by a late failure event
		s.logger.Warn("failure event does not fit vendor state, skipping",
			zap.String("vendor_id", vendor.ID.String()),
			zap.String("payment_status", vendor.PaymentStatus.String()),
			zap.Error(err))
		return nil
	}

	status := vendor.PaymentStatus
	lastStatus := vendor.LastInvoiceStatus
	if err := s.vendors.MergePayment(ctx, vendor.ID, registration.VendorPaymentPatch{
		PaymentStatus:     &status,
		LastInvoiceStatus: &lastStatus,
	}); err != nil {
		return fmt.Errorf("failed to save vendor payment: %w", err)
	}

	released, err := s.booths.ReleaseForVendor(ctx, vendor.ID, vendor.BoothNumbers)
	if err != nil {
		return fmt.Errorf("failed to release booths: %w", err)
	}

	s.publish(ctx, registration.NewPaymentFailedEvent(vendor.ID, invoice.ID, invoiceStatus))

	s.logger.Info("payment reverted",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("invoice_ref", invoice.ID),
		zap.String("invoice_status", invoiceStatus),
		zap.Int64("booths_released", released))
	return nil
}

// handleInvoiceFinalized refreshes the cached invoice status and hosted URL
// when the processor finalizes the invoice. No payment transition happens.
func (s *WebhookService) handleInvoiceFinalized(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	vendor, err := s.resolveVendor(ctx, &invoice)
	if err != nil || vendor == nil {
		return err
	}

	invoiceStatus := string(invoice.Status)
	patch := registration.VendorPaymentPatch{
		LastInvoiceStatus: &invoiceStatus,
	}
	if invoice.HostedInvoiceURL != "" {
		patch.HostedInvoiceURL = &invoice.HostedInvoiceURL
	}
	if err := s.vendors.MergePayment(ctx, vendor.ID, patch); err != nil {
		return fmt.Errorf("failed to save vendor payment: %w", err)
	}

	s.logger.Debug("invoice finalized",
		zap.String("vendor_id", vendor.ID.String()),
		zap.String("invoice_ref", invoice.ID))
	return nil
}

func (s *WebhookService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish domain event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
}

package event

import (
	"context"
	"fmt"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationHandler records a payment-received notification for the
// vendor's owning user whenever a payment is confirmed. Recording is the
// whole job; delivery belongs to a downstream system reading the table.
type NotificationHandler struct {
	notifications registration.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications registration.NotificationRepository, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *NotificationHandler) EventTypes() []string {
	return []string{registration.EventTypePaymentConfirmed}
}

// Handle records a notification for a confirmed payment
func (h *NotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	confirmed, ok := event.(*registration.PaymentConfirmedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}

	if confirmed.OwnerUserID == "" {
		h.logger.Warn("payment confirmed for vendor without owner, skipping notification",
			zap.String("vendor_id", confirmed.VendorID.String()))
		return nil
	}

	notification := registration.NewPaymentReceivedNotification(
		confirmed.OwnerUserID,
		confirmed.VendorID,
		confirmed.InvoiceRef,
		confirmed.AmountCents,
	)
	if err := h.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to record payment notification: %w", err)
	}

	h.logger.Info("recorded payment notification",
		zap.String("vendor_id", confirmed.VendorID.String()),
		zap.String("user_id", confirmed.OwnerUserID),
		zap.String("invoice_ref", confirmed.InvoiceRef))
	return nil
}

var _ shared.EventHandler = (*NotificationHandler)(nil)

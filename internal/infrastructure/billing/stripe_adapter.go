package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/customer"
	"github.com/stripe/stripe-go/v81/invoice"
	"github.com/stripe/stripe-go/v81/invoiceitem"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// StripeAdapter implements invoice operations against the Stripe API.
// All mutating calls carry the caller's idempotency key so that retried
// requests collapse into a single processor-side invoice.
type StripeAdapter struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeAdapter{
		config: config,
		logger: logger,
	}, nil
}

// ResolveCustomer finds the Stripe customer for an email, creating one when
// none exists. Lookup is by exact email match; the first hit wins.
func (a *StripeAdapter) ResolveCustomer(ctx context.Context, input IssueInvoiceInput) (string, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(input.Email),
	}
	listParams.Limit = stripe.Int64(1)

	iter := customer.List(listParams)
	for iter.Next() {
		existing := iter.Customer()
		a.logger.Debug("Reusing Stripe customer",
			zap.String("vendor_id", input.VendorID.String()),
			zap.String("customer_id", existing.ID))
		return existing.ID, nil
	}
	if err := iter.Err(); err != nil {
		a.logger.Error("Failed to list Stripe customers",
			zap.String("vendor_id", input.VendorID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to list customers: %w", err)
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(input.Email),
		Name:  stripe.String(input.Name),
	}
	params.Metadata = map[string]string{
		"vendor_id": input.VendorID.String(),
	}

	cust, err := customer.New(params)
	if err != nil {
		a.logger.Error("Failed to create Stripe customer",
			zap.String("vendor_id", input.VendorID.String()),
			zap.Error(err))
		return "", fmt.Errorf("stripe: failed to create customer: %w", err)
	}

	a.logger.Info("Created Stripe customer",
		zap.String("vendor_id", input.VendorID.String()),
		zap.String("customer_id", cust.ID))
	return cust.ID, nil
}

// IssueInvoice creates, finalizes, and emails an invoice for a vendor's
// booth total. Sending the email is best effort; a finalized invoice is
// returned even when the send call fails.
func (a *StripeAdapter) IssueInvoice(ctx context.Context, input IssueInvoiceInput) (*IssueInvoiceOutput, error) {
	customerID, err := a.ResolveCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	invoiceParams := &stripe.InvoiceParams{
		Customer:         stripe.String(customerID),
		CollectionMethod: stripe.String("send_invoice"),
		DaysUntilDue:     stripe.Int64(int64(a.config.DaysUntilDue)),
		AutoAdvance:      stripe.Bool(false),
	}
	invoiceParams.Metadata = map[string]string{
		"vendor_id": input.VendorID.String(),
	}
	for k, v := range input.Metadata {
		invoiceParams.Metadata[k] = v
	}
	if input.IdempotencyKey != "" {
		invoiceParams.SetIdempotencyKey(input.IdempotencyKey)
	}

	inv, err := invoice.New(invoiceParams)
	if err != nil {
		a.logger.Error("Failed to create Stripe invoice",
			zap.String("vendor_id", input.VendorID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create invoice: %w", err)
	}

	itemParams := &stripe.InvoiceItemParams{
		Customer:    stripe.String(customerID),
		Invoice:     stripe.String(inv.ID),
		Amount:      stripe.Int64(input.AmountCents),
		Currency:    stripe.String(a.config.Currency),
		Description: stripe.String(input.Description),
	}
	if input.IdempotencyKey != "" {
		itemParams.SetIdempotencyKey(input.IdempotencyKey + "-item")
	}

	if _, err := invoiceitem.New(itemParams); err != nil {
		a.logger.Error("Failed to add Stripe invoice line item",
			zap.String("vendor_id", input.VendorID.String()),
			zap.String("invoice_ref", inv.ID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to add invoice item: %w", err)
	}

	finalized, err := invoice.FinalizeInvoice(inv.ID, &stripe.InvoiceFinalizeInvoiceParams{
		AutoAdvance: stripe.Bool(false),
	})
	if err != nil {
		a.logger.Error("Failed to finalize Stripe invoice",
			zap.String("vendor_id", input.VendorID.String()),
			zap.String("invoice_ref", inv.ID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to finalize invoice: %w", err)
	}

	if _, err := invoice.SendInvoice(finalized.ID, &stripe.InvoiceSendInvoiceParams{}); err != nil {
		a.logger.Warn("Failed to email Stripe invoice",
			zap.String("vendor_id", input.VendorID.String()),
			zap.String("invoice_ref", finalized.ID),
			zap.Error(err))
	}

	a.logger.Info("Issued Stripe invoice",
		zap.String("vendor_id", input.VendorID.String()),
		zap.String("invoice_ref", finalized.ID),
		zap.Int64("amount_cents", finalized.AmountDue))

	return &IssueInvoiceOutput{
		InvoiceRef:       finalized.ID,
		CustomerID:       customerID,
		Status:           mapStripeInvoiceStatus(finalized.Status),
		HostedInvoiceURL: finalized.HostedInvoiceURL,
		AmountDueCents:   finalized.AmountDue,
		CreatedAt:        time.Unix(finalized.Created, 0),
	}, nil
}

// GetInvoice retrieves the processor's current view of an invoice
func (a *StripeAdapter) GetInvoice(ctx context.Context, invoiceRef string) (*InvoiceSnapshot, error) {
	inv, err := invoice.Get(invoiceRef, nil)
	if err != nil {
		a.logger.Error("Failed to get Stripe invoice",
			zap.String("invoice_ref", invoiceRef),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to get invoice: %w", err)
	}
	return snapshotFromInvoice(inv), nil
}

// VoidInvoice voids a finalized, unpaid invoice
func (a *StripeAdapter) VoidInvoice(ctx context.Context, invoiceRef string) (*InvoiceSnapshot, error) {
	inv, err := invoice.VoidInvoice(invoiceRef, &stripe.InvoiceVoidInvoiceParams{})
	if err != nil {
		a.logger.Error("Failed to void Stripe invoice",
			zap.String("invoice_ref", invoiceRef),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to void invoice: %w", err)
	}

	a.logger.Info("Voided Stripe invoice", zap.String("invoice_ref", invoiceRef))
	return snapshotFromInvoice(inv), nil
}

// DeleteDraftInvoice deletes an invoice that was never finalized
func (a *StripeAdapter) DeleteDraftInvoice(ctx context.Context, invoiceRef string) error {
	if _, err := invoice.Del(invoiceRef, nil); err != nil {
		a.logger.Error("Failed to delete draft Stripe invoice",
			zap.String("invoice_ref", invoiceRef),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to delete draft invoice: %w", err)
	}

	a.logger.Info("Deleted draft Stripe invoice", zap.String("invoice_ref", invoiceRef))
	return nil
}

// VerifyEvent checks a webhook payload's signature against the configured
// secret and decodes the event. The raw body must be passed untouched.
func (a *StripeAdapter) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, a.config.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}
	return event, nil
}

func snapshotFromInvoice(inv *stripe.Invoice) *InvoiceSnapshot {
	snapshot := &InvoiceSnapshot{
		InvoiceRef:       inv.ID,
		Status:           mapStripeInvoiceStatus(inv.Status),
		HostedInvoiceURL: inv.HostedInvoiceURL,
		AmountDueCents:   inv.AmountDue,
		AmountPaidCents:  inv.AmountPaid,
	}
	if inv.Customer != nil {
		snapshot.CustomerID = inv.Customer.ID
	}
	return snapshot
}

// mapStripeInvoiceStatus maps Stripe invoice status to our internal status
func mapStripeInvoiceStatus(status stripe.InvoiceStatus) InvoiceStatus {
	switch status {
	case stripe.InvoiceStatusDraft:
		return InvoiceStatusDraft
	case stripe.InvoiceStatusOpen:
		return InvoiceStatusOpen
	case stripe.InvoiceStatusPaid:
		return InvoiceStatusPaid
	case stripe.InvoiceStatusVoid:
		return InvoiceStatusVoid
	case stripe.InvoiceStatusUncollectible:
		return InvoiceStatusUncollectible
	default:
		return InvoiceStatus(status)
	}
}

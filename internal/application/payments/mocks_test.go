package payments

import (
	"context"
	"time"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/expohall/backend/internal/domain/shared"
	"github.com/expohall/backend/internal/infrastructure/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v81"
)

// MockVendorRepository is a testify mock for VendorRepository
type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) Create(ctx context.Context, vendor *registration.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByEmail(ctx context.Context, email string) (*registration.Vendor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.Vendor), args.Error(1)
}

func (m *MockVendorRepository) MergePayment(ctx context.Context, id uuid.UUID, patch registration.VendorPaymentPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockVendorRepository) AssignBooths(ctx context.Context, id uuid.UUID, numbers []string, total decimal.Decimal) error {
	args := m.Called(ctx, id, numbers, total)
	return args.Error(0)
}

// MockBoothRepository is a testify mock for BoothRepository
type MockBoothRepository struct {
	mock.Mock
}

func (m *MockBoothRepository) Create(ctx context.Context, booth *registration.Booth) error {
	args := m.Called(ctx, booth)
	return args.Error(0)
}

func (m *MockBoothRepository) FindByNumber(ctx context.Context, number string) (*registration.Booth, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registration.Booth), args.Error(1)
}

func (m *MockBoothRepository) FindByNumbers(ctx context.Context, numbers []string) ([]registration.Booth, error) {
	args := m.Called(ctx, numbers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registration.Booth), args.Error(1)
}

func (m *MockBoothRepository) FindAll(ctx context.Context) ([]registration.Booth, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]registration.Booth), args.Error(1)
}

func (m *MockBoothRepository) Reserve(ctx context.Context, vendorID uuid.UUID, numbers []string) error {
	args := m.Called(ctx, vendorID, numbers)
	return args.Error(0)
}

func (m *MockBoothRepository) ReleaseReserved(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error) {
	args := m.Called(ctx, vendorID, numbers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBoothRepository) MarkSold(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error) {
	args := m.Called(ctx, vendorID, numbers)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBoothRepository) ReleaseForVendor(ctx context.Context, vendorID uuid.UUID, numbers []string) (int64, error) {
	args := m.Called(ctx, vendorID, numbers)
	return args.Get(0).(int64), args.Error(1)
}

// MockInvoiceProcessor is a testify mock for InvoiceProcessor
type MockInvoiceProcessor struct {
	mock.Mock
}

func (m *MockInvoiceProcessor) IssueInvoice(ctx context.Context, input billing.IssueInvoiceInput) (*billing.IssueInvoiceOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.IssueInvoiceOutput), args.Error(1)
}

func (m *MockInvoiceProcessor) GetInvoice(ctx context.Context, invoiceRef string) (*billing.InvoiceSnapshot, error) {
	args := m.Called(ctx, invoiceRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceSnapshot), args.Error(1)
}

func (m *MockInvoiceProcessor) VoidInvoice(ctx context.Context, invoiceRef string) (*billing.InvoiceSnapshot, error) {
	args := m.Called(ctx, invoiceRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceSnapshot), args.Error(1)
}

func (m *MockInvoiceProcessor) DeleteDraftInvoice(ctx context.Context, invoiceRef string) error {
	args := m.Called(ctx, invoiceRef)
	return args.Error(0)
}

func (m *MockInvoiceProcessor) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	args := m.Called(payload, signatureHeader)
	return args.Get(0).(stripe.Event), args.Error(1)
}

// MockIdempotencyStore is a testify mock for IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// capturingEventBus records published events for assertions
type capturingEventBus struct {
	events []shared.DomainEvent
}

func (b *capturingEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.events = append(b.events, events...)
	return nil
}

func (b *capturingEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {}

func (b *capturingEventBus) Start(ctx context.Context) error { return nil }

func (b *capturingEventBus) Stop(ctx context.Context) error { return nil }

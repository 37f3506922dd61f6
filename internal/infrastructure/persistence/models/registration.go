package models

import (
	"encoding/json"
	"time"

	"github.com/expohall/backend/internal/domain/registration"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VendorModel is the persistence model for registration.Vendor
type VendorModel struct {
	BaseModel
	Name                string          `gorm:"not null"`
	ContactEmail        string          `gorm:"not null;uniqueIndex"`
	OwnerUserID         string          `gorm:"index"`
	Approved            bool            `gorm:"not null;default:false"`
	PaymentStatus       string          `gorm:"not null;default:'none'"`
	ProcessorCustomerID string          ``
	LastInvoiceRef      string          `gorm:"index"`
	LastInvoiceStatus   string          ``
	HostedInvoiceURL    string          ``
	InvoiceAmountCents  int64           `gorm:"not null;default:0"`
	PaidAmountCents     int64           `gorm:"not null;default:0"`
	PaidAt              *time.Time      ``
	BoothNumbers        string          `gorm:"type:text"` // JSON-encoded list
	TotalOwed           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
}

// TableName returns the table name for VendorModel
func (VendorModel) TableName() string {
	return "vendors"
}

// ToDomain converts VendorModel to domain Vendor
func (m *VendorModel) ToDomain() *registration.Vendor {
	var numbers []string
	if m.BoothNumbers != "" {
		// A corrupt list is treated as empty rather than failing the read
		_ = json.Unmarshal([]byte(m.BoothNumbers), &numbers)
	}

	return &registration.Vendor{
		BaseEntity:          m.BaseModel.ToDomain(),
		Name:                m.Name,
		ContactEmail:        m.ContactEmail,
		OwnerUserID:         m.OwnerUserID,
		Approved:            m.Approved,
		PaymentStatus:       registration.PaymentStatus(m.PaymentStatus),
		ProcessorCustomerID: m.ProcessorCustomerID,
		LastInvoiceRef:      m.LastInvoiceRef,
		LastInvoiceStatus:   m.LastInvoiceStatus,
		HostedInvoiceURL:    m.HostedInvoiceURL,
		InvoiceAmountCents:  m.InvoiceAmountCents,
		PaidAmountCents:     m.PaidAmountCents,
		PaidAt:              m.PaidAt,
		BoothNumbers:        numbers,
		TotalOwed:           m.TotalOwed,
	}
}

// FromDomain populates VendorModel from domain Vendor
func (m *VendorModel) FromDomain(v *registration.Vendor) {
	m.FromDomainBaseEntity(v.BaseEntity)
	m.Name = v.Name
	m.ContactEmail = v.ContactEmail
	m.OwnerUserID = v.OwnerUserID
	m.Approved = v.Approved
	m.PaymentStatus = v.PaymentStatus.String()
	m.ProcessorCustomerID = v.ProcessorCustomerID
	m.LastInvoiceRef = v.LastInvoiceRef
	m.LastInvoiceStatus = v.LastInvoiceStatus
	m.HostedInvoiceURL = v.HostedInvoiceURL
	m.InvoiceAmountCents = v.InvoiceAmountCents
	m.PaidAmountCents = v.PaidAmountCents
	m.PaidAt = v.PaidAt
	m.BoothNumbers = MarshalBoothNumbers(v.BoothNumbers)
	m.TotalOwed = v.TotalOwed
}

// MarshalBoothNumbers encodes a booth number list for storage
func MarshalBoothNumbers(numbers []string) string {
	if len(numbers) == 0 {
		return ""
	}
	data, err := json.Marshal(numbers)
	if err != nil {
		return ""
	}
	return string(data)
}

// BoothModel is the persistence model for registration.Booth
type BoothModel struct {
	BaseModel
	Number   string          `gorm:"not null;uniqueIndex"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status   string          `gorm:"not null;default:'available';index"`
	VendorID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for BoothModel
func (BoothModel) TableName() string {
	return "booths"
}

// ToDomain converts BoothModel to domain Booth
func (m *BoothModel) ToDomain() *registration.Booth {
	return &registration.Booth{
		BaseEntity: m.BaseModel.ToDomain(),
		Number:     m.Number,
		Price:      m.Price,
		Status:     registration.BoothStatus(m.Status),
		VendorID:   m.VendorID,
	}
}

// FromDomain populates BoothModel from domain Booth
func (m *BoothModel) FromDomain(b *registration.Booth) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Number = b.Number
	m.Price = b.Price
	m.Status = b.Status.String()
	m.VendorID = b.VendorID
}

// NotificationModel is the persistence model for registration.Notification
type NotificationModel struct {
	BaseModel
	UserID      string    `gorm:"not null;index"`
	Kind        string    `gorm:"not null"`
	VendorID    uuid.UUID `gorm:"type:uuid;index"`
	InvoiceRef  string    ``
	AmountCents int64     `gorm:"not null;default:0"`
	Read        bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for NotificationModel
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts NotificationModel to domain Notification
func (m *NotificationModel) ToDomain() *registration.Notification {
	return &registration.Notification{
		BaseEntity:  m.BaseModel.ToDomain(),
		UserID:      m.UserID,
		Kind:        m.Kind,
		VendorID:    m.VendorID,
		InvoiceRef:  m.InvoiceRef,
		AmountCents: m.AmountCents,
		Read:        m.Read,
	}
}

// FromDomain populates NotificationModel from domain Notification
func (m *NotificationModel) FromDomain(n *registration.Notification) {
	m.FromDomainBaseEntity(n.BaseEntity)
	m.UserID = n.UserID
	m.Kind = n.Kind
	m.VendorID = n.VendorID
	m.InvoiceRef = n.InvoiceRef
	m.AmountCents = n.AmountCents
	m.Read = n.Read
}

// AdminAllowlistModel stores the set of emails allowed to call admin routes.
// Presence of a row is the grant; there is no additional payload.
type AdminAllowlistModel struct {
	BaseModel
	Email string `gorm:"not null;uniqueIndex"`
}

// TableName returns the table name for AdminAllowlistModel
func (AdminAllowlistModel) TableName() string {
	return "admin_allowlist"
}

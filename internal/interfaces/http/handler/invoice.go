package handler

import (
	"github.com/expohall/backend/internal/application/payments"
	"github.com/expohall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles admin invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	issuance     *payments.IssuanceService
	cancellation *payments.CancellationService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(issuance *payments.IssuanceService, cancellation *payments.CancellationService) *InvoiceHandler {
	return &InvoiceHandler{
		issuance:     issuance,
		cancellation: cancellation,
	}
}

// IssueInvoiceRequest is the request body for issuing an invoice
type IssueInvoiceRequest struct {
	VendorID string `json:"vendor_id" binding:"required,uuid"`
}

// IssueInvoice bills a vendor for its assigned booth total
// POST /api/v1/admin/invoices
func (h *InvoiceHandler) IssueInvoice(c *gin.Context) {
	var req IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	result, err := h.issuance.IssueInvoice(c.Request.Context(), vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// CancelInvoice cancels a vendor's current invoice. The path ID is the
// vendor, not the processor invoice reference.
// POST /api/v1/admin/invoices/:id/cancel
func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}
	vendorID := uuid.MustParse(req.ID)

	result, err := h.cancellation.CancelInvoice(c.Request.Context(), vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

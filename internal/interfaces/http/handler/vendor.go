package handler

import (
	"github.com/expohall/backend/internal/application/vendors"
	"github.com/expohall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VendorHandler handles vendor registration and payment-status endpoints
type VendorHandler struct {
	BaseHandler
	registration *vendors.RegistrationService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(registration *vendors.RegistrationService) *VendorHandler {
	return &VendorHandler{registration: registration}
}

// VendorResponse is the vendor representation returned to admins
type VendorResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ContactEmail  string   `json:"contact_email"`
	PaymentStatus string   `json:"payment_status"`
	BoothNumbers  []string `json:"booth_numbers"`
	TotalOwed     string   `json:"total_owed"`
}

// CreateVendor registers a new vendor
// POST /api/v1/admin/vendors
func (h *VendorHandler) CreateVendor(c *gin.Context) {
	var input vendors.CreateVendorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	vendor, err := h.registration.CreateVendor(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, VendorResponse{
		ID:            vendor.ID.String(),
		Name:          vendor.Name,
		ContactEmail:  vendor.ContactEmail,
		PaymentStatus: vendor.PaymentStatus.String(),
		BoothNumbers:  vendor.BoothNumbers,
		TotalOwed:     vendor.TotalOwed.String(),
	})
}

// AssignBoothsRequest is the request body for assigning booths to a vendor
type AssignBoothsRequest struct {
	BoothNumbers []string `json:"booth_numbers" binding:"required,min=1"`
}

// AssignBooths reserves booths for a vendor
// POST /api/v1/admin/vendors/:id/booths
func (h *VendorHandler) AssignBooths(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	var req AssignBoothsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.registration.AssignBooths(c.Request.Context(), uuid.MustParse(uri.ID), req.BoothNumbers)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetVendorPayment returns the payment status view for a vendor
// GET /api/v1/vendors/:id/payment
func (h *VendorHandler) GetVendorPayment(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid vendor ID")
		return
	}

	view, err := h.registration.GetVendorPayment(c.Request.Context(), uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, view)
}

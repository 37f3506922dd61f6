package handler

import (
	"github.com/expohall/backend/internal/application/vendors"
	"github.com/expohall/backend/internal/domain/registration"
	"github.com/gin-gonic/gin"
)

// BoothHandler handles booth inventory endpoints
type BoothHandler struct {
	BaseHandler
	registration *vendors.RegistrationService
}

// NewBoothHandler creates a new BoothHandler
func NewBoothHandler(registration *vendors.RegistrationService) *BoothHandler {
	return &BoothHandler{registration: registration}
}

// BoothResponse is the booth representation returned to admins
type BoothResponse struct {
	ID       string `json:"id"`
	Number   string `json:"number"`
	Price    string `json:"price"`
	Status   string `json:"status"`
	VendorID string `json:"vendor_id,omitempty"`
}

func toBoothResponse(booth *registration.Booth) BoothResponse {
	resp := BoothResponse{
		ID:     booth.ID.String(),
		Number: booth.Number,
		Price:  booth.Price.String(),
		Status: booth.Status.String(),
	}
	if booth.VendorID != nil {
		resp.VendorID = booth.VendorID.String()
	}
	return resp
}

// CreateBooth adds a booth to inventory
// POST /api/v1/admin/booths
func (h *BoothHandler) CreateBooth(c *gin.Context) {
	var input vendors.CreateBoothInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	booth, err := h.registration.CreateBooth(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toBoothResponse(booth))
}

// ListBooths returns the booth inventory
// GET /api/v1/admin/booths
func (h *BoothHandler) ListBooths(c *gin.Context) {
	booths, err := h.registration.ListBooths(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]BoothResponse, 0, len(booths))
	for i := range booths {
		responses = append(responses, toBoothResponse(&booths[i]))
	}

	h.Success(c, responses)
}

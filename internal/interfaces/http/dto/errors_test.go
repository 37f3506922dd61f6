package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyPaid, http.StatusConflict},
		{ErrCodeBoothUnavailable, http.StatusConflict},
		{ErrCodeBillingInProgress, http.StatusConflict},
		{ErrCodeExternalService, http.StatusBadGateway},
		{ErrCodeSignature, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeAlreadyPaid, NormalizeErrorCode("ALREADY_PAID"))
	assert.Equal(t, ErrCodeSignature, NormalizeErrorCode("INVALID_SIGNATURE"))
	assert.Equal(t, ErrCodeValidation, NormalizeErrorCode("INVALID_AMOUNT"))
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("BOOTH_NOT_FOUND"))

	// Already-normalized and unknown codes pass through
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, "CUSTOM_CODE", NormalizeErrorCode("CUSTOM_CODE"))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Vendor not found", "req-1")

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Vendor not found", resp.Error.Message)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}

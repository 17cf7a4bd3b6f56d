package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	traceID := c.GetString("trace_id")
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, reason string, message string) {
	traceID := c.GetString("trace_id")
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		Reason:  reason,
		TraceID: traceID,
	})
}

// HandleServiceError maps service sentinel errors to HTTP responses with a
// machine-readable reason. Internal detail stays in the server log.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		RespondError(c, http.StatusUnauthorized, "unauthenticated", "Authentication required")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", "You do not have access to this tenant")
	case errors.Is(err, ErrTenantNotFound):
		RespondError(c, http.StatusNotFound, "tenant_not_found", "Tenant not found")
	case errors.Is(err, ErrUnknownPlan):
		RespondError(c, http.StatusBadRequest, "invalid_plan", "Unknown plan identifier")
	case errors.Is(err, ErrNoBillingAccount):
		RespondError(c, http.StatusBadRequest, "no_billing_account", "No billing account yet, start a checkout first")
	case errors.Is(err, ErrInvalidCustomerID):
		RespondError(c, http.StatusBadRequest, "invalid_customer_id", "Billing account reference is invalid, contact support")
	case errors.Is(err, ErrRateLimited):
		RespondError(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, try again shortly")
	case errors.Is(err, ErrProviderTransient):
		RespondError(c, http.StatusServiceUnavailable, "provider_error", "Payment provider unavailable, try again")
	case errors.Is(err, ErrProviderRejected):
		RespondError(c, http.StatusBadGateway, "provider_error", "Payment provider rejected the request, contact support")
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusBadRequest, "invalid_request", "Invalid request payload")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

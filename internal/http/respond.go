package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alebarre/italicita/internal/catalog"
	"github.com/alebarre/italicita/internal/checkout"
	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/orders"
	"github.com/alebarre/italicita/internal/payment"
	"github.com/alebarre/italicita/internal/session"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func respondErrorDetails(w http.ResponseWriter, status int, code, message, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// handleServiceError maps errors from the storefront packages to HTTP codes.
func handleServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var httpStatus int
	var code string

	var optErr *domain.OptionError
	switch {
	case errors.As(err, &optErr):
		httpStatus = http.StatusUnprocessableEntity
		code = "invalid_selection"
		respondErrorDetails(w, httpStatus, code, optErr.Err.Error(), optErr.Kind+" "+optErr.ID)
		return
	case errors.Is(err, domain.ErrSizeRequired), errors.Is(err, domain.ErrPastaRequired):
		httpStatus = http.StatusUnprocessableEntity
		code = "invalid_selection"
	case errors.Is(err, domain.ErrInvalidDelivery):
		httpStatus = http.StatusBadRequest
		code = "invalid_delivery"
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		httpStatus = http.StatusBadRequest
		code = "invalid_payment_method"
	case errors.Is(err, session.ErrEmptySessionID):
		httpStatus = http.StatusBadRequest
		code = "missing_session"
	case errors.Is(err, catalog.ErrMenuItemNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, payment.ErrSessionNotFound):
		httpStatus = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, checkout.ErrEmptyCart):
		httpStatus = http.StatusConflict
		code = "empty_cart"
	case errors.Is(err, payment.ErrInvalidStatus):
		httpStatus = http.StatusConflict
		code = "payment_settled"
	case errors.Is(err, domain.ErrInvalidTransition):
		httpStatus = http.StatusConflict
		code = "invalid_order_status"
	case errors.Is(err, payment.ErrSessionExpired):
		httpStatus = http.StatusGone
		code = "payment_expired"
	case errors.Is(err, checkout.ErrSubmissionFailed):
		httpStatus = http.StatusBadGateway
		code = "submission_failed"
		logger.Error("checkout submission failed", zap.Error(err))
		respondError(w, httpStatus, code, "order could not be submitted, your cart was kept")
		return
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		httpStatus = http.StatusServiceUnavailable
		code = "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus = http.StatusGatewayTimeout
		code = "timeout"
	default:
		logger.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, httpStatus, code, err.Error())
}

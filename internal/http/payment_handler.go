package http

import (
	"context"
	"net/http"
	"time"

	"github.com/alebarre/italicita/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	checkout Checkout
	timeout  time.Duration
	logger   *zap.Logger
}

func NewPaymentHandler(svc Checkout, timeout time.Duration, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		checkout: svc,
		timeout:  timeout,
		logger:   logger,
	}
}

type SettledPaymentDTO struct {
	Payment *PaymentResponseDTO `json:"payment"`
	Order   OrderResponseDTO    `json:"order"`
}

// GET /api/v1/payments/{payment_id}
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")
	if !h.owned(w, r, paymentID) {
		return
	}

	sess, remaining, err := h.checkout.GetPayment(paymentID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toPaymentDTO(sess, remaining))
}

// POST /api/v1/payments/{payment_id}/confirm
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.checkout.ConfirmPayment)
}

// POST /api/v1/payments/{payment_id}/cancel
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, h.checkout.CancelPayment)
}

func (h *PaymentHandler) settle(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*domain.Order, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	paymentID := chi.URLParam(r, "payment_id")
	if !h.owned(w, r, paymentID) {
		return
	}

	order, err := fn(ctx, paymentID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	sess, remaining, err := h.checkout.GetPayment(paymentID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, SettledPaymentDTO{
		Payment: toPaymentDTO(sess, remaining),
		Order:   toOrderDTO(order),
	})
}

// owned reports whether the payment belongs to the calling session; it
// answers 404 otherwise.
func (h *PaymentHandler) owned(w http.ResponseWriter, r *http.Request, paymentID string) bool {
	sess, _, err := h.checkout.GetPayment(paymentID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return false
	}
	if sess.CartSessionID != getSessionID(r.Context()) {
		respondError(w, http.StatusNotFound, "not_found", "payment session not found")
		return false
	}
	return true
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alebarre/italicita/internal/checkout"
	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/payment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout is the order and payment side of the storefront.
type Checkout interface {
	PlaceOrder(ctx context.Context, sessionID string, method domain.PaymentMethod, delivery domain.DeliveryInfo) (*checkout.Result, error)
	ConfirmPayment(ctx context.Context, paymentID string) (*domain.Order, error)
	CancelPayment(ctx context.Context, paymentID string) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, sessionID string) ([]*domain.Order, error)
	GetPayment(paymentID string) (payment.Session, time.Duration, error)
}

type CheckoutHandler struct {
	checkout Checkout
	timeout  time.Duration
	logger   *zap.Logger
}

func NewCheckoutHandler(svc Checkout, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		timeout:  timeout,
		logger:   logger,
	}
}

type PlaceOrderRequestDTO struct {
	PaymentMethod string              `json:"payment_method"`
	Delivery      domain.DeliveryInfo `json:"delivery"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	res, err := h.checkout.PlaceOrder(ctx, getSessionID(r.Context()), method, req.Delivery)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	resp := CheckoutResponseDTO{
		Order:        toOrderDTO(res.Order),
		WhatsAppLink: res.WhatsAppLink,
	}
	if res.Payment != nil {
		resp.Payment = toPaymentDTO(*res.Payment, res.Payment.ExpiresAt.Sub(res.Payment.CreatedAt))
	}
	respondJSON(w, http.StatusCreated, resp)
}

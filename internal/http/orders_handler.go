package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrdersHandler struct {
	checkout Checkout
	timeout  time.Duration
	logger   *zap.Logger
}

func NewOrdersHandler(svc Checkout, timeout time.Duration, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		checkout: svc,
		timeout:  timeout,
		logger:   logger,
	}
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.checkout.ListOrders(ctx, getSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	resp := OrderListResponseDTO{Orders: make([]OrderResponseDTO, 0, len(orders))}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, toOrderDTO(o))
	}
	respondJSON(w, http.StatusOK, resp)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.checkout.GetOrder(ctx, id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	// orders are only visible to the session that placed them
	if order.SessionID != getSessionID(r.Context()) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

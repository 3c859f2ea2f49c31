package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alebarre/italicita/internal/cart"
	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxQuantity = 99

var errQuantityLimit = errors.New("line quantity limit reached")

// CartRecorder receives cart mutations for metrics.
type CartRecorder interface {
	CartOperation(op string, total decimal.Decimal)
}

type CartHandler struct {
	carts    session.Store
	menu     Menu
	recorder CartRecorder
	timeout  time.Duration
	logger   *zap.Logger
}

func NewCartHandler(carts session.Store, menu Menu, recorder CartRecorder, timeout time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		menu:     menu,
		recorder: recorder,
		timeout:  timeout,
		logger:   logger,
	}
}

type AddItemRequestDTO struct {
	MenuItemID string `json:"menu_item_id"`
	domain.SelectionRequest
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	state, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartDTO(sessionID, state))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.MenuItemID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_menu_item_id", "menu_item_id is required")
		return
	}

	item, err := h.menu.GetMenuItem(ctx, req.MenuItemID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	sel, err := item.ResolveSelection(req.SelectionRequest)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	sessionID := getSessionID(r.Context())
	var lineID string
	state, err := h.carts.Update(ctx, sessionID, func(c *cart.Cart) error {
		if l, ok := c.Line(cart.LineID(item.ID, sel)); ok && l.Quantity >= maxQuantity {
			return errQuantityLimit
		}
		lineID = c.AddItem(*item, sel)
		return nil
	})
	if errors.Is(err, errQuantityLimit) {
		respondError(w, http.StatusUnprocessableEntity, "quantity_limit", "quantity must be at most 99")
		return
	}
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	h.mutated(r, "add", lineID, state)

	resp := toCartDTO(sessionID, state)
	resp.LineID = lineID
	respondJSON(w, http.StatusCreated, resp)
}

// PUT /api/v1/cart/items/{line_id}. A quantity of zero or less removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lineID := chi.URLParam(r, "line_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}
	if *req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	sessionID := getSessionID(r.Context())
	state, err := h.carts.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.UpdateQuantity(lineID, *req.Quantity)
		return nil
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	h.mutated(r, "update", lineID, state)

	respondJSON(w, http.StatusOK, toCartDTO(sessionID, state))
}

// DELETE /api/v1/cart/items/{line_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lineID := chi.URLParam(r, "line_id")
	sessionID := getSessionID(r.Context())
	state, err := h.carts.Update(ctx, sessionID, func(c *cart.Cart) error {
		c.RemoveItem(lineID)
		return nil
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	h.mutated(r, "remove", lineID, state)

	respondJSON(w, http.StatusOK, toCartDTO(sessionID, state))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if err := h.carts.Clear(ctx, sessionID); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	state, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	h.mutated(r, "clear", "", state)

	respondJSON(w, http.StatusOK, toCartDTO(sessionID, state))
}

func (h *CartHandler) mutated(r *http.Request, op, lineID string, state domain.CartState) {
	h.recorder.CartOperation(op, state.Total)
	h.logger.Debug("cart updated",
		zap.String("op", op),
		zap.String("session_id", getSessionID(r.Context())),
		zap.String("line_id", lineID),
		zap.String("request_id", getRequestID(r.Context())),
		zap.Int("item_count", state.ItemCount),
		zap.String("total", state.Total.String()))
}

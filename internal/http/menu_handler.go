package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alebarre/italicita/internal/cart"
	"github.com/alebarre/italicita/internal/domain"
	"github.com/alebarre/italicita/internal/pricing"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Menu is the read side of the catalog.
type Menu interface {
	ListMenuItems(ctx context.Context) ([]domain.MenuItem, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error)
}

type MenuHandler struct {
	menu    Menu
	timeout time.Duration
	logger  *zap.Logger
}

func NewMenuHandler(menu Menu, timeout time.Duration, logger *zap.Logger) *MenuHandler {
	return &MenuHandler{
		menu:    menu,
		timeout: timeout,
		logger:  logger,
	}
}

// GET /api/v1/menu[?category=]
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var items []domain.MenuItem
	var err error
	if c := r.URL.Query().Get("category"); c != "" {
		category := domain.Category(strings.ToLower(c))
		if !category.Valid() {
			respondError(w, http.StatusBadRequest, "invalid_category", "unknown category "+c)
			return
		}
		items, err = h.menu.ListByCategory(ctx, category)
	} else {
		items, err = h.menu.ListMenuItems(ctx)
	}
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	out := make([]MenuItemDTO, len(items))
	for i, item := range items {
		out[i] = toMenuItemDTO(item)
	}
	respondJSON(w, http.StatusOK, MenuResponseDTO{Items: out})
}

// GET /api/v1/menu/{item_id}
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	item, err := h.menu.GetMenuItem(ctx, chi.URLParam(r, "item_id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toMenuItemDTO(*item))
}

// POST /api/v1/menu/{item_id}/quote prices a selection without touching the cart.
func (h *MenuHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	item, err := h.menu.GetMenuItem(ctx, chi.URLParam(r, "item_id"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	sel, err := item.ResolveSelection(req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	price := pricing.CalculateItemPrice(pricing.ConfiguredItem{BasePrice: item.BasePrice, Selection: sel})
	respondJSON(w, http.StatusOK, QuoteResponseDTO{
		MenuItemID:       item.ID,
		LineID:           cart.LineID(item.ID, sel),
		Selection:        sel,
		UnitPrice:        pricing.Fixed(price),
		UnitPriceDisplay: pricing.Format(price),
	})
}

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/erazemk/shramba/internal/metrics"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/pantry"
)

// ItemsHandler exposes the pantry item lifecycle.
type ItemsHandler struct {
	Pantry  *pantry.Service
	Metrics *metrics.Metrics
}

type createItemRequest struct {
	Name       string   `json:"name" validate:"required"`
	Quantity   *float64 `json:"quantity" validate:"required"`
	ExpiryDate *string  `json:"expiryDate"`
}

type updateItemRequest struct {
	Quantity   *float64 `json:"quantity"`
	ExpiryDate *string  `json:"expiryDate"`
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := CurrentUser(r.Context())

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	expiry, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Pantry.Add(r.Context(), claims.UserID, pantry.AddInput{
		Name:       req.Name,
		Quantity:   *req.Quantity,
		ExpiryDate: expiry,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("item added", "user", claims.Email, "item", item.ID, "name", item.Name)
	jsonResponse(w, http.StatusCreated, item)
}

// ListActive handles GET /api/items.
func (h *ItemsHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ItemStatusActive)
}

// ListUsed handles GET /api/items/used.
func (h *ItemsHandler) ListUsed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ItemStatusUsed)
}

// ListWasted handles GET /api/items/wasted.
func (h *ItemsHandler) ListWasted(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ItemStatusWasted)
}

func (h *ItemsHandler) list(w http.ResponseWriter, r *http.Request, status model.ItemStatus) {
	items, err := h.Pantry.List(r.Context(), CurrentUser(r.Context()).UserID, status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := CurrentUser(r.Context())

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	expiry, err := parseOptionalDate(req.ExpiryDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.Pantry.Update(r.Context(), claims.UserID, r.PathValue("id"), pantry.UpdateInput{
		Quantity:   req.Quantity,
		ExpiryDate: expiry,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("item updated", "user", claims.Email, "item", item.ID)
	jsonResponse(w, http.StatusOK, item)
}

// Use handles POST /api/items/{id}/use.
func (h *ItemsHandler) Use(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "item used", h.Pantry.MarkUsed)
}

// Waste handles POST /api/items/{id}/waste.
func (h *ItemsHandler) Waste(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "item wasted", h.Pantry.MarkWasted)
}

// AutoWaste handles POST /api/items/{id}/auto-waste, sent by clients when
// an item passes its expiry date without being used.
func (h *ItemsHandler) AutoWaste(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "item auto-wasted", h.Pantry.AutoWaste)
}

type transitionFunc func(ctx context.Context, ownerID int64, id string) (*model.Item, error)

func (h *ItemsHandler) transition(w http.ResponseWriter, r *http.Request, msg string, fn transitionFunc) {
	claims := CurrentUser(r.Context())

	item, err := fn(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.Metrics.IncTransition(string(item.Status))
	slog.Info(msg, "user", claims.Email, "item", item.ID, "name", item.Name)
	jsonResponse(w, http.StatusOK, item)
}

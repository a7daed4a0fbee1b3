package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/store"
)

// GroceryHandler manages the caller's shopping list.
type GroceryHandler struct {
	DB *sql.DB
}

type groceryRequest struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Quantity *float64 `json:"quantity" validate:"omitempty,gt=0"`
	Unit     string   `json:"unit" validate:"max=32"`
}

func (req groceryRequest) quantity() float64 {
	if req.Quantity == nil {
		return 1
	}
	return *req.Quantity
}

// List handles GET /api/grocery.
func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListGroceryItems(r.Context(), h.DB, CurrentUser(r.Context()).UserID)
	if err != nil {
		slog.Error("failed to list grocery items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list grocery items")
		return
	}
	if items == nil {
		items = []model.GroceryItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/grocery. An entry whose name matches an existing
// one, ignoring case, is not added twice.
func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := CurrentUser(r.Context())

	var req groceryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := store.FindGroceryItemByName(r.Context(), h.DB, claims.UserID, name)
	if err != nil {
		slog.Error("failed to look up grocery item", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		jsonResponse(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Item already in grocery list",
			"item":    existing,
		})
		return
	}

	item, err := store.CreateGroceryItem(r.Context(), h.DB, claims.UserID, name, req.quantity(), strings.TrimSpace(req.Unit))
	if err != nil {
		slog.Error("failed to create grocery item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create grocery item")
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT /api/grocery/{id}.
func (h *GroceryHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := CurrentUser(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid grocery item id")
		return
	}

	var req groceryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		jsonError(w, http.StatusBadRequest, "name is required")
		return
	}

	ok, err := store.UpdateGroceryItem(r.Context(), h.DB, claims.UserID, id, name, req.quantity(), strings.TrimSpace(req.Unit))
	if err != nil {
		slog.Error("failed to update grocery item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update grocery item")
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "grocery item not found")
		return
	}

	item, err := store.GetGroceryItem(r.Context(), h.DB, claims.UserID, id)
	if err != nil || item == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/grocery/{id}.
func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid grocery item id")
		return
	}

	ok, err := store.DeleteGroceryItem(r.Context(), h.DB, CurrentUser(r.Context()).UserID, id)
	if err != nil {
		slog.Error("failed to delete grocery item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete grocery item")
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "grocery item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

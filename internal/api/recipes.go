package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/shramba/internal/recipes"
	"github.com/erazemk/shramba/internal/store"
)

// ActiveNamer lists the names of a user's active items.
type ActiveNamer interface {
	ActiveNames(ctx context.Context, ownerID int64) ([]string, error)
}

// RecipesHandler suggests recipes for the pantry and keeps bookmarks.
type RecipesHandler struct {
	DB      *sql.DB
	Pantry  ActiveNamer
	Recipes RecipeFinder
}

type toggleBookmarkRequest struct {
	RecipeID   int64           `json:"recipeId" validate:"required,gt=0"`
	RecipeData json.RawMessage `json:"recipeData"`
}

type bookmarkResponse struct {
	RecipeID   int64           `json:"recipeId"`
	RecipeData json.RawMessage `json:"recipeData"`
	CreatedAt  string          `json:"createdAt"`
}

// Suggest handles GET /api/recipes.
func (h *RecipesHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if h.Recipes == nil {
		jsonError(w, http.StatusServiceUnavailable, "recipe suggestions are not configured")
		return
	}

	names, err := h.Pantry.ActiveNames(r.Context(), CurrentUser(r.Context()).UserID)
	if err != nil {
		slog.Error("failed to list pantry names", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	found, err := h.Recipes.Suggest(r.Context(), names)
	if err != nil {
		slog.Error("recipe lookup failed", "error", err)
		jsonError(w, http.StatusBadGateway, "failed to fetch recipes")
		return
	}
	jsonResponse(w, http.StatusOK, found)
}

// Info handles GET /api/recipes/{id}/info.
func (h *RecipesHandler) Info(w http.ResponseWriter, r *http.Request) {
	if h.Recipes == nil {
		jsonError(w, http.StatusServiceUnavailable, "recipe suggestions are not configured")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}

	info, err := h.Recipes.Info(r.Context(), id)
	if errors.Is(err, recipes.ErrRecipeNotFound) {
		jsonError(w, http.StatusNotFound, "recipe not found")
		return
	}
	if err != nil {
		slog.Error("recipe info lookup failed", "recipe", id, "error", err)
		jsonError(w, http.StatusBadGateway, "failed to fetch recipe info")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"sourceUrl": info.SourceURL})
}

// ListBookmarks handles GET /api/recipes/bookmarks.
func (h *RecipesHandler) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	marks, err := store.ListBookmarks(r.Context(), h.DB, CurrentUser(r.Context()).UserID)
	if err != nil {
		slog.Error("failed to list bookmarks", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}

	out := make([]bookmarkResponse, 0, len(marks))
	for _, b := range marks {
		data := json.RawMessage(b.RecipeData)
		if !json.Valid(data) {
			data = json.RawMessage("null")
		}
		out = append(out, bookmarkResponse{
			RecipeID:   b.RecipeID,
			RecipeData: data,
			CreatedAt:  store.FormatTime(b.CreatedAt),
		})
	}
	jsonResponse(w, http.StatusOK, out)
}

// ToggleBookmark handles POST /api/recipes/bookmarks.
func (h *RecipesHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	claims := CurrentUser(r.Context())

	var req toggleBookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	data := []byte(req.RecipeData)
	if len(data) == 0 {
		data = []byte("null")
	}

	bookmarked, err := store.ToggleBookmark(r.Context(), h.DB, claims.UserID, req.RecipeID, data)
	if err != nil {
		slog.Error("failed to toggle bookmark", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to toggle bookmark")
		return
	}

	slog.Info("bookmark toggled", "user", claims.Email, "recipe", req.RecipeID, "bookmarked", bookmarked)
	jsonResponse(w, http.StatusOK, map[string]bool{"bookmarked": bookmarked})
}

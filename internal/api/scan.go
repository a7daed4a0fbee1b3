package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/shramba/internal/barcode"
	"github.com/erazemk/shramba/internal/catalog"
	"github.com/erazemk/shramba/internal/imaging"
	"github.com/erazemk/shramba/internal/pantry"
)

// ScanHandler turns a photo of a product barcode into a pantry item.
type ScanHandler struct {
	Pantry  *pantry.Service
	Decoder barcode.Decoder
	Catalog ProductCatalog
}

// Scan handles POST /api/scan with a multipart "image" field.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if h.Decoder == nil || h.Catalog == nil {
		jsonError(w, http.StatusServiceUnavailable, "barcode scanning is not configured")
		return
	}
	claims := CurrentUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	scan, err := imaging.Prepare(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid image: "+err.Error())
		return
	}

	code, err := h.Decoder.Decode(r.Context(), scan.Data)
	if err != nil {
		slog.Error("barcode decoding failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to process image")
		return
	}
	if code == "" {
		jsonError(w, http.StatusBadRequest, "no barcode detected")
		return
	}

	product, err := h.Catalog.Lookup(r.Context(), code)
	if errors.Is(err, catalog.ErrProductNotFound) {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		slog.Error("product lookup failed", "barcode", code, "error", err)
		jsonError(w, http.StatusBadGateway, "failed to look up product")
		return
	}

	item, err := h.Pantry.Add(r.Context(), claims.UserID, pantry.AddInput{
		Name:     product.Name,
		Quantity: 1,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slog.Info("item scanned", "user", claims.Email, "barcode", code, "item", item.ID, "name", item.Name)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"barcode": code,
		"product": product,
		"item":    item,
	})
}

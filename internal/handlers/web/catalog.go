// file: internal/handlers/web/catalog.go
package web

import (
	"net/http"
)

// ListSectors serves the sector catalog.
// GET /catalog/sectors
func (h *Handler) ListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.services.CatalogService.ListSectors(r.Context())
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, sectors)
}

// ListCategories serves expertise categories, optionally filtered by sector.
// GET /catalog/categories?sector_id=
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.services.CatalogService.ListCategories(r.Context(), queryInt64(r.URL.Query(), "sector_id"))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, categories)
}

// ListExpertise serves expertise tags, optionally filtered by category.
// GET /catalog/expertise?category_id=
func (h *Handler) ListExpertise(w http.ResponseWriter, r *http.Request) {
	tags, err := h.services.CatalogService.ListExpertise(r.Context(), queryInt64(r.URL.Query(), "category_id"))
	if err != nil {
		h.resp.WriteError(w, r, err)
		return
	}
	h.resp.WriteSuccess(w, r, tags)
}

package handler

import (
	"net/http"

	"mechanical-burger/internal/model"
	"mechanical-burger/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CatalogHandler handles category, burger and customization requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListCategories handles GET /api/categories requests.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// CreateCategory handles POST /api/admin/categories requests.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category model.Category
	if !decodeJSON(w, r, &category, h.logger) {
		return
	}

	id, err := h.service.CreateCategory(r.Context(), category)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// UpdateCategory handles PATCH /api/admin/categories/{id} requests.
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch model.CategoryPatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}

	if err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory handles DELETE /api/admin/categories/{id} requests.
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMenuItems handles GET /api/burgers requests.
func (h *CatalogHandler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListMenuItems(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateMenuItem handles POST /api/admin/burgers requests.
func (h *CatalogHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item model.MenuItem
	if !decodeJSON(w, r, &item, h.logger) {
		return
	}

	id, err := h.service.CreateMenuItem(r.Context(), item)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// UpdateMenuItem handles PATCH /api/admin/burgers/{id} requests.
func (h *CatalogHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var patch model.MenuItemPatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}

	if err := h.service.UpdateMenuItem(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMenuItem handles DELETE /api/admin/burgers/{id} requests.
func (h *CatalogHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMenuItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCustomizations handles GET /api/customizations requests.
func (h *CatalogHandler) ListCustomizations(w http.ResponseWriter, r *http.Request) {
	options, err := h.service.ListCustomizations(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// CreateCustomization handles POST /api/admin/customizations requests.
func (h *CatalogHandler) CreateCustomization(w http.ResponseWriter, r *http.Request) {
	var option model.CustomizationOption
	if !decodeJSON(w, r, &option, h.logger) {
		return
	}

	id, err := h.service.CreateCustomization(r.Context(), option)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

// UpdateCustomization handles PATCH /api/admin/customizations/{id} requests.
func (h *CatalogHandler) UpdateCustomization(w http.ResponseWriter, r *http.Request) {
	var patch model.CustomizationPatch
	if !decodeJSON(w, r, &patch, h.logger) {
		return
	}

	if err := h.service.UpdateCustomization(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCustomization handles DELETE /api/admin/customizations/{id} requests.
func (h *CatalogHandler) DeleteCustomization(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCustomization(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

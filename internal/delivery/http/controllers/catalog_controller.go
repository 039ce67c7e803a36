package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// CatalogRequest is the request body for POST /{kind}.
type CatalogRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

// CatalogSuccessResponse is the success response envelope for a single catalog item.
type CatalogSuccessResponse struct {
	Data  *domain.CatalogItem `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CatalogListSuccessResponse is the success response envelope for GET /{kind}.
type CatalogListSuccessResponse struct {
	Data  helpers.ListResponse[*domain.CatalogItem] `json:"data"`
	Error *helpers.APIError                         `json:"error"`
}

// CatalogController serves one catalog kind. The router mounts one per kind.
type CatalogController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
	Kind    domain.CatalogKind
}

func NewCatalogController(logger *slog.Logger, svc domain.CatalogService, kind domain.CatalogKind) *CatalogController {
	return &CatalogController{
		Logger:  logger,
		Service: svc,
		Kind:    kind,
	}
}

// List godoc
// @Summary List catalog items
// @Description Lists categories, locales, resources, sponsors or caterings.
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Collection" Enums(categories, locales, resources, sponsors, caterings)
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.CatalogListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /{kind} [get]
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	items, total, err := c.Service.List(r.Context(), c.Kind, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewListResponse(items, params, total))
}

// Get godoc
// @Summary Get a catalog item
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Collection" Enums(categories, locales, resources, sponsors, caterings)
// @Param id path int true "Item ID"
// @Success 200 {object} controllers.CatalogSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /{kind}/{id} [get]
func (c *CatalogController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	item, err := c.Service.Get(r.Context(), c.Kind, id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create a catalog item
// @Description Name and description must be unique within the collection.
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param kind path string true "Collection" Enums(categories, locales, resources, sponsors, caterings)
// @Param item body CatalogRequest true "Item data"
// @Success 201 {object} controllers.CatalogSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /{kind} [post]
func (c *CatalogController) Create(w http.ResponseWriter, r *http.Request) {
	var req CatalogRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	item := &domain.CatalogItem{Kind: c.Kind, Name: req.Name, Description: req.Description}
	if err := c.Service.Create(r.Context(), item); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, item)
}

// Delete godoc
// @Summary Delete a catalog item
// @Description Refused while any event still refers to the item.
// @Tags catalog
// @Security BearerAuth
// @Param kind path string true "Collection" Enums(categories, locales, resources, sponsors, caterings)
// @Param id path int true "Item ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /{kind}/{id} [delete]
func (c *CatalogController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), c.Kind, id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

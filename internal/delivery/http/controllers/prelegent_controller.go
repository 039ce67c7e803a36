package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// CreatePrelegentRequest is the request body for POST /prelegents.
type CreatePrelegentRequest struct {
	UserID      int64  `json:"user_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

// PrelegentSuccessResponse is the success response envelope for a single prelegent.
type PrelegentSuccessResponse struct {
	Data  *domain.Prelegent `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PrelegentListSuccessResponse is the success response envelope for GET /prelegents.
type PrelegentListSuccessResponse struct {
	Data  helpers.ListResponse[*domain.Prelegent] `json:"data"`
	Error *helpers.APIError                       `json:"error"`
}

type PrelegentController struct {
	Logger  *slog.Logger
	Service domain.PrelegentService
}

func NewPrelegentController(logger *slog.Logger, svc domain.PrelegentService) *PrelegentController {
	return &PrelegentController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List prelegents
// @Tags prelegents
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.PrelegentListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /prelegents [get]
func (c *PrelegentController) List(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	items, total, err := c.Service.List(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewListResponse(items, params, total))
}

// Get godoc
// @Summary Get a prelegent
// @Tags prelegents
// @Produce json
// @Security BearerAuth
// @Param id path int true "Prelegent ID"
// @Success 200 {object} controllers.PrelegentSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /prelegents/{id} [get]
func (c *PrelegentController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	p, err := c.Service.Get(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// Create godoc
// @Summary Create a prelegent profile
// @Description Attaches a speaker profile to an existing user. Members are promoted to the prelegent role.
// @Tags prelegents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param prelegent body CreatePrelegentRequest true "Prelegent data"
// @Success 201 {object} controllers.PrelegentSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /prelegents [post]
func (c *PrelegentController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePrelegentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p := &domain.Prelegent{UserID: req.UserID, Name: req.Name, Description: req.Description}
	if err := c.Service.Create(r.Context(), p); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, p)
}

// Delete godoc
// @Summary Delete a prelegent profile
// @Description Refused while any event lists the prelegent. The owning user drops back to member.
// @Tags prelegents
// @Security BearerAuth
// @Param id path int true "Prelegent ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /prelegents/{id} [delete]
func (c *PrelegentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

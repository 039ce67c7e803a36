package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"
)

// EventRequest is the request body for POST /events and PUT /events/{id}.
// It is the full desired state: relation id lists replace the current links.
type EventRequest struct {
	LocaleID     int64     `json:"locale_id" validate:"required,gt=0"`
	CategoryID   int64     `json:"category_id" validate:"required,gt=0"`
	Name         string    `json:"name" validate:"required,max=255"`
	Description  string    `json:"description" validate:"required"`
	Price        *float64  `json:"price" validate:"required,gte=0,lte=99999999.99"`
	StartedAt    time.Time `json:"started_at" validate:"required"`
	EndedAt      time.Time `json:"ended_at" validate:"required,gtfield=StartedAt"`
	PrelegentIDs []int64   `json:"prelegent_ids" validate:"omitempty,unique,dive,gt=0"`
	ResourceIDs  []int64   `json:"resource_ids" validate:"omitempty,unique,dive,gt=0"`
	SponsorIDs   []int64   `json:"sponsor_ids" validate:"omitempty,unique,dive,gt=0"`
	CateringIDs  []int64   `json:"catering_ids" validate:"omitempty,unique,dive,gt=0"`
}

func (req *EventRequest) toInput() *domain.EventInput {
	in := &domain.EventInput{
		LocaleID:     req.LocaleID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		StartedAt:    req.StartedAt,
		EndedAt:      req.EndedAt,
		PrelegentIDs: req.PrelegentIDs,
		ResourceIDs:  req.ResourceIDs,
		SponsorIDs:   req.SponsorIDs,
		CateringIDs:  req.CateringIDs,
	}
	if req.Price != nil {
		in.Price = *req.Price
	}
	return in
}

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for GET /events.
type EventListSuccessResponse struct {
	Data  helpers.ListResponse[*domain.Event] `json:"data"`
	Error *helpers.APIError                   `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Metrics *metrics.Metrics
}

func NewEventController(logger *slog.Logger, svc domain.EventService, m *metrics.Metrics) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Metrics: m,
	}
}

func (c *EventController) record(operation string, err error) {
	c.Metrics.EventWritesTotal.WithLabelValues(operation, metrics.Outcome(err)).Inc()
}

// ListEvents godoc
// @Summary List events
// @Description Returns a page of events with their relation ids and ticket counts, ordered by start time.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewListResponse(events, params, total))
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event with its prelegents, resources, sponsors and caterings. Prelegents and resources must be free for the whole window.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), req.toInput())
	c.record("create", err)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Replace an event
// @Description Replaces every field and relation of the event. The event's own bookings never conflict with themselves.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, req.toInput())
	c.record("update", err)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and its links. Refused while tickets exist.
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	err := c.Service.DeleteEvent(r.Context(), id)
	c.record("delete", err)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"
)

// CreateTicketRequest is the request body for POST /tickets.
type CreateTicketRequest struct {
	EventID int64 `json:"event_id" validate:"required,gt=0"`
}

// TicketSuccessResponse is the success response envelope for a single ticket.
type TicketSuccessResponse struct {
	Data  *domain.Ticket    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// TicketListSuccessResponse is the success response envelope for GET /tickets.
type TicketListSuccessResponse struct {
	Data  []*domain.Ticket  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type TicketController struct {
	Logger  *slog.Logger
	Service domain.TicketService
	Metrics *metrics.Metrics
}

func NewTicketController(logger *slog.Logger, svc domain.TicketService, m *metrics.Metrics) *TicketController {
	return &TicketController{
		Logger:  logger,
		Service: svc,
		Metrics: m,
	}
}

func (c *TicketController) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return id, ok
}

// ListMyTickets godoc
// @Summary List my tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.TicketListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /tickets [get]
func (c *TicketController) ListMyTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	tickets, err := c.Service.ListMyTickets(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if tickets == nil {
		tickets = []*domain.Ticket{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tickets)
}

// GetTicket godoc
// @Summary Get one of my tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 200 {object} controllers.TicketSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /tickets/{id} [get]
func (c *TicketController) GetTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	ticket, err := c.Service.GetTicket(r.Context(), userID, id)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ticket)
}

// CreateTicket godoc
// @Summary Buy a ticket
// @Description Buys a ticket for an event that has not ended. Refused when the caller already holds a ticket for this event or for one overlapping it.
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ticket body CreateTicketRequest true "Event to attend"
// @Success 201 {object} controllers.TicketSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tickets [post]
func (c *TicketController) CreateTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	var req CreateTicketRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ticket, err := c.Service.CreateTicket(r.Context(), userID, req.EventID)
	c.Metrics.TicketOperationsTotal.WithLabelValues("purchase", metrics.Outcome(err)).Inc()
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, ticket)
}

// DeleteTicket godoc
// @Summary Cancel one of my tickets
// @Description Cancels the ticket. Refused once the event has started.
// @Tags tickets
// @Security BearerAuth
// @Param id path int true "Ticket ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Router /tickets/{id} [delete]
func (c *TicketController) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.userID(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathID(w, r, "id")
	if !ok {
		return
	}
	err := c.Service.DeleteTicket(r.Context(), userID, id)
	c.Metrics.TicketOperationsTotal.WithLabelValues("cancel", metrics.Outcome(err)).Inc()
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

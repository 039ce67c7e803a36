package domain

import (
	"context"
	"time"
)

// Ticket is a member's admission to one event. Price is the event price at
// purchase time and never changes afterwards.
// swagger:model Ticket
type Ticket struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketRepository defines storage operations for tickets.
type TicketRepository interface {
	// Create inserts the ticket and records the event window it occupies.
	Create(ctx context.Context, ticket *Ticket, window TimeWindow) error
	GetByID(ctx context.Context, id int64) (*Ticket, error)
	GetByEventAndUser(ctx context.Context, eventID, userID int64) (*Ticket, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Ticket, error)
	Delete(ctx context.Context, id int64) error
	// Reschedule rewrites the recorded window of every ticket for the event.
	Reschedule(ctx context.Context, eventID int64, window TimeWindow) error
}

// TicketService defines member-facing ticket operations.
type TicketService interface {
	CreateTicket(ctx context.Context, userID, eventID int64) (*Ticket, error)
	DeleteTicket(ctx context.Context, userID, ticketID int64) error
	GetTicket(ctx context.Context, userID, ticketID int64) (*Ticket, error)
	ListMyTickets(ctx context.Context, userID int64) ([]*Ticket, error)
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventhub/internal/domain"
)

type ticketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) domain.TicketRepository {
	return &ticketRepository{DB: db}
}

func (r *ticketRepository) Create(ctx context.Context, t *domain.Ticket, window domain.TimeWindow) error {
	query := `
		INSERT INTO tickets (event_id, user_id, price, during, created_at)
		VALUES ($1, $2, $3, tstzrange($4, $5, '[)'), $6)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query,
		t.EventID, t.UserID, t.Price, window.Start, window.End, t.CreatedAt,
	).Scan(&t.ID)
	return mapError(err, "create ticket")
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, price, created_at
		FROM tickets
		WHERE id = $1
	`
	t := &domain.Ticket{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&t.ID, &t.EventID, &t.UserID, &t.Price, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("get ticket %d", id))
	}
	return t, nil
}

func (r *ticketRepository) GetByEventAndUser(ctx context.Context, eventID, userID int64) (*domain.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, price, created_at
		FROM tickets
		WHERE event_id = $1 AND user_id = $2
	`
	t := &domain.Ticket{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, eventID, userID).Scan(&t.ID, &t.EventID, &t.UserID, &t.Price, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err, "get ticket by event and user")
	}
	return t, nil
}

func (r *ticketRepository) ListByUserID(ctx context.Context, userID int64) ([]*domain.Ticket, error) {
	query := `
		SELECT id, event_id, user_id, price, created_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at, id
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, "list tickets")
	}
	defer rows.Close()
	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		t := &domain.Ticket{}
		if err := rows.Scan(&t.ID, &t.EventID, &t.UserID, &t.Price, &t.CreatedAt); err != nil {
			return nil, mapError(err, "scan ticket")
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list tickets")
	}
	return tickets, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete ticket")
	}
	return affectedOne(res, fmt.Sprintf("delete ticket %d", id))
}

func (r *ticketRepository) Reschedule(ctx context.Context, eventID int64, window domain.TimeWindow) error {
	query := `UPDATE tickets SET during = tstzrange($2, $3, '[)') WHERE event_id = $1`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, eventID, window.Start, window.End)
	return mapError(err, fmt.Sprintf("reschedule tickets of event %d", eventID))
}

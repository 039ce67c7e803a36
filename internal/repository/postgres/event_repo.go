package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"eventhub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `
	e.id, e.locale_id, e.category_id, e.name, e.description, e.price,
	e.started_at, e.ended_at, e.created_at, e.updated_at,
	ARRAY(SELECT prelegent_id FROM event_prelegents WHERE event_id = e.id ORDER BY prelegent_id) AS prelegent_ids,
	ARRAY(SELECT resource_id FROM event_resources WHERE event_id = e.id ORDER BY resource_id) AS resource_ids,
	ARRAY(SELECT sponsor_id FROM event_sponsors WHERE event_id = e.id ORDER BY sponsor_id) AS sponsor_ids,
	ARRAY(SELECT catering_id FROM event_caterings WHERE event_id = e.id ORDER BY catering_id) AS catering_ids,
	(SELECT COUNT(*) FROM tickets t WHERE t.event_id = e.id) AS ticket_count`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var prelegents, resources, sponsors, caterings pq.Int64Array
	err := row.Scan(
		&e.ID, &e.LocaleID, &e.CategoryID, &e.Name, &e.Description, &e.Price,
		&e.StartedAt, &e.EndedAt, &e.CreatedAt, &e.UpdatedAt,
		&prelegents, &resources, &sponsors, &caterings, &e.TicketCount,
	)
	if err != nil {
		return nil, err
	}
	e.PrelegentIDs = int64s(prelegents)
	e.ResourceIDs = int64s(resources)
	e.SponsorIDs = int64s(sponsors)
	e.CateringIDs = int64s(caterings)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (locale_id, category_id, name, description, price, started_at, ended_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query,
		e.LocaleID, e.CategoryID, e.Name, e.Description, e.Price,
		e.StartedAt, e.EndedAt, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	return mapError(err, "create event")
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET locale_id = $1, category_id = $2, name = $3, description = $4, price = $5,
			started_at = $6, ended_at = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := conn(ctx, r.DB).ExecContext(ctx, query,
		e.LocaleID, e.CategoryID, e.Name, e.Description, e.Price,
		e.StartedAt, e.EndedAt, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return mapError(err, "update event")
	}
	return affectedOne(res, "update event")
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.id = $1
	`
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("get event %d", id))
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	q := conn(ctx, r.DB)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, mapError(err, "count events")
	}

	query := `SELECT ` + eventColumns + `
		FROM events e
		ORDER BY e.started_at, e.id
		LIMIT $1 OFFSET $2
	`
	rows, err := q.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, mapError(err, "list events")
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, mapError(err, "scan event")
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "list events")
	}
	return events, total, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM events WHERE id = $1`
	res, err := conn(ctx, r.DB).ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err, "delete event")
	}
	return affectedOne(res, fmt.Sprintf("delete event %d", id))
}

func (r *eventRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var taken bool
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE name = $1 AND id <> $2)`
	if err := conn(ctx, r.DB).QueryRowContext(ctx, query, name, excludeID).Scan(&taken); err != nil {
		return false, mapError(err, "check event name")
	}
	return taken, nil
}

func (r *eventRepository) DescriptionTaken(ctx context.Context, description string, excludeID int64) (bool, error) {
	var taken bool
	query := `SELECT EXISTS(SELECT 1 FROM events WHERE description = $1 AND id <> $2)`
	if err := conn(ctx, r.DB).QueryRowContext(ctx, query, description, excludeID).Scan(&taken); err != nil {
		return false, mapError(err, "check event description")
	}
	return taken, nil
}

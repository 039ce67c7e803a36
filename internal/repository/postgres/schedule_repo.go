package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventhub/internal/domain"
)

type scheduleRepository struct {
	DB *sql.DB
}

// NewScheduleRepository returns the conflict checker. Overlap is computed on
// the events table itself so that an in-flight update of an event's window is
// visible to the same transaction.
func NewScheduleRepository(db *sql.DB) domain.ScheduleRepository {
	return &scheduleRepository{DB: db}
}

func (r *scheduleRepository) FindOverlaps(ctx context.Context, kind domain.RelationKind, entityID int64, window domain.TimeWindow, excludeEventID int64) ([]domain.Overlap, error) {
	if !kind.Scheduled() {
		return nil, domain.Invalidf("%s links are not scheduled", kind)
	}
	t, err := relationTableFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT e.id, e.name, e.started_at, e.ended_at
		FROM events e
		JOIN %s l ON l.event_id = e.id
		WHERE l.%s = $1
			AND e.started_at < $3
			AND e.ended_at > $2
			AND e.id <> $4
		ORDER BY e.started_at, e.id
	`, t.junction, t.column)
	return r.query(ctx, fmt.Sprintf("find %s %d overlaps", kind, entityID), query, entityID, window.Start, window.End, excludeEventID)
}

func (r *scheduleRepository) FindUserOverlaps(ctx context.Context, userID int64, window domain.TimeWindow, excludeEventID int64) ([]domain.Overlap, error) {
	query := `
		SELECT e.id, e.name, e.started_at, e.ended_at
		FROM events e
		JOIN tickets t ON t.event_id = e.id
		WHERE t.user_id = $1
			AND e.started_at < $3
			AND e.ended_at > $2
			AND e.id <> $4
		ORDER BY e.started_at, e.id
	`
	return r.query(ctx, fmt.Sprintf("find user %d overlaps", userID), query, userID, window.Start, window.End, excludeEventID)
}

func (r *scheduleRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Overlap, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, op)
	}
	defer rows.Close()
	out := make([]domain.Overlap, 0)
	for rows.Next() {
		var o domain.Overlap
		if err := rows.Scan(&o.EventID, &o.Name, &o.StartedAt, &o.EndedAt); err != nil {
			return nil, mapError(err, op)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, op)
	}
	return out, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventhub/internal/domain"
)

// relationTable describes the junction table behind one relation kind.
type relationTable struct {
	junction string
	column   string
	target   string
}

var relationTables = map[domain.RelationKind]relationTable{
	domain.RelationPrelegent: {junction: "event_prelegents", column: "prelegent_id", target: "prelegents"},
	domain.RelationResource:  {junction: "event_resources", column: "resource_id", target: "resources"},
	domain.RelationSponsor:   {junction: "event_sponsors", column: "sponsor_id", target: "sponsors"},
	domain.RelationCatering:  {junction: "event_caterings", column: "catering_id", target: "caterings"},
}

func relationTableFor(kind domain.RelationKind) (relationTable, error) {
	t, ok := relationTables[kind]
	if !ok {
		return relationTable{}, domain.Invalidf("unknown relation kind %q", kind)
	}
	return t, nil
}

type eventRelationRepository struct {
	DB *sql.DB
}

func NewEventRelationRepository(db *sql.DB) domain.EventRelationRepository {
	return &eventRelationRepository{DB: db}
}

func (r *eventRelationRepository) TargetExists(ctx context.Context, kind domain.RelationKind, targetID int64) (bool, error) {
	t, err := relationTableFor(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, t.target)
	if err := conn(ctx, r.DB).QueryRowContext(ctx, query, targetID).Scan(&exists); err != nil {
		return false, mapError(err, "check "+string(kind))
	}
	return exists, nil
}

func (r *eventRelationRepository) Add(ctx context.Context, kind domain.RelationKind, eventID, targetID int64, window domain.TimeWindow) error {
	t, err := relationTableFor(kind)
	if err != nil {
		return err
	}
	op := fmt.Sprintf("link %s %d to event %d", kind, targetID, eventID)
	if kind.Scheduled() {
		query := fmt.Sprintf(`
			INSERT INTO %s (event_id, %s, during)
			VALUES ($1, $2, tstzrange($3, $4, '[)'))
		`, t.junction, t.column)
		_, err = conn(ctx, r.DB).ExecContext(ctx, query, eventID, targetID, window.Start, window.End)
		return mapError(err, op)
	}
	query := fmt.Sprintf(`INSERT INTO %s (event_id, %s) VALUES ($1, $2)`, t.junction, t.column)
	_, err = conn(ctx, r.DB).ExecContext(ctx, query, eventID, targetID)
	return mapError(err, op)
}

func (r *eventRelationRepository) DeleteAll(ctx context.Context, kind domain.RelationKind, eventID int64) error {
	t, err := relationTableFor(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE event_id = $1`, t.junction)
	_, err = conn(ctx, r.DB).ExecContext(ctx, query, eventID)
	return mapError(err, fmt.Sprintf("unlink %ss from event %d", kind, eventID))
}

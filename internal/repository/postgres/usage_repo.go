package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventhub/internal/domain"
)

var usageQueries = map[domain.UsageKind]string{
	domain.UsageCategory:      `SELECT COUNT(*) FROM events WHERE category_id = $1`,
	domain.UsageLocale:        `SELECT COUNT(*) FROM events WHERE locale_id = $1`,
	domain.UsageResource:      `SELECT COUNT(*) FROM event_resources WHERE resource_id = $1`,
	domain.UsageSponsor:       `SELECT COUNT(*) FROM event_sponsors WHERE sponsor_id = $1`,
	domain.UsageCatering:      `SELECT COUNT(*) FROM event_caterings WHERE catering_id = $1`,
	domain.UsagePrelegent:     `SELECT COUNT(*) FROM event_prelegents WHERE prelegent_id = $1`,
	domain.UsageEventTickets:  `SELECT COUNT(*) FROM tickets WHERE event_id = $1`,
	domain.UsageUserPrelegent: `SELECT COUNT(*) FROM prelegents WHERE user_id = $1`,
	domain.UsageUserTickets:   `SELECT COUNT(*) FROM tickets WHERE user_id = $1`,
}

type usageRepository struct {
	DB *sql.DB
}

func NewUsageRepository(db *sql.DB) domain.UsageRepository {
	return &usageRepository{DB: db}
}

func (r *usageRepository) CountUsages(ctx context.Context, kind domain.UsageKind, id int64) (int, error) {
	query, ok := usageQueries[kind]
	if !ok {
		return 0, domain.Invalidf("unknown usage kind %q", kind)
	}
	var n int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, mapError(err, fmt.Sprintf("count %s %d usages", kind, id))
	}
	return n, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventhub/internal/domain"
)

var catalogTables = map[domain.CatalogKind]string{
	domain.CatalogCategory: "categories",
	domain.CatalogLocale:   "locales",
	domain.CatalogResource: "resources",
	domain.CatalogSponsor:  "sponsors",
	domain.CatalogCatering: "caterings",
}

func catalogTable(kind domain.CatalogKind) (string, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return "", domain.Invalidf("unknown catalog kind %q", kind)
	}
	return t, nil
}

type catalogRepository struct {
	DB *sql.DB
}

// NewCatalogRepository stores categories, locales, resources, sponsors and
// caterings. They share one shape and live in one table each.
func NewCatalogRepository(db *sql.DB) domain.CatalogRepository {
	return &catalogRepository{DB: db}
}

func (r *catalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	table, err := catalogTable(item.Kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, table)
	err = conn(ctx, r.DB).QueryRowContext(ctx, query, item.Name, item.Description, item.CreatedAt, item.UpdatedAt).Scan(&item.ID)
	return mapError(err, "create "+string(item.Kind))
}

func (r *catalogRepository) GetByID(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogItem, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, name, description, created_at, updated_at FROM %s WHERE id = $1`, table)
	item := &domain.CatalogItem{Kind: kind}
	err = conn(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("get %s %d", kind, id))
	}
	return item, nil
}

func (r *catalogRepository) List(ctx context.Context, kind domain.CatalogKind, params domain.PaginationParams) ([]*domain.CatalogItem, int, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, 0, err
	}
	q := conn(ctx, r.DB)
	var total int
	if err := q.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&total); err != nil {
		return nil, 0, mapError(err, "count "+kind.Plural())
	}
	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at
		FROM %s
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, table)
	rows, err := q.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, mapError(err, "list "+kind.Plural())
	}
	defer rows.Close()
	items := make([]*domain.CatalogItem, 0)
	for rows.Next() {
		item := &domain.CatalogItem{Kind: kind}
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, 0, mapError(err, "scan "+string(kind))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "list "+kind.Plural())
	}
	return items, total, nil
}

func (r *catalogRepository) Delete(ctx context.Context, kind domain.CatalogKind, id int64) error {
	table, err := catalogTable(kind)
	if err != nil {
		return err
	}
	res, err := conn(ctx, r.DB).ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return mapError(err, fmt.Sprintf("delete %s %d", kind, id))
	}
	return affectedOne(res, fmt.Sprintf("delete %s %d", kind, id))
}

func (r *catalogRepository) Exists(ctx context.Context, kind domain.CatalogKind, id int64) (bool, error) {
	return r.exists(ctx, kind, "id", id)
}

func (r *catalogRepository) NameTaken(ctx context.Context, kind domain.CatalogKind, name string) (bool, error) {
	return r.exists(ctx, kind, "name", name)
}

func (r *catalogRepository) DescriptionTaken(ctx context.Context, kind domain.CatalogKind, description string) (bool, error) {
	return r.exists(ctx, kind, "description", description)
}

func (r *catalogRepository) exists(ctx context.Context, kind domain.CatalogKind, column string, value any) (bool, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return false, err
	}
	var found bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)`, table, column)
	if err := conn(ctx, r.DB).QueryRowContext(ctx, query, value).Scan(&found); err != nil {
		return false, mapError(err, fmt.Sprintf("check %s %s", kind, column))
	}
	return found, nil
}

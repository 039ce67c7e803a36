package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventhub/internal/domain"
)

type prelegentRepository struct {
	DB *sql.DB
}

func NewPrelegentRepository(db *sql.DB) domain.PrelegentRepository {
	return &prelegentRepository{DB: db}
}

func (r *prelegentRepository) Create(ctx context.Context, p *domain.Prelegent) error {
	query := `
		INSERT INTO prelegents (user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, p.UserID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	return mapError(err, "create prelegent")
}

func (r *prelegentRepository) GetByID(ctx context.Context, id int64) (*domain.Prelegent, error) {
	return r.getOne(ctx, fmt.Sprintf("get prelegent %d", id), `WHERE id = $1`, id)
}

func (r *prelegentRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Prelegent, error) {
	return r.getOne(ctx, fmt.Sprintf("get prelegent of user %d", userID), `WHERE user_id = $1`, userID)
}

func (r *prelegentRepository) getOne(ctx context.Context, op, where string, arg int64) (*domain.Prelegent, error) {
	query := `SELECT id, user_id, name, description, created_at, updated_at FROM prelegents ` + where
	p := &domain.Prelegent{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, arg).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapError(err, op)
	}
	return p, nil
}

func (r *prelegentRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Prelegent, int, error) {
	q := conn(ctx, r.DB)
	var total int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM prelegents`).Scan(&total); err != nil {
		return nil, 0, mapError(err, "count prelegents")
	}
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM prelegents
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := q.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, mapError(err, "list prelegents")
	}
	defer rows.Close()
	out := make([]*domain.Prelegent, 0)
	for rows.Next() {
		p := &domain.Prelegent{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, mapError(err, "scan prelegent")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError(err, "list prelegents")
	}
	return out, total, nil
}

func (r *prelegentRepository) Delete(ctx context.Context, id int64) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx, `DELETE FROM prelegents WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete prelegent")
	}
	return affectedOne(res, fmt.Sprintf("delete prelegent %d", id))
}

func (r *prelegentRepository) NameTaken(ctx context.Context, name string) (bool, error) {
	var taken bool
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM prelegents WHERE name = $1)`, name).Scan(&taken)
	if err != nil {
		return false, mapError(err, "check prelegent name")
	}
	return taken, nil
}

func (r *prelegentRepository) DescriptionTaken(ctx context.Context, description string) (bool, error) {
	var taken bool
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM prelegents WHERE description = $1)`, description).Scan(&taken)
	if err != nil {
		return false, mapError(err, "check prelegent description")
	}
	return taken, nil
}

package attributes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalog-api/catalog-api/internal/catalog/shared"
	"github.com/catalog-api/catalog-api/internal/platform/httpx"
)

// FilterColumns is the allow-list of recognized list filter parameters.
var FilterColumns = map[string]shared.Column{
	"type":  {Expr: "type = $%d", Kind: shared.KindText},
	"value": {Expr: "value = $%d", Kind: shared.KindText},
}

type Repository interface {
	List(ctx context.Context, fs shared.FilterSet) ([]Attribute, error)
	Get(ctx context.Context, id int64) (Attribute, error)
	Create(ctx context.Context, attr Attribute) (Attribute, error)
	Update(ctx context.Context, id int64, attr Attribute) (Attribute, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, fs shared.FilterSet) ([]Attribute, error) {
	query := `SELECT id, type, value, created_at, modified_at FROM attributes WHERE 1=1`
	args := []any{}
	for _, cond := range fs.Conds {
		args = append(args, cond.Value)
		query += " AND " + fmt.Sprintf(cond.Expr, len(args))
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attrs := []Attribute{}
	for rows.Next() {
		var a Attribute
		if err := rows.Scan(&a.ID, &a.Type, &a.Value, &a.CreatedAt, &a.ModifiedAt); err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Attribute, error) {
	query := `SELECT id, type, value, created_at, modified_at FROM attributes WHERE id = $1`
	var a Attribute
	err := r.db.QueryRow(ctx, query, id).Scan(&a.ID, &a.Type, &a.Value, &a.CreatedAt, &a.ModifiedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attribute{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *repository) Create(ctx context.Context, attr Attribute) (Attribute, error) {
	query := `INSERT INTO attributes (type, value, created_at, modified_at) VALUES ($1, $2, $3, $3) RETURNING id`
	now := time.Now().UTC()
	if err := r.db.QueryRow(ctx, query, attr.Type, attr.Value, now).Scan(&attr.ID); err != nil {
		return Attribute{}, err
	}
	attr.CreatedAt = now
	attr.ModifiedAt = now
	return attr, nil
}

func (r *repository) Update(ctx context.Context, id int64, attr Attribute) (Attribute, error) {
	query := `UPDATE attributes SET type = $1, value = $2, modified_at = $3 WHERE id = $4 RETURNING created_at`
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, query, attr.Type, attr.Value, now, id).Scan(&attr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Attribute{}, httpx.ErrNotFound
	}
	if err != nil {
		return Attribute{}, err
	}
	attr.ID = id
	attr.ModifiedAt = now
	return attr, nil
}

// Delete removes the attribute. Association rows referencing it are removed
// by the ON DELETE CASCADE on product_attributes; products are untouched.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

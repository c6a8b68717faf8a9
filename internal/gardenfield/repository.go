package gardenfield

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for garden fields. Fields are soft
// deleted; every query excludes rows with deleted_at set.
type Repository interface {
	Create(ctx context.Context, f *GardenField) error
	GetByID(ctx context.Context, id string) (*GardenField, error)
	List(ctx context.Context, filter Filter) ([]*GardenField, int, error)
	Update(ctx context.Context, f *GardenField) error
	SoftDelete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, f *GardenField) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.garden_fields").
		Columns("owner_id", "name", "description", "size_m2", "price_per_m2").
		Values(f.OwnerID, f.Name, f.Description, f.SizeM2, f.PricePerM2).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create garden field query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*GardenField, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "owner_id", "name", "description", "size_m2", "price_per_m2", "created_at",
	).
		From("public.garden_fields").
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get garden field query failed: %w", err)
	}

	var f GardenField
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&f.ID, &f.OwnerID, &f.Name, &f.Description, &f.SizeM2, &f.PricePerM2, &f.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get garden field failed: %w", err)
	}
	return &f, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*GardenField, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "owner_id", "name", "description", "size_m2", "price_per_m2", "created_at",
		"count(*) OVER() AS total_count",
	).
		From("public.garden_fields").
		Where(squirrel.Eq{"deleted_at": nil})

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"owner_id": filter.OwnerID})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list garden fields query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list garden fields failed: %w", err)
	}
	defer rows.Close()

	var fields []*GardenField
	var total int

	for rows.Next() {
		var f GardenField
		if err := rows.Scan(
			&f.ID, &f.OwnerID, &f.Name, &f.Description, &f.SizeM2, &f.PricePerM2, &f.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan garden field failed: %w", err)
		}
		fields = append(fields, &f)
	}

	return fields, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, f *GardenField) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.garden_fields").
		Set("name", f.Name).
		Set("description", f.Description).
		Set("size_m2", f.SizeM2).
		Set("price_per_m2", f.PricePerM2).
		Where(squirrel.Eq{"id": f.ID, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update garden field query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update garden field failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) SoftDelete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.garden_fields").
		Set("deleted_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete garden field query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete garden field failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

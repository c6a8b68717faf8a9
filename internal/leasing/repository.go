package leasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for leasings. Leasings are soft deleted;
// every query excludes rows with deleted_at set.
type Repository interface {
	// Create inserts the leasing after re-checking the overlap predicate
	// inside a transaction that locks the garden field row, so two
	// concurrent creates on the same field cannot both pass the check.
	Create(ctx context.Context, l *Leasing) error
	GetByID(ctx context.Context, id string) (*Leasing, error)
	// UpdateStatus persists the transition current -> target as a
	// compare-and-set. A raced concurrent transition surfaces as
	// ErrInvalidTransition, matching a re-validation of the table.
	UpdateStatus(ctx context.Context, id string, current, target Status) (*Leasing, error)
	FindOverlapping(ctx context.Context, fieldID string, from, to time.Time) ([]*Leasing, error)
	List(ctx context.Context, filter Filter) ([]*Leasing, int, error)
	LeasedDateRanges(ctx context.Context, fieldID string, from, to *time.Time) ([]DateRange, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var leasingColumns = []string{
	"l.id", "l.garden_field_id", "f.name", "f.owner_id",
	"l.user_id", "COALESCE(u.display_name, u.email)",
	"l.from_time", "l.to_time", "l.status", "l.payment_session_id",
	"l.created_at", "l.updated_at",
}

func scanLeasing(row pgx.Row, extra ...any) (*Leasing, error) {
	var l Leasing
	dest := []any{
		&l.ID, &l.GardenFieldID, &l.FieldName, &l.OwnerID,
		&l.UserID, &l.UserName,
		&l.From, &l.To, &l.Status, &l.PaymentSessionID,
		&l.CreatedAt, &l.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *pgxRepository) Create(ctx context.Context, l *Leasing) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create leasing tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the field row so overlap check and insert are serialized per
	// field. Creates on different fields proceed in parallel.
	const lockQuery = `
		SELECT owner_id FROM public.garden_fields
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`
	if err := tx.QueryRow(ctx, lockQuery, l.GardenFieldID).Scan(&l.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFieldNotFound
		}
		return fmt.Errorf("lock garden field failed: %w", err)
	}

	const overlapQuery = `
		SELECT EXISTS (
			SELECT 1 FROM public.leasings
			WHERE garden_field_id = $1
			  AND deleted_at IS NULL
			  AND status IN ('OPEN', 'RESERVED')
			  AND from_time <= $3
			  AND to_time >= $2
		)
	`
	var overlaps bool
	if err := tx.QueryRow(ctx, overlapQuery, l.GardenFieldID, l.From, l.To).Scan(&overlaps); err != nil {
		return fmt.Errorf("check overlap failed: %w", err)
	}
	if overlaps {
		return ErrOverlapConflict
	}

	const insertQuery = `
		INSERT INTO public.leasings (garden_field_id, user_id, from_time, to_time, status, payment_session_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(
		ctx, insertQuery,
		l.GardenFieldID, l.UserID, l.From, l.To, l.Status, l.PaymentSessionID,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		// The interval exclusion constraint is the backstop for writers
		// that bypass the row lock.
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ExclusionViolation {
			return ErrOverlapConflict
		}
		return fmt.Errorf("insert leasing failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create leasing failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Leasing, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(leasingColumns...).
		From("public.leasings l").
		Join("public.garden_fields f ON l.garden_field_id = f.id").
		Join("public.users u ON l.user_id = u.id").
		Where(squirrel.Eq{"l.id": id}).
		Where("l.deleted_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get leasing query failed: %w", err)
	}

	l, err := scanLeasing(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get leasing failed: %w", err)
	}
	return l, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, current, target Status) (*Leasing, error) {
	const query = `
		UPDATE public.leasings
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3 AND deleted_at IS NULL
	`

	ct, err := r.pool.Exec(ctx, query, target, id, current)
	if err != nil {
		return nil, fmt.Errorf("update leasing status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		// Either gone or the status moved underneath us; re-validating the
		// transition table against the new status would reject it anyway.
		return nil, ErrInvalidTransition
	}

	return r.GetByID(ctx, id)
}

func (r *pgxRepository) FindOverlapping(ctx context.Context, fieldID string, from, to time.Time) ([]*Leasing, error) {
	// Closed-interval intersection: a.from <= b.to AND b.from <= a.to.
	// Only OPEN and RESERVED leasings occupy the window.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(leasingColumns...).
		From("public.leasings l").
		Join("public.garden_fields f ON l.garden_field_id = f.id").
		Join("public.users u ON l.user_id = u.id").
		Where(squirrel.Eq{"l.garden_field_id": fieldID}).
		Where("l.deleted_at IS NULL").
		Where(squirrel.Eq{"l.status": ActiveStatuses}).
		Where(squirrel.LtOrEq{"l.from_time": to}).
		Where(squirrel.GtOrEq{"l.to_time": from}).
		OrderBy("l.from_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find overlapping query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find overlapping failed: %w", err)
	}
	defer rows.Close()

	var leasings []*Leasing
	for rows.Next() {
		l, err := scanLeasing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan leasing failed: %w", err)
		}
		leasings = append(leasings, l)
	}
	return leasings, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Leasing, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	columns := append(append([]string{}, leasingColumns...), "count(*) OVER() AS total_count")
	query := psql.Select(columns...).
		From("public.leasings l").
		Join("public.garden_fields f ON l.garden_field_id = f.id").
		Join("public.users u ON l.user_id = u.id").
		Where("l.deleted_at IS NULL")

	if filter.FieldID != "" {
		query = query.Where(squirrel.Eq{"l.garden_field_id": filter.FieldID})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"l.user_id": filter.UserID})
	}
	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"f.owner_id": filter.OwnerID})
	}
	if len(filter.Statuses) > 0 {
		query = query.Where(squirrel.Eq{"l.status": filter.Statuses})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"l.from_time": *filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.LtOrEq{"l.to_time": *filter.To})
	}

	now := time.Now().UTC()
	switch filter.State {
	case StatePast:
		query = query.Where(squirrel.Lt{"l.to_time": now})
	case StateOngoing:
		query = query.Where(squirrel.LtOrEq{"l.from_time": now}).
			Where(squirrel.GtOrEq{"l.to_time": now})
	case StateFuture:
		query = query.Where(squirrel.Gt{"l.from_time": now})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("l.from_time DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list leasings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leasings failed: %w", err)
	}
	defer rows.Close()

	var leasings []*Leasing
	var total int

	for rows.Next() {
		l, err := scanLeasing(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan leasing failed: %w", err)
		}
		leasings = append(leasings, l)
	}

	return leasings, total, nil
}

func (r *pgxRepository) LeasedDateRanges(ctx context.Context, fieldID string, from, to *time.Time) ([]DateRange, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("from_time", "to_time").
		From("public.leasings").
		Where(squirrel.Eq{"garden_field_id": fieldID, "status": StatusReserved}).
		Where("deleted_at IS NULL")

	if from != nil {
		query = query.Where(squirrel.GtOrEq{"from_time": *from})
	}
	if to != nil {
		query = query.Where(squirrel.LtOrEq{"to_time": *to})
	}

	sql, args, err := query.OrderBy("from_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leased date ranges query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("leased date ranges failed: %w", err)
	}
	defer rows.Close()

	var ranges []DateRange
	for rows.Next() {
		var dr DateRange
		if err := rows.Scan(&dr.From, &dr.To); err != nil {
			return nil, fmt.Errorf("scan date range failed: %w", err)
		}
		ranges = append(ranges, dr)
	}
	return ranges, nil
}

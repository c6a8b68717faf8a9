package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage access for messages.
type Repository interface {
	Create(ctx context.Context, m *Message) error
	// ThreadBetween returns the existing thread id between two users in
	// either direction, or empty string when they have no thread yet.
	ThreadBetween(ctx context.Context, userA, userB string) (string, error)
	UnreadForUser(ctx context.Context, userID string) ([]*Message, error)
	// MarkThreadOpened marks all messages addressed to the user in the
	// thread as opened and reports whether the user participates in it.
	MarkThreadOpened(ctx context.Context, userID, thread string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, m *Message) error {
	const query = `
		INSERT INTO public.messages (thread, user_from, user_to, leasing_id, kind, opened)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(
		ctx, query,
		m.Thread, m.FromUserID, m.ToUserID, m.LeasingID, m.Kind, m.Opened,
	).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ThreadBetween(ctx context.Context, userA, userB string) (string, error) {
	const query = `
		SELECT thread FROM public.messages
		WHERE (user_from = $1 AND user_to = $2) OR (user_from = $2 AND user_to = $1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	var thread string
	if err := r.pool.QueryRow(ctx, query, userA, userB).Scan(&thread); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("find thread failed: %w", err)
	}
	return thread, nil
}

func (r *pgxRepository) UnreadForUser(ctx context.Context, userID string) ([]*Message, error) {
	const query = `
		SELECT id, thread, user_from, user_to, leasing_id, kind, opened, created_at
		FROM public.messages
		WHERE user_to = $1 AND NOT opened
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread messages failed: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(
			&m.ID, &m.Thread, &m.FromUserID, &m.ToUserID, &m.LeasingID, &m.Kind, &m.Opened, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message failed: %w", err)
		}
		messages = append(messages, &m)
	}
	return messages, nil
}

func (r *pgxRepository) MarkThreadOpened(ctx context.Context, userID, thread string) (bool, error) {
	const memberQuery = `
		SELECT EXISTS (
			SELECT 1 FROM public.messages
			WHERE thread = $1 AND (user_from = $2 OR user_to = $2)
		)
	`

	var member bool
	if err := r.pool.QueryRow(ctx, memberQuery, thread, userID).Scan(&member); err != nil {
		return false, fmt.Errorf("check thread membership failed: %w", err)
	}
	if !member {
		return false, nil
	}

	const query = `
		UPDATE public.messages
		SET opened = true
		WHERE thread = $1 AND user_to = $2 AND NOT opened
	`
	if _, err := r.pool.Exec(ctx, query, thread, userID); err != nil {
		return false, fmt.Errorf("mark thread opened failed: %w", err)
	}
	return true, nil
}

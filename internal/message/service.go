package message

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/greenplot/garden-leasing-backend/internal/leasing"
)

// Service persists lifecycle notifications and exposes the caller's inbox.
// It implements leasing.Notifier.
type Service interface {
	LeasingChanged(ctx context.Context, n leasing.Notification) error
	UnreadNotifications(ctx context.Context, userID string) ([]*Message, error)
	OpenThread(ctx context.Context, userID, thread string) error
}

type service struct {
	repo      Repository
	publisher EventPublisher
}

func NewService(repo Repository, publisher EventPublisher) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
	}
}

// LeasingChanged stores the notification on the thread between the two users
// and pushes the event to the queue. Queue failures are logged only; the
// stored message is the source of truth for the inbox.
func (s *service) LeasingChanged(ctx context.Context, n leasing.Notification) error {
	thread, err := s.repo.ThreadBetween(ctx, n.FromUserID, n.ToUserID)
	if err != nil {
		return err
	}
	if thread == "" {
		thread = uuid.NewString()
	}

	leasingID := n.LeasingID
	m := &Message{
		Thread:     thread,
		FromUserID: n.FromUserID,
		ToUserID:   n.ToUserID,
		LeasingID:  &leasingID,
		Kind:       string(n.Kind),
		Opened:     false,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}

	event := LeasingEvent{
		LeasingID:  n.LeasingID,
		Kind:       string(n.Kind),
		FromUserID: n.FromUserID,
		ToUserID:   n.ToUserID,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("failed to publish leasing event %s: %v", n.LeasingID, err)
	}

	return nil
}

func (s *service) UnreadNotifications(ctx context.Context, userID string) ([]*Message, error) {
	return s.repo.UnreadForUser(ctx, userID)
}

func (s *service) OpenThread(ctx context.Context, userID, thread string) error {
	if _, err := uuid.Parse(thread); err != nil {
		return ErrInvalidThread
	}

	member, err := s.repo.MarkThreadOpened(ctx, userID, thread)
	if err != nil {
		return err
	}
	if !member {
		return ErrThreadDenied
	}
	return nil
}

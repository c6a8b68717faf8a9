package message

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenplot/garden-leasing-backend/internal/leasing"
)

type memoryRepo struct {
	messages []*Message
	nextID   int
}

func (r *memoryRepo) Create(_ context.Context, m *Message) error {
	r.nextID++
	m.ID = fmt.Sprintf("msg-%d", r.nextID)
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *memoryRepo) ThreadBetween(_ context.Context, userA, userB string) (string, error) {
	for _, m := range r.messages {
		if (m.FromUserID == userA && m.ToUserID == userB) ||
			(m.FromUserID == userB && m.ToUserID == userA) {
			return m.Thread, nil
		}
	}
	return "", nil
}

func (r *memoryRepo) UnreadForUser(_ context.Context, userID string) ([]*Message, error) {
	var out []*Message
	for _, m := range r.messages {
		if m.ToUserID == userID && !m.Opened {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memoryRepo) MarkThreadOpened(_ context.Context, userID, thread string) (bool, error) {
	member := false
	for _, m := range r.messages {
		if m.Thread != thread {
			continue
		}
		if m.FromUserID == userID || m.ToUserID == userID {
			member = true
		}
		if m.ToUserID == userID {
			m.Opened = true
		}
	}
	return member, nil
}

type recordingPublisher struct {
	events []LeasingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e LeasingEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func notification(kind leasing.NotificationKind, from, to string) leasing.Notification {
	return leasing.Notification{
		FromUserID: from,
		ToUserID:   to,
		Kind:       kind,
		LeasingID:  "leasing-1",
	}
}

func TestLeasingChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the message and publishes the event", func(t *testing.T) {
		repo := &memoryRepo{}
		pub := &recordingPublisher{}
		svc := NewService(repo, pub)

		err := svc.LeasingChanged(ctx, notification(leasing.NotifyOpened, "requester", "owner"))
		require.NoError(t, err)

		require.Len(t, repo.messages, 1)
		m := repo.messages[0]
		assert.Equal(t, "requester", m.FromUserID)
		assert.Equal(t, "owner", m.ToUserID)
		assert.Equal(t, string(leasing.NotifyOpened), m.Kind)
		assert.False(t, m.Opened)
		require.NotNil(t, m.LeasingID)
		assert.Equal(t, "leasing-1", *m.LeasingID)
		assert.NotEmpty(t, m.Thread)

		require.Len(t, pub.events, 1)
		assert.Equal(t, "leasing-1", pub.events[0].LeasingID)
		assert.Equal(t, string(leasing.NotifyOpened), pub.events[0].Kind)
	})

	t.Run("reuses the thread regardless of direction", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := NewService(repo, &recordingPublisher{})

		require.NoError(t, svc.LeasingChanged(ctx, notification(leasing.NotifyOpened, "requester", "owner")))
		require.NoError(t, svc.LeasingChanged(ctx, notification(leasing.NotifyReserved, "owner", "requester")))

		require.Len(t, repo.messages, 2)
		assert.Equal(t, repo.messages[0].Thread, repo.messages[1].Thread)
	})

	t.Run("publisher failure does not fail the notification", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := NewService(repo, &recordingPublisher{err: errors.New("broker down")})

		err := svc.LeasingChanged(ctx, notification(leasing.NotifyCancelled, "requester", "owner"))
		assert.NoError(t, err)
		assert.Len(t, repo.messages, 1)
	})
}

func TestUnreadNotifications(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepo{}
	svc := NewService(repo, &recordingPublisher{})

	require.NoError(t, svc.LeasingChanged(ctx, notification(leasing.NotifyOpened, "requester", "owner")))
	require.NoError(t, svc.LeasingChanged(ctx, notification(leasing.NotifyReserved, "owner", "requester")))

	msgs, err := svc.UnreadNotifications(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, string(leasing.NotifyOpened), msgs[0].Kind)
}

func TestOpenThread(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the caller's messages opened", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := NewService(repo, &recordingPublisher{})

		require.NoError(t, svc.LeasingChanged(ctx, notification(leasing.NotifyOpened, "requester", "owner")))
		thread := repo.messages[0].Thread

		require.NoError(t, svc.OpenThread(ctx, "owner", thread))

		msgs, err := svc.UnreadNotifications(ctx, "owner")
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("rejects a malformed thread id", func(t *testing.T) {
		svc := NewService(&memoryRepo{}, &recordingPublisher{})

		err := svc.OpenThread(ctx, "owner", "not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidThread)
	})

	t.Run("rejects non-participants", func(t *testing.T) {
		repo := &memoryRepo{}
		svc := NewService(repo, &recordingPublisher{})

		require.NoError(t, svc.LeasingChanged(ctx, notification(leasing.NotifyOpened, "requester", "owner")))
		thread := repo.messages[0].Thread

		err := svc.OpenThread(ctx, "stranger", thread)
		assert.ErrorIs(t, err, ErrThreadDenied)
	})

	t.Run("unknown thread is denied", func(t *testing.T) {
		svc := NewService(&memoryRepo{}, &recordingPublisher{})

		err := svc.OpenThread(ctx, "owner", uuid.NewString())
		assert.ErrorIs(t, err, ErrThreadDenied)
	})
}

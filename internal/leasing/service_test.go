package leasing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository. Create mirrors the transactional
// overlap re-check of the real one so conflict paths can be exercised.
type fakeRepo struct {
	fieldOwners map[string]string // field id -> owner id
	leasings    map[string]*Leasing
	nextID      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		fieldOwners: map[string]string{},
		leasings:    map[string]*Leasing{},
	}
}

func (r *fakeRepo) Create(_ context.Context, l *Leasing) error {
	owner, ok := r.fieldOwners[l.GardenFieldID]
	if !ok {
		return ErrFieldNotFound
	}
	for _, existing := range r.leasings {
		if existing.GardenFieldID != l.GardenFieldID {
			continue
		}
		if existing.Status != StatusOpen && existing.Status != StatusReserved {
			continue
		}
		if !existing.From.After(l.To) && !l.From.After(existing.To) {
			return ErrOverlapConflict
		}
	}
	r.nextID++
	l.ID = fmt.Sprintf("leasing-%d", r.nextID)
	l.OwnerID = owner
	cp := *l
	r.leasings[l.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Leasing, error) {
	l, ok := r.leasings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, current, target Status) (*Leasing, error) {
	l, ok := r.leasings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if l.Status != current {
		return nil, ErrInvalidTransition
	}
	l.Status = target
	cp := *l
	return &cp, nil
}

func (r *fakeRepo) FindOverlapping(_ context.Context, fieldID string, from, to time.Time) ([]*Leasing, error) {
	var out []*Leasing
	for _, l := range r.leasings {
		if l.GardenFieldID != fieldID {
			continue
		}
		if l.Status != StatusOpen && l.Status != StatusReserved {
			continue
		}
		if !l.From.After(to) && !from.After(l.To) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) List(context.Context, Filter) ([]*Leasing, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) LeasedDateRanges(_ context.Context, fieldID string, _, _ *time.Time) ([]DateRange, error) {
	var out []DateRange
	for _, l := range r.leasings {
		if l.GardenFieldID == fieldID && l.Status == StatusReserved {
			out = append(out, DateRange{From: l.From, To: l.To})
		}
	}
	return out, nil
}

type fakeGateway struct {
	captured []string
	released []string
	err      error
}

func (g *fakeGateway) Capture(_ context.Context, token string) error {
	if g.err != nil {
		return g.err
	}
	g.captured = append(g.captured, token)
	return nil
}

func (g *fakeGateway) Release(_ context.Context, token string) error {
	if g.err != nil {
		return g.err
	}
	g.released = append(g.released, token)
	return nil
}

type fakeUsers struct {
	existing map[string]bool
}

func (u *fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	return u.existing[id], nil
}

type fakeNotifier struct {
	notifications []Notification
	err           error
}

func (n *fakeNotifier) LeasingChanged(_ context.Context, notification Notification) error {
	if n.err != nil {
		return n.err
	}
	n.notifications = append(n.notifications, notification)
	return nil
}

type fixture struct {
	svc      *service
	repo     *fakeRepo
	gateway  *fakeGateway
	users    *fakeUsers
	notifier *fakeNotifier
	today    time.Time
}

const (
	fieldID     = "field-1"
	ownerID     = "owner-1"
	requesterID = "requester-1"
	strangerID  = "stranger-1"
)

func newFixture() *fixture {
	repo := newFakeRepo()
	repo.fieldOwners[fieldID] = ownerID

	gateway := &fakeGateway{}
	users := &fakeUsers{existing: map[string]bool{requesterID: true, ownerID: true}}
	notifier := &fakeNotifier{}

	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	svc := NewService(repo, users, gateway, notifier).(*service)
	svc.now = func() time.Time { return today.Add(10 * time.Hour) }

	return &fixture{
		svc:      svc,
		repo:     repo,
		gateway:  gateway,
		users:    users,
		notifier: notifier,
		today:    today,
	}
}

// validRequest starts 20 days out and spans 10 days, clearing both the
// lead-time and minimum-duration checks.
func (f *fixture) validRequest() CreateRequest {
	from := f.today.AddDate(0, 0, 20)
	return CreateRequest{
		GardenFieldID:    fieldID,
		RequesterID:      requesterID,
		From:             from,
		To:               from.AddDate(0, 0, 9),
		PaymentSessionID: "hold-1",
	}
}

func (f *fixture) mustCreate(t *testing.T) *Leasing {
	t.Helper()
	l, err := f.svc.Create(context.Background(), f.validRequest())
	require.NoError(t, err)
	return l
}

func TestCreateLeasing(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		req := f.validRequest()

		l, err := f.svc.Create(ctx, req)
		require.NoError(t, err)

		assert.NotEmpty(t, l.ID)
		assert.Equal(t, StatusOpen, l.Status)
		assert.Equal(t, ownerID, l.OwnerID)
		assert.Equal(t, requesterID, l.UserID)
		assert.Equal(t, "hold-1", l.PaymentSessionID)

		// The owner is told a new request is waiting; no payment action yet.
		require.Len(t, f.notifier.notifications, 1)
		n := f.notifier.notifications[0]
		assert.Equal(t, NotifyOpened, n.Kind)
		assert.Equal(t, requesterID, n.FromUserID)
		assert.Equal(t, ownerID, n.ToUserID)
		assert.Equal(t, l.ID, n.LeasingID)
		assert.Empty(t, f.gateway.captured)
		assert.Empty(t, f.gateway.released)
	})

	t.Run("start before end", func(t *testing.T) {
		f := newFixture()
		req := f.validRequest()
		req.To = req.From

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("starts too soon", func(t *testing.T) {
		f := newFixture()
		req := f.validRequest()
		req.From = f.today.AddDate(0, 0, 13)
		req.To = req.From.AddDate(0, 0, 9)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrCreateNotAllowedInPeriod)
	})

	t.Run("start exactly at the lead time boundary is allowed", func(t *testing.T) {
		f := newFixture()
		req := f.validRequest()
		req.From = f.today.AddDate(0, 0, 14)
		req.To = req.From.AddDate(0, 0, 9)

		_, err := f.svc.Create(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("late start time on the boundary day is still allowed", func(t *testing.T) {
		// The lead-time check compares day boundaries, not instants.
		f := newFixture()
		req := f.validRequest()
		req.From = f.today.AddDate(0, 0, 14).Add(23 * time.Hour)
		req.To = req.From.AddDate(0, 0, 9)

		_, err := f.svc.Create(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("period below minimum duration", func(t *testing.T) {
		f := newFixture()
		req := f.validRequest()
		req.To = req.From.AddDate(0, 0, 6)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("shortest accepted window spans the minimum range", func(t *testing.T) {
		f := newFixture()
		req := f.validRequest()
		req.To = req.From.AddDate(0, 0, 7)

		_, err := f.svc.Create(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("unknown requester", func(t *testing.T) {
		f := newFixture()
		req := f.validRequest()
		req.RequesterID = "ghost"

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrRequesterNotFound)
	})

	t.Run("unknown field", func(t *testing.T) {
		f := newFixture()
		req := f.validRequest()
		req.GardenFieldID = "no-such-field"

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrFieldNotFound)
	})

	t.Run("overlapping window is rejected", func(t *testing.T) {
		f := newFixture()
		first := f.mustCreate(t)

		req := f.validRequest()
		req.From = first.To // shared boundary instant still collides
		req.To = req.From.AddDate(0, 0, 9)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrOverlapConflict)
	})

	t.Run("window freed by a cancelled leasing can be retaken", func(t *testing.T) {
		f := newFixture()
		first := f.mustCreate(t)

		_, err := f.svc.Transition(ctx, first.ID, requesterID, StatusCancelled)
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.validRequest())
		assert.NoError(t, err)
	})
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("owner reserves and the hold is captured once", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)
		f.notifier.notifications = nil

		updated, err := f.svc.Transition(ctx, l.ID, ownerID, StatusReserved)
		require.NoError(t, err)

		assert.Equal(t, StatusReserved, updated.Status)
		assert.Equal(t, []string{"hold-1"}, f.gateway.captured)
		assert.Empty(t, f.gateway.released)

		require.Len(t, f.notifier.notifications, 1)
		n := f.notifier.notifications[0]
		assert.Equal(t, NotifyReserved, n.Kind)
		assert.Equal(t, ownerID, n.FromUserID)
		assert.Equal(t, requesterID, n.ToUserID)
	})

	t.Run("owner rejects and the hold is released", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)
		f.notifier.notifications = nil

		updated, err := f.svc.Transition(ctx, l.ID, ownerID, StatusRejected)
		require.NoError(t, err)

		assert.Equal(t, StatusRejected, updated.Status)
		assert.Equal(t, []string{"hold-1"}, f.gateway.released)
		assert.Empty(t, f.gateway.captured)

		require.Len(t, f.notifier.notifications, 1)
		n := f.notifier.notifications[0]
		assert.Equal(t, NotifyRejected, n.Kind)
		assert.Equal(t, ownerID, n.FromUserID)
		assert.Equal(t, requesterID, n.ToUserID)
	})

	t.Run("requester cancels and the hold is released", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)
		f.notifier.notifications = nil

		updated, err := f.svc.Transition(ctx, l.ID, requesterID, StatusCancelled)
		require.NoError(t, err)

		assert.Equal(t, StatusCancelled, updated.Status)
		assert.Equal(t, []string{"hold-1"}, f.gateway.released)

		require.Len(t, f.notifier.notifications, 1)
		n := f.notifier.notifications[0]
		assert.Equal(t, NotifyCancelled, n.Kind)
		assert.Equal(t, requesterID, n.FromUserID)
		assert.Equal(t, ownerID, n.ToUserID)
	})

	t.Run("reserving is refused once the start is near", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)

		// Move the clock so the leasing now starts within the lead window.
		f.svc.now = func() time.Time { return l.From.AddDate(0, 0, -5) }

		_, err := f.svc.Transition(ctx, l.ID, ownerID, StatusReserved)
		assert.ErrorIs(t, err, ErrUpdateNotAllowedInPeriod)
		assert.Empty(t, f.gateway.captured)

		// Backing out is not time-boxed; the same clock permits a reject.
		_, err = f.svc.Transition(ctx, l.ID, ownerID, StatusRejected)
		assert.NoError(t, err)
	})

	t.Run("requester may cancel close to the start date", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)

		f.svc.now = func() time.Time { return l.From.Add(-time.Hour) }

		_, err := f.svc.Transition(ctx, l.ID, requesterID, StatusCancelled)
		assert.NoError(t, err)
	})

	t.Run("actor outside the leasing is rejected", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)

		_, err := f.svc.Transition(ctx, l.ID, strangerID, StatusCancelled)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("requester may not reserve or reject", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)

		_, err := f.svc.Transition(ctx, l.ID, requesterID, StatusReserved)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		_, err = f.svc.Transition(ctx, l.ID, requesterID, StatusRejected)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("owner may not cancel", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)

		_, err := f.svc.Transition(ctx, l.ID, ownerID, StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("terminal leasings accept no further transitions", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)

		_, err := f.svc.Transition(ctx, l.ID, ownerID, StatusReserved)
		require.NoError(t, err)

		_, err = f.svc.Transition(ctx, l.ID, requesterID, StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		_, err = f.svc.Transition(ctx, l.ID, ownerID, StatusRejected)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		// The hold was captured exactly once throughout.
		assert.Equal(t, []string{"hold-1"}, f.gateway.captured)
		assert.Empty(t, f.gateway.released)
	})

	t.Run("unknown target status", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)

		_, err := f.svc.Transition(ctx, l.ID, ownerID, Status("PENDING"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("gateway failure leaves the leasing untouched", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)
		f.notifier.notifications = nil

		f.gateway.err = errors.New("provider unreachable")

		_, err := f.svc.Transition(ctx, l.ID, ownerID, StatusReserved)
		assert.ErrorIs(t, err, ErrPaymentProvider)

		stored, err := f.repo.GetByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusOpen, stored.Status)
		assert.Empty(t, f.notifier.notifications)

		// The same transition succeeds once the provider recovers.
		f.gateway.err = nil
		updated, err := f.svc.Transition(ctx, l.ID, ownerID, StatusReserved)
		require.NoError(t, err)
		assert.Equal(t, StatusReserved, updated.Status)
	})

	t.Run("missing payment session blocks the transition", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)
		f.repo.leasings[l.ID].PaymentSessionID = ""

		_, err := f.svc.Transition(ctx, l.ID, ownerID, StatusReserved)
		assert.ErrorIs(t, err, ErrPaymentNotSet)
		assert.Empty(t, f.gateway.captured)
	})

	t.Run("notifier failure does not roll back the transition", func(t *testing.T) {
		f := newFixture()
		l := f.mustCreate(t)
		f.notifier.err = errors.New("queue down")

		updated, err := f.svc.Transition(ctx, l.ID, ownerID, StatusReserved)
		require.NoError(t, err)
		assert.Equal(t, StatusReserved, updated.Status)
	})

	t.Run("unknown leasing", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Transition(ctx, "missing", ownerID, StatusReserved)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.mustCreate(t)

	t.Run("owner and requester may read", func(t *testing.T) {
		got, err := f.svc.GetByID(ctx, l.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, l.ID, got.ID)

		_, err = f.svc.GetByID(ctx, l.ID, requesterID)
		assert.NoError(t, err)
	})

	t.Run("strangers may not", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, l.ID, strangerID)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestListOverlapping(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.mustCreate(t)

	t.Run("reports colliding leasings", func(t *testing.T) {
		got, err := f.svc.ListOverlapping(ctx, fieldID, l.From.AddDate(0, 0, 2), l.To.AddDate(0, 0, 5))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, l.ID, got[0].ID)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		_, err := f.svc.ListOverlapping(ctx, fieldID, l.To, l.From)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestLeasedDateRanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	l := f.mustCreate(t)

	// Open requests are not exposed as taken dates, reserved ones are.
	ranges, err := f.svc.LeasedDateRanges(ctx, fieldID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ranges)

	_, err = f.svc.Transition(ctx, l.ID, ownerID, StatusReserved)
	require.NoError(t, err)

	ranges, err = f.svc.LeasedDateRanges(ctx, fieldID, nil, nil)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, l.From, ranges[0].From)
	assert.Equal(t, l.To, ranges[0].To)
}

package leasing

import (
	"context"
	"log"
	"time"
)

// NotificationKind tags lifecycle notifications handed to the sink.
type NotificationKind string

const (
	NotifyOpened    NotificationKind = "RESERVATION_OPENED"
	NotifyReserved  NotificationKind = "RESERVATION_RESERVED"
	NotifyRejected  NotificationKind = "RESERVATION_REJECTED"
	NotifyCancelled NotificationKind = "RESERVATION_CANCELLED"
)

// Notification describes a lifecycle event. The (from, to) pair is
// role-reversed depending on who acted: opening and cancelling notify the
// owner on behalf of the requester, reserving and rejecting the other way.
type Notification struct {
	FromUserID string
	ToUserID   string
	Kind       NotificationKind
	LeasingID  string
}

// Notifier is the sink informed of lifecycle transitions. Fire and forget:
// a failed notification never rolls back the transition.
type Notifier interface {
	LeasingChanged(ctx context.Context, n Notification) error
}

// PaymentGateway is the slice of the payment protocol the engine uses. The
// hold is authorized by the checkout flow before creation; the engine only
// finishes it.
type PaymentGateway interface {
	Capture(ctx context.Context, holdToken string) error
	Release(ctx context.Context, holdToken string) error
}

// UserLookup reports whether a requester account exists.
type UserLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type CreateRequest struct {
	GardenFieldID    string
	RequesterID      string
	From             time.Time
	To               time.Time
	PaymentSessionID string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Leasing, error)
	Transition(ctx context.Context, id, actorID string, target Status) (*Leasing, error)
	GetByID(ctx context.Context, id, actorID string) (*Leasing, error)
	List(ctx context.Context, filter Filter) ([]*Leasing, int, error)
	ListOverlapping(ctx context.Context, fieldID string, from, to time.Time) ([]*Leasing, error)
	LeasedDateRanges(ctx context.Context, fieldID string, from, to *time.Time) ([]DateRange, error)
}

type service struct {
	repo     Repository
	users    UserLookup
	gateway  PaymentGateway
	notifier Notifier

	now func() time.Time
}

func NewService(repo Repository, users UserLookup, gateway PaymentGateway, notifier Notifier) Service {
	return &service{
		repo:     repo,
		users:    users,
		gateway:  gateway,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Leasing, error) {
	if !req.From.Before(req.To) {
		return nil, ErrInvalidWindow
	}

	startOfToday := StartOfDay(s.now())

	// The leasing must start no earlier than CreateDayRange days from now,
	// measured between day boundaries.
	if StartOfDay(req.From).Before(startOfToday.AddDate(0, 0, CreateDayRange)) {
		return nil, ErrCreateNotAllowedInPeriod
	}

	// Inclusive day counting: a window within one calendar day is one day.
	if StartOfDay(req.From).AddDate(0, 0, MinimumDayRange).After(EndOfDay(req.To)) {
		return nil, ErrTooShort
	}

	exists, err := s.users.Exists(ctx, req.RequesterID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRequesterNotFound
	}

	l := &Leasing{
		GardenFieldID:    req.GardenFieldID,
		UserID:           req.RequesterID,
		From:             req.From,
		To:               req.To,
		Status:           StatusOpen,
		PaymentSessionID: req.PaymentSessionID,
	}

	// The repository re-checks the overlap predicate under the field lock;
	// a conflicting active leasing surfaces as ErrOverlapConflict.
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	created, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, created)
	return created, nil
}

func (s *service) Transition(ctx context.Context, id, actorID string, target Status) (*Leasing, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var role Role
	switch actorID {
	case l.OwnerID:
		role = RoleOwner
	case l.UserID:
		role = RoleRequester
	default:
		return nil, ErrForbidden
	}

	rule, ok := lookupTransition(l.Status, role, target)
	if !ok {
		return nil, ErrInvalidTransition
	}

	// Only confirming is time-boxed; reject and cancel stay available right
	// up to the leasing start.
	if rule.windowGated && l.From.Before(StartOfDay(s.now()).AddDate(0, 0, UpdateDayRange)) {
		return nil, ErrUpdateNotAllowedInPeriod
	}

	if l.PaymentSessionID == "" {
		return nil, ErrPaymentNotSet
	}

	// Gateway first, persist only on success. A failed call leaves the
	// leasing untouched and the caller may retry the whole transition.
	switch rule.effect {
	case effectCapture:
		err = s.gateway.Capture(ctx, l.PaymentSessionID)
	case effectRelease:
		err = s.gateway.Release(ctx, l.PaymentSessionID)
	}
	if err != nil {
		log.Printf("payment gateway call failed for leasing %s: %v", l.ID, err)
		return nil, ErrPaymentProvider
	}

	updated, err := s.repo.UpdateStatus(ctx, l.ID, l.Status, target)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated)
	return updated, nil
}

func (s *service) GetByID(ctx context.Context, id, actorID string) (*Leasing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != l.OwnerID && actorID != l.UserID {
		return nil, ErrForbidden
	}
	return l, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Leasing, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListOverlapping(ctx context.Context, fieldID string, from, to time.Time) ([]*Leasing, error) {
	if !from.Before(to) {
		return nil, ErrInvalidWindow
	}
	return s.repo.FindOverlapping(ctx, fieldID, from, to)
}

func (s *service) LeasedDateRanges(ctx context.Context, fieldID string, from, to *time.Time) ([]DateRange, error) {
	return s.repo.LeasedDateRanges(ctx, fieldID, from, to)
}

func (s *service) notify(ctx context.Context, l *Leasing) {
	n := Notification{LeasingID: l.ID}

	switch l.Status {
	case StatusOpen:
		n.FromUserID, n.ToUserID, n.Kind = l.UserID, l.OwnerID, NotifyOpened
	case StatusCancelled:
		n.FromUserID, n.ToUserID, n.Kind = l.UserID, l.OwnerID, NotifyCancelled
	case StatusReserved:
		n.FromUserID, n.ToUserID, n.Kind = l.OwnerID, l.UserID, NotifyReserved
	case StatusRejected:
		n.FromUserID, n.ToUserID, n.Kind = l.OwnerID, l.UserID, NotifyRejected
	default:
		return
	}

	if err := s.notifier.LeasingChanged(ctx, n); err != nil {
		log.Printf("failed to notify leasing %s change: %v", l.ID, err)
	}
}

package leasing

import (
	"net/http"
	"time"

	"github.com/greenplot/garden-leasing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound                 = apperror.New(http.StatusNotFound, "leasing not found")
	ErrFieldNotFound            = apperror.New(http.StatusNotFound, "garden field not found")
	ErrRequesterNotFound        = apperror.New(http.StatusNotFound, "requesting user does not exist")
	ErrInvalidWindow            = apperror.New(http.StatusBadRequest, "leasing start must be before its end")
	ErrCreateNotAllowedInPeriod = apperror.New(http.StatusBadRequest, "leasing must start further in the future")
	ErrUpdateNotAllowedInPeriod = apperror.New(http.StatusBadRequest, "leasing starts too soon to be confirmed")
	ErrTooShort                 = apperror.New(http.StatusBadRequest, "leasing period is below the minimum duration")
	ErrOverlapConflict          = apperror.New(http.StatusConflict, "leasing overlaps an existing one")
	ErrForbidden                = apperror.New(http.StatusForbidden, "not a party of this leasing")
	ErrInvalidTransition        = apperror.New(http.StatusConflict, "status change not allowed")
	ErrInvalidStatus            = apperror.New(http.StatusBadRequest, "invalid leasing status")
	ErrPaymentNotSet            = apperror.New(http.StatusBadRequest, "payment of leasing not set")
	ErrPaymentProvider          = apperror.New(http.StatusBadGateway, "payment provider call failed")
)

// Day-range policies. Confirming a leasing is time-boxed; rejecting or
// cancelling is allowed at any time before a final decision.
const (
	// CreateDayRange is the number of days before its start a leasing must
	// be requested.
	CreateDayRange = 14
	// UpdateDayRange is the number of days before the leasing start up to
	// which the owner may still confirm it.
	UpdateDayRange = 14
	// MinimumDayRange is the minimum leasing duration in days, counted
	// inclusively over calendar days.
	MinimumDayRange = 7
)

// Status is the lifecycle state of a leasing. A leasing is created OPEN and
// ends in exactly one of the three terminal states.
type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusReserved  Status = "RESERVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the four defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusReserved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusReserved || s == StatusRejected || s == StatusCancelled
}

// ActiveStatuses are the statuses that occupy a time window on a field.
// Rejected and cancelled leasings free their interval.
var ActiveStatuses = []Status{StatusOpen, StatusReserved}

// Leasing is a time-bounded reservation of a garden field. From and To are
// instants; the interval is treated as closed on both ends for overlap
// purposes (day-granular leasing).
type Leasing struct {
	ID            string // UUID
	GardenFieldID string
	FieldName     string
	OwnerID       string // owner of the garden field, resolved on load
	UserID        string // the requester
	UserName      string
	From          time.Time
	To            time.Time
	Status        Status
	// Hold token at the payment provider. Established by the checkout flow
	// before creation; required before the leasing can leave OPEN.
	PaymentSessionID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StateFilter narrows list queries relative to the current instant.
type StateFilter string

const (
	StatePast    StateFilter = "PAST"
	StateOngoing StateFilter = "ONGOING"
	StateFuture  StateFilter = "FUTURE"
)

// Filter defines parameters for listing leasings. Exactly one of FieldID,
// UserID, OwnerID is normally set; handlers enforce who may use which.
type Filter struct {
	FieldID  string
	UserID   string
	OwnerID  string
	Statuses []Status
	From     *time.Time // only leasings starting at or after this instant
	To       *time.Time // only leasings ending at or before this instant
	State    StateFilter
	Page     int
	PageSize int
}

// DateRange is a reserved interval on a field, exposed by the availability
// query so clients can grey out taken dates without seeing who booked them.
type DateRange struct {
	From time.Time
	To   time.Time
}

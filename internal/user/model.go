package user

import (
	"net/http"
	"time"

	"github.com/greenplot/garden-leasing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(http.StatusUnauthorized, "user is inactive")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password is too short")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrEmptyAccount       = apperror.New(http.StatusBadRequest, "payout account must not be empty")
)

// User represents an account. A user can request leasings on any field and
// owns the fields they listed; there is no separate owner role.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	// Payout account at the payment provider; set once the user has
	// registered a bank account, required before their fields can be leased.
	PaymentAccountID *string
	CreatedAt        time.Time
	LastLoginAt      *time.Time
	IsActive         bool
}

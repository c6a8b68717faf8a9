package gardenfield

import (
	"net/http"
	"time"

	"github.com/greenplot/garden-leasing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "garden field not found")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrInvalidSize      = apperror.New(http.StatusBadRequest, "size must be greater than zero")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "price per m2 must be greater than zero")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// GardenField is a rentable plot of land. Leasings reference it by id; the
// field's owner decides on leasing requests and receives the captured funds.
type GardenField struct {
	ID          string // UUID
	OwnerID     string
	Name        string
	Description *string
	SizeM2      float64
	PricePerM2  float64 // per m2 and day
	CreatedAt   time.Time
}

// Filter defines parameters for listing garden fields.
type Filter struct {
	OwnerID  string
	Page     int
	PageSize int
}

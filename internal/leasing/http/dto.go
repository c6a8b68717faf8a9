package http

import (
	"time"

	gfHttp "github.com/greenplot/garden-leasing-backend/internal/gardenfield/http"
	"github.com/greenplot/garden-leasing-backend/internal/leasing"
	"github.com/greenplot/garden-leasing-backend/internal/pkg/request"
	userHttp "github.com/greenplot/garden-leasing-backend/internal/user/http"
)

// CreateLeasingRequest is the payload for POST /v1/leasings. The payment
// session id is the hold token obtained from the checkout endpoint.
type CreateLeasingRequest struct {
	GardenFieldID    string    `json:"garden_field_id" binding:"required,uuid"`
	From             time.Time `json:"from" binding:"required"`
	To               time.Time `json:"to" binding:"required"`
	PaymentSessionID string    `json:"payment_session_id" binding:"required"`
}

// Validate performs custom validation for CreateLeasingRequest.
func (r *CreateLeasingRequest) Validate() error {
	if !r.From.Before(r.To) {
		return leasing.ErrInvalidWindow
	}
	return nil
}

// UpdateLeasingRequest is the payload for PATCH /v1/leasings/:id. Only the
// status can change; the window is immutable after creation.
type UpdateLeasingRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN RESERVED REJECTED CANCELLED"`
}

// ListLeasingsRequest defines query parameters for listing leasings.
type ListLeasingsRequest struct {
	request.ListParams
	Role     string     `form:"role" binding:"omitempty,oneof=requester owner"`
	Statuses []string   `form:"status" binding:"omitempty,dive,oneof=OPEN RESERVED REJECTED CANCELLED"`
	State    string     `form:"state" binding:"omitempty,oneof=PAST ONGOING FUTURE"`
	From     *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To       *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// WindowRequest binds the from/to query pair of availability endpoints.
type WindowRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type LeasingResponse struct {
	ID               string             `json:"id"`
	GardenField      gfHttp.FieldTag    `json:"garden_field"`
	User             userHttp.UserTag   `json:"user"`
	From             time.Time          `json:"from"`
	To               time.Time          `json:"to"`
	Status           string             `json:"status"`
	PaymentSessionID string             `json:"payment_session_id,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func NewLeasingResponse(l *leasing.Leasing) LeasingResponse {
	return LeasingResponse{
		ID:               l.ID,
		GardenField:      gfHttp.FieldTag{ID: l.GardenFieldID, Name: l.FieldName},
		User:             userHttp.UserTag{ID: l.UserID, Name: l.UserName},
		From:             l.From,
		To:               l.To,
		Status:           string(l.Status),
		PaymentSessionID: l.PaymentSessionID,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

type DateRangeResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

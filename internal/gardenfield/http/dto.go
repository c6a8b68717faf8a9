package http

import (
	"time"

	"github.com/greenplot/garden-leasing-backend/internal/gardenfield"
	"github.com/greenplot/garden-leasing-backend/internal/pkg/request"
)

// CreateFieldRequest is the payload for POST /v1/garden-fields.
type CreateFieldRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	SizeM2      float64 `json:"size_m2" binding:"required,gt=0"`
	PricePerM2  float64 `json:"price_per_m2" binding:"required,gt=0"`
}

// UpdateFieldRequest is the payload for PATCH /v1/garden-fields/:id.
type UpdateFieldRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	SizeM2      *float64 `json:"size_m2" binding:"omitempty,gt=0"`
	PricePerM2  *float64 `json:"price_per_m2" binding:"omitempty,gt=0"`
}

// ListFieldsRequest defines query parameters for listing garden fields.
type ListFieldsRequest struct {
	request.ListParams
	OwnerID string `form:"owner_id" binding:"omitempty,uuid"`
}

type FieldResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	SizeM2      float64   `json:"size_m2"`
	PricePerM2  float64   `json:"price_per_m2"`
	CreatedAt   time.Time `json:"created_at"`
}

// FieldTag is a brief representation of a field embedded in other responses.
type FieldTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func NewFieldResponse(f *gardenfield.GardenField) FieldResponse {
	return FieldResponse{
		ID:          f.ID,
		OwnerID:     f.OwnerID,
		Name:        f.Name,
		Description: f.Description,
		SizeM2:      f.SizeM2,
		PricePerM2:  f.PricePerM2,
		CreatedAt:   f.CreatedAt,
	}
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenplot/garden-leasing-backend/internal/auth"
	"github.com/greenplot/garden-leasing-backend/internal/gardenfield"
	"github.com/greenplot/garden-leasing-backend/internal/pkg/request"
	"github.com/greenplot/garden-leasing-backend/internal/pkg/response"
)

type Handler struct {
	service gardenfield.Service
}

func NewHandler(service gardenfield.Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /v1/garden-fields.
func (h *Handler) Create(c *gin.Context) {
	var body CreateFieldRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	actorID := auth.GetUserID(c)
	if actorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	f, err := h.service.Create(c.Request.Context(), gardenfield.CreateRequest{
		OwnerID:     actorID,
		Name:        body.Name,
		Description: body.Description,
		SizeM2:      body.SizeM2,
		PricePerM2:  body.PricePerM2,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewFieldResponse(f))
}

// Get handles GET /v1/garden-fields/:id.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewFieldResponse(f))
}

// List handles GET /v1/garden-fields.
func (h *Handler) List(c *gin.Context) {
	var req ListFieldsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filter := gardenfield.Filter{
		OwnerID:  req.OwnerID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	fields, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]FieldResponse, len(fields))
	for i, f := range fields {
		items[i] = NewFieldResponse(f)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// Update handles PATCH /v1/garden-fields/:id.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateFieldRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	f, err := h.service.Update(c.Request.Context(), uri.ID, gardenfield.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		SizeM2:      body.SizeM2,
		PricePerM2:  body.PricePerM2,
	}, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewFieldResponse(f))
}

// Delete handles DELETE /v1/garden-fields/:id (soft delete).
func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

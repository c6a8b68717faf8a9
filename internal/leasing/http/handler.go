package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenplot/garden-leasing-backend/internal/auth"
	"github.com/greenplot/garden-leasing-backend/internal/leasing"
	"github.com/greenplot/garden-leasing-backend/internal/pkg/request"
	"github.com/greenplot/garden-leasing-backend/internal/pkg/response"
)

type Handler struct {
	service leasing.Service
}

func NewHandler(service leasing.Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /v1/leasings.
func (h *Handler) Create(c *gin.Context) {
	var body CreateLeasingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	actorID := auth.GetUserID(c)
	if actorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req := leasing.CreateRequest{
		GardenFieldID:    body.GardenFieldID,
		RequesterID:      actorID,
		From:             body.From,
		To:               body.To,
		PaymentSessionID: body.PaymentSessionID,
	}

	l, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewLeasingResponse(l))
}

// Get handles GET /v1/leasings/:id. Only the field owner and the requester
// may see a leasing.
func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewLeasingResponse(l))
}

// Update handles PATCH /v1/leasings/:id: a status transition by the
// authenticated actor.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateLeasingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	l, err := h.service.Transition(c.Request.Context(), uri.ID, auth.GetUserID(c), leasing.Status(body.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewLeasingResponse(l))
}

// List handles GET /v1/leasings. The caller sees their own leasings: as
// requester by default, as field owner with role=owner.
func (h *Handler) List(c *gin.Context) {
	var req ListLeasingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	actorID := auth.GetUserID(c)

	filter := leasing.Filter{
		State:    leasing.StateFilter(req.State),
		From:     req.From,
		To:       req.To,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	for _, s := range req.Statuses {
		filter.Statuses = append(filter.Statuses, leasing.Status(s))
	}
	if req.Role == "owner" {
		filter.OwnerID = actorID
	} else {
		filter.UserID = actorID
	}

	leasings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]LeasingResponse, len(leasings))
	for i, l := range leasings {
		items[i] = NewLeasingResponse(l)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// ListForField handles GET /v1/garden-fields/:id/leasings, the owner-facing
// list of requests on one field.
func (h *Handler) ListForField(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req ListLeasingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	// Scoping to the caller as owner keeps other owners' fields invisible.
	filter := leasing.Filter{
		FieldID:  uri.ID,
		OwnerID:  auth.GetUserID(c),
		State:    leasing.StateFilter(req.State),
		From:     req.From,
		To:       req.To,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	for _, s := range req.Statuses {
		filter.Statuses = append(filter.Statuses, leasing.Status(s))
	}

	leasings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]LeasingResponse, len(leasings))
	for i, l := range leasings {
		items[i] = NewLeasingResponse(l)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

// Overlaps handles GET /v1/garden-fields/:id/overlaps, a diagnostic query
// returning the active leasings intersecting a window.
func (h *Handler) Overlaps(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req WindowRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	leasings, err := h.service.ListOverlapping(c.Request.Context(), uri.ID, req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]LeasingResponse, len(leasings))
	for i, l := range leasings {
		items[i] = NewLeasingResponse(l)
	}

	c.JSON(http.StatusOK, items)
}

// LeasedDateRanges handles GET /v1/garden-fields/:id/leased-date-ranges, the
// public availability query.
func (h *Handler) LeasedDateRanges(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req ListLeasingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	ranges, err := h.service.LeasedDateRanges(c.Request.Context(), uri.ID, req.From, req.To)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DateRangeResponse, len(ranges))
	for i, r := range ranges {
		items[i] = DateRangeResponse{From: r.From, To: r.To}
	}

	c.JSON(http.StatusOK, items)
}

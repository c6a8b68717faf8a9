package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenplot/garden-leasing-backend/internal/auth"
	"github.com/greenplot/garden-leasing-backend/internal/gardenfield"
	"github.com/greenplot/garden-leasing-backend/internal/leasing"
	"github.com/greenplot/garden-leasing-backend/internal/payment"
	"github.com/greenplot/garden-leasing-backend/internal/pkg/response"
)

type Handler struct {
	gateway      payment.Gateway
	fieldService gardenfield.Service
}

func NewHandler(gateway payment.Gateway, fieldService gardenfield.Service) *Handler {
	return &Handler{
		gateway:      gateway,
		fieldService: fieldService,
	}
}

// CreateCheckoutSession handles POST /v1/payments/checkout-session. It
// computes the amount for the window from the field's size and price and
// places the hold at the provider.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body CheckoutSessionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if !body.From.Before(body.To) {
		response.Error(c, leasing.ErrInvalidWindow)
		return
	}

	actorID := auth.GetUserID(c)
	if actorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()

	f, err := h.fieldService.GetByID(ctx, body.GardenFieldID)
	if err != nil {
		response.Error(c, err)
		return
	}

	amount := leasing.PriceCents(f.SizeM2, f.PricePerM2, body.From, body.To)

	token, err := h.gateway.Authorize(ctx, payment.AuthorizeRequest{
		FieldID:     f.ID,
		RequesterID: actorID,
		AmountCents: amount,
		Description: fmt.Sprintf("Leasing of %s (%s - %s)", f.Name, body.From.Format("2006-01-02"), body.To.Format("2006-01-02")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CheckoutSessionResponse{
		PaymentSessionID: token,
		AmountCents:      amount,
	})
}

package http

import "time"

// CheckoutSessionRequest asks for a hold covering a leasing window on a
// field. The returned token is later passed into leasing creation.
type CheckoutSessionRequest struct {
	GardenFieldID string    `json:"garden_field_id" binding:"required,uuid"`
	From          time.Time `json:"from" binding:"required"`
	To            time.Time `json:"to" binding:"required"`
}

type CheckoutSessionResponse struct {
	PaymentSessionID string `json:"payment_session_id"`
	AmountCents      int64  `json:"amount_cents"`
}

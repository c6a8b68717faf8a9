package payment

import (
	"context"
)

// AuthorizeRequest describes the hold to place for a leasing window. Amount
// is in the provider's smallest currency unit.
type AuthorizeRequest struct {
	FieldID     string
	RequesterID string
	AmountCents int64
	Description string
}

// Gateway is the two-phase payment protocol the leasing engine depends on.
// Authorize places a hold; exactly one of Capture or Release finishes it.
// The engine itself only ever calls Capture and Release; the checkout flow
// obtains the hold token up front and passes it into leasing creation.
type Gateway interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (holdToken string, err error)
	Capture(ctx context.Context, holdToken string) error
	Release(ctx context.Context, holdToken string) error
}

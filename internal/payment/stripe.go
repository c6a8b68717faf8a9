package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/greenplot/garden-leasing-backend/internal/pkg/apperror"
)

// StripeGateway implements Gateway against Stripe's payment-intents API.
// Holds are uncaptured payment intents (capture_method=manual); capture and
// release map to the intent's capture and cancel endpoints. Callers own the
// retry policy; this client only bounds each call with its HTTP timeout.
type StripeGateway struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewStripeGateway(apiKey, baseURL string) *StripeGateway {
	return &StripeGateway{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *StripeGateway) Authorize(ctx context.Context, req AuthorizeRequest) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", "eur")
	form.Set("capture_method", "manual")
	form.Set("description", req.Description)
	form.Set("metadata[garden_field_id]", req.FieldID)
	form.Set("metadata[requester_id]", req.RequesterID)

	var out struct {
		ID string `json:"id"`
	}
	if err := g.post(ctx, "/v1/payment_intents", form, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", apperror.Wrap(fmt.Errorf("empty payment intent id"), http.StatusBadGateway, "payment provider call failed")
	}
	return out.ID, nil
}

func (g *StripeGateway) Capture(ctx context.Context, holdToken string) error {
	return g.post(ctx, "/v1/payment_intents/"+url.PathEscape(holdToken)+"/capture", url.Values{}, nil)
}

func (g *StripeGateway) Release(ctx context.Context, holdToken string) error {
	return g.post(ctx, "/v1/payment_intents/"+url.PathEscape(holdToken)+"/cancel", url.Values{}, nil)
}

func (g *StripeGateway) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build payment request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return apperror.Wrap(err, http.StatusBadGateway, "payment provider call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return apperror.Wrap(
			fmt.Errorf("payment provider returned %s on %s", resp.Status, path),
			http.StatusBadGateway, "payment provider call failed",
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperror.Wrap(err, http.StatusBadGateway, "payment provider call failed")
		}
	}
	return nil
}

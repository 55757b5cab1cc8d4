package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeGateway implements Gateway on top of the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

var _ Gateway = (*StripeGateway)(nil)

// NewStripeGateway builds a gateway for the given secret key. The webhook
// secret and redirect URLs may be empty; the corresponding operations then
// fail with ErrNotConfigured.
func NewStripeGateway(secretKey, webhookSecret, successURL, cancelURL string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	if g.successURL == "" || g.cancelURL == "" {
		return nil, ErrNotConfigured
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(g.successURL),
		CancelURL:     stripe.String(g.cancelURL),
		CustomerEmail: stripe.String(params.BuyerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(params.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.Description),
					},
				},
			},
		},
	}
	sessionParams.Context = ctx
	for key, value := range params.Metadata {
		sessionParams.AddMetadata(key, value)
	}

	session, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	if g.webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	if signature == "" {
		return nil, ErrInvalidSignature
	}

	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	decoded := &WebhookEvent{Type: string(event.Type)}
	if decoded.Type != EventCheckoutCompleted {
		return decoded, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	completed := &CompletedSession{
		ID:            session.ID,
		PaymentStatus: string(session.PaymentStatus),
		Metadata:      session.Metadata,
	}
	if session.PaymentIntent != nil {
		completed.PaymentIntentID = session.PaymentIntent.ID
	}
	decoded.Session = completed
	return decoded, nil
}

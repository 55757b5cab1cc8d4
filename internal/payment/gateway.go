package payment

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned when a required Stripe setting
	// (redirect URLs, webhook secret) is absent.
	ErrNotConfigured = errors.New("payment gateway is not configured")
	// ErrInvalidSignature is returned when a webhook payload fails
	// signature verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// EventCheckoutCompleted is the only gateway event the order workflow
// reconciles; every other event type is acknowledged and ignored.
const EventCheckoutCompleted = "checkout.session.completed"

// PaymentStatusPaid marks a completed session whose payment went through.
const PaymentStatusPaid = "paid"

// CheckoutParams describes a hosted checkout session request.
type CheckoutParams struct {
	OrderID     string
	BuyerEmail  string
	AmountCents int64
	Description string
	Metadata    map[string]string
}

// CheckoutSession is the gateway-hosted payment page reference returned to
// the buyer.
type CheckoutSession struct {
	ID  string
	URL string
}

// CompletedSession carries the fields of a finished checkout session that
// reconciliation needs.
type CompletedSession struct {
	ID              string
	PaymentStatus   string
	PaymentIntentID string
	Metadata        map[string]string
}

// WebhookEvent is a verified, decoded gateway callback. Session is non-nil
// only for EventCheckoutCompleted.
type WebhookEvent struct {
	Type    string
	Session *CompletedSession
}

// Gateway abstracts the payment provider so services can be tested with a
// fake implementation.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	// VerifyWebhook checks the payload signature before decoding; an
	// unverified payload is never trusted.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linemk/marketplace/internal/domain/models"
	"github.com/linemk/marketplace/internal/payment"
	"github.com/linemk/marketplace/internal/storage"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Metadata keys attached to checkout sessions for webhook reconciliation.
const (
	metaOrderID     = "orderId"
	metaBuyerEmail  = "buyerEmail"
	metaTotalAmount = "totalAmount"
)

type PaymentService interface {
	CreatePaymentLink(ctx context.Context, orderID string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	log       *slog.Logger
	db        *gorm.DB
	orderRepo storage.OrderStorage
	gateway   payment.Gateway // nil when no Stripe secret key is configured
}

func NewPaymentService(log *slog.Logger, db *gorm.DB, orderRepo storage.OrderStorage, gateway payment.Gateway) PaymentService {
	return &paymentService{
		log:       log,
		db:        db,
		orderRepo: orderRepo,
		gateway:   gateway,
	}
}

// CreatePaymentLink requests a hosted checkout session for a pending order
// and returns its redirect URL. Order state is not mutated here; it changes
// only once the webhook confirms payment.
func (s *paymentService) CreatePaymentLink(ctx context.Context, orderID string) (string, error) {
	const op = "service.PaymentService.CreatePaymentLink"
	logger := s.log.With(slog.String("op", op), slog.String("orderID", orderID))
	logger.Info("creating payment link")

	if s.gateway == nil {
		return "", NewConfigurationError("stripe is not configured")
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID, false)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return "", NewNotFoundError("order not found")
		}
		return "", fmt.Errorf("%s: failed to get order: %w", op, err)
	}
	if order.Status != models.OrderStatusPending {
		return "", NewConflictError("only pending orders can be paid")
	}

	// Charge amount in minor units, rounded to the nearest cent.
	amountCents := order.TotalAmount.Mul(decimal.NewFromInt(100)).Round(0)
	if !amountCents.IsPositive() {
		return "", NewValidationError("order amount must be positive")
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		OrderID:     order.ID,
		BuyerEmail:  order.BuyerEmail,
		AmountCents: amountCents.IntPart(),
		Description: "Order " + order.ID,
		Metadata: map[string]string{
			metaOrderID:     order.ID,
			metaBuyerEmail:  order.BuyerEmail,
			metaTotalAmount: order.TotalAmount.String(),
		},
	})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			return "", NewConfigurationError("stripe redirect urls are not configured")
		}
		logger.Error("failed to create checkout session", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to create checkout session: %w", op, err)
	}

	logger.Info("payment link created", slog.String("sessionID", session.ID))
	return session.URL, nil
}

// HandleWebhook verifies and decodes a gateway callback, then reconciles
// order status for completed checkout sessions. Once the signature checks
// out, inapplicable events (unknown type, missing metadata, stale order
// state) are logged and acknowledged so the gateway does not keep retrying
// them.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "service.PaymentService.HandleWebhook"
	logger := s.log.With(slog.String("op", op))

	if s.gateway == nil {
		return NewConfigurationError("stripe is not configured")
	}

	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrNotConfigured):
			return NewConfigurationError("stripe webhook secret is not configured")
		case errors.Is(err, payment.ErrInvalidSignature):
			logger.Warn("webhook signature verification failed", slog.Any("error", err))
			return NewValidationError("invalid stripe signature")
		default:
			logger.Warn("webhook payload could not be decoded", slog.Any("error", err))
			return NewValidationError("invalid stripe payload")
		}
	}

	if event.Type != payment.EventCheckoutCompleted {
		logger.Info("ignoring unhandled stripe event", slog.String("type", event.Type))
		return nil
	}

	session := event.Session
	orderID := session.Metadata[metaOrderID]
	if orderID == "" {
		logger.Warn("checkout session completed without orderId metadata", slog.String("sessionID", session.ID))
		return nil
	}
	if session.PaymentStatus != payment.PaymentStatusPaid {
		logger.Info("checkout session completed with non-paid status",
			slog.String("sessionID", session.ID),
			slog.String("paymentStatus", session.PaymentStatus),
		)
		return nil
	}

	return s.markOrderPaid(ctx, logger, orderID, session)
}

// markOrderPaid is the reconciliation step: a pure function of (current
// status, paid event) with safe no-ops for terminal states, so duplicate
// and out-of-order deliveries cannot corrupt an order.
func (s *paymentService) markOrderPaid(ctx context.Context, logger *slog.Logger, orderID string, session *payment.CompletedSession) error {
	const op = "service.PaymentService.markOrderPaid"
	logger = logger.With(slog.String("orderID", orderID))

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetOrderByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, storage.ErrOrderNotFound) {
				logger.Warn("paid order no longer exists")
				return nil
			}
			return fmt.Errorf("%s: failed to load order: %w", op, err)
		}

		switch order.Status {
		case models.OrderStatusPaid:
			logger.Info("order already marked paid")
			return nil
		case models.OrderStatusCancelled:
			logger.Warn("payment received for cancelled order", slog.String("sessionID", session.ID))
			return nil
		}

		if err := s.orderRepo.MarkOrderPaid(ctx, tx, orderID, session.ID, session.PaymentIntentID); err != nil {
			return fmt.Errorf("%s: failed to mark order paid: %w", op, err)
		}
		logger.Info("order marked paid", slog.String("sessionID", session.ID))
		return nil
	})
}

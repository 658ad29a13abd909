package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/faras-store/backend/events"
	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/repository"
)

// CheckoutState tracks a payment attempt through the two-phase flow.
type CheckoutState string

const (
	StateCreated              CheckoutState = "CREATED"
	StateIntentRequested      CheckoutState = "INTENT_REQUESTED"
	StateAwaitingConfirmation CheckoutState = "AWAITING_CONFIRMATION"
	StateConfirmed            CheckoutState = "CONFIRMED"
	StateDeclined             CheckoutState = "DECLINED"
	StateErrored              CheckoutState = "ERRORED"
)

func (s CheckoutState) String() string {
	return string(s)
}

// PaymentDetails is what the customer submits to confirm an intent.
type PaymentDetails struct {
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

// PaymentIntent is held transiently; only the confirmation summary is
// persisted on the order.
type PaymentIntent struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`

	Metadata map[string]string `json:"-"`
}

// ConfirmOutcome is the processor's verdict on a confirmation attempt.
// A non-nil outcome means the processor answered; transport failures
// surface as errors instead and leave the outcome unknown.
type ConfirmOutcome struct {
	IntentID  string
	Succeeded bool
	Message   string
}

// PaymentProcessor is the external payment collaborator.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntent, error)
	// RetrieveIntent fetches an existing intent so its metadata and amount
	// can be checked against the order being confirmed.
	RetrieveIntent(ctx context.Context, intentID string) (*PaymentIntent, error)
	Confirm(ctx context.Context, intentID string, details PaymentDetails) (*ConfirmOutcome, error)
}

type IntentResponse struct {
	State        CheckoutState `json:"state"`
	IntentID     string        `json:"intent_id"`
	ClientSecret string        `json:"client_secret"`
}

type ConfirmResponse struct {
	State       CheckoutState `json:"state"`
	AlreadyPaid bool          `json:"already_paid,omitempty"`
	Order       *models.Order `json:"order,omitempty"`
}

var decimalHundred = decimal.NewFromInt(100)

// PaymentService drives payment confirmation to completion and reconciles
// order state with the processor outcome.
type PaymentService struct {
	orderRepo repository.OrderRepository
	processor PaymentProcessor
	publisher events.Publisher
	currency  string
	logger    *zap.Logger
}

func NewPaymentService(
	orderRepo repository.OrderRepository,
	processor PaymentProcessor,
	publisher events.Publisher,
	currency string,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		processor: processor,
		publisher: publisher,
		currency:  currency,
		logger:    logger,
	}
}

// RequestIntent asks the processor for a payment intent covering the order
// total. Failure leaves the order untouched; an already-paid order
// short-circuits without a processor call.
func (s *PaymentService) RequestIntent(ctx context.Context, userID string, orderID uuid.UUID) (*IntentResponse, *ServiceError) {
	order, svcErr := s.loadOwnOrder(ctx, userID, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if order.IsPaid {
		return nil, newServiceError(409, "Order is already paid", nil)
	}

	// Processor amounts are integer minor units.
	amount := order.TotalPrice.Mul(decimalHundred).IntPart()

	intent, err := s.processor.CreateIntent(ctx, amount, s.currency, map[string]string{
		"order_id": order.ID.String(),
	})
	if err != nil {
		s.logger.Error("Payment intent creation failed",
			zap.String("order_id", order.ID.String()),
			zap.String("stage", StateCreated.String()),
			zap.Error(err),
		)
		return nil, newServiceError(502, "Could not create payment intent", ErrIntentCreationFailed)
	}

	s.logger.Info("Payment intent created",
		zap.String("order_id", order.ID.String()),
		zap.String("intent_id", intent.IntentID),
		zap.String("state", StateIntentRequested.String()),
	)

	return &IntentResponse{
		State:        StateIntentRequested,
		IntentID:     intent.IntentID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// ConfirmPayment submits payment details against an intent and resolves to
// exactly one terminal outcome. The intent must have been issued for this
// order with a matching amount; an intent created for a different (or
// since-repriced) order is rejected before any charge attempt. Confirming
// an already-paid order is a no-op: no processor call, no second charge.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID string, orderID uuid.UUID, intentID string, details PaymentDetails) (*ConfirmResponse, *ServiceError) {
	order, svcErr := s.loadOwnOrder(ctx, userID, orderID)
	if svcErr != nil {
		return nil, svcErr
	}

	if order.IsPaid {
		s.logger.Info("Confirmation skipped, order already paid",
			zap.String("order_id", order.ID.String()),
		)
		return &ConfirmResponse{State: StateConfirmed, AlreadyPaid: true, Order: order}, nil
	}

	intent, err := s.processor.RetrieveIntent(ctx, intentID)
	if err != nil {
		s.logger.Error("Payment intent lookup failed",
			zap.String("order_id", order.ID.String()),
			zap.String("intent_id", intentID),
			zap.Error(err),
		)
		return nil, newServiceError(502, "Could not verify payment intent", err)
	}
	if intent.Metadata["order_id"] != order.ID.String() {
		s.logger.Warn("Payment intent order mismatch",
			zap.String("order_id", order.ID.String()),
			zap.String("intent_id", intentID),
			zap.String("intent_order_id", intent.Metadata["order_id"]),
		)
		return nil, newServiceError(409, "Payment intent does not belong to this order", nil)
	}
	if want := order.TotalPrice.Mul(decimalHundred).IntPart(); intent.Amount != want {
		s.logger.Warn("Payment intent amount mismatch",
			zap.String("order_id", order.ID.String()),
			zap.String("intent_id", intentID),
			zap.Int64("intent_amount", intent.Amount),
			zap.Int64("order_amount", want),
		)
		return nil, newServiceError(409, "Payment intent amount does not match the order total, request a new intent", nil)
	}

	s.logger.Debug("Awaiting processor confirmation",
		zap.String("order_id", order.ID.String()),
		zap.String("intent_id", intentID),
		zap.String("state", StateAwaitingConfirmation.String()),
	)

	outcome, err := s.processor.Confirm(ctx, intentID, details)
	if err != nil {
		// Transport failure: the charge may or may not have landed. Never
		// report this as a decline.
		s.logger.Error("Payment confirmation outcome unknown",
			zap.String("order_id", order.ID.String()),
			zap.String("intent_id", intentID),
			zap.String("state", StateErrored.String()),
			zap.Error(err),
		)
		return nil, newServiceError(502,
			"Payment outcome unknown, check order status before retrying",
			ErrPaymentIndeterminate)
	}

	if !outcome.Succeeded {
		s.logger.Warn("Payment declined",
			zap.String("order_id", order.ID.String()),
			zap.String("intent_id", intentID),
			zap.String("state", StateDeclined.String()),
			zap.String("reason", outcome.Message),
		)
		msg := "Payment declined"
		if outcome.Message != "" {
			msg = "Payment declined: " + outcome.Message
		}
		return nil, newServiceError(402, msg, ErrPaymentDeclined)
	}

	paidAt := time.Now().UTC()
	if err := s.orderRepo.MarkPaid(ctx, order.ID, outcome.IntentID, "succeeded", paidAt); err != nil {
		if err == repository.ErrAlreadyPaid {
			// A concurrent confirmation won the race; ours is a no-op.
			paid, fetchErr := s.orderRepo.FindByID(ctx, order.ID)
			if fetchErr != nil {
				paid = order
			}
			return &ConfirmResponse{State: StateConfirmed, AlreadyPaid: true, Order: paid}, nil
		}
		// Money moved but the order does not say so. This must reach an
		// operator, not disappear into a generic failure.
		s.logger.Error("RECONCILIATION REQUIRED: processor confirmed but order update failed",
			zap.String("order_id", order.ID.String()),
			zap.String("intent_id", outcome.IntentID),
			zap.String("stage", StateConfirmed.String()),
			zap.Error(err),
		)
		return nil, newServiceError(500,
			"Payment was collected but the order could not be updated, contact support",
			ErrReconciliation)
	}

	updated, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		updated = order
		updated.IsPaid = true
		updated.PaidAt = &paidAt
		updated.PaymentIntentID = outcome.IntentID
		updated.PaymentStatus = "succeeded"
	}

	s.publishPaid(ctx, updated)

	s.logger.Info("Payment confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("intent_id", outcome.IntentID),
		zap.String("state", StateConfirmed.String()),
	)

	return &ConfirmResponse{State: StateConfirmed, Order: updated}, nil
}

func (s *PaymentService) loadOwnOrder(ctx context.Context, userID string, orderID uuid.UUID) (*models.Order, *ServiceError) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, newServiceError(400, "Invalid user ID format", nil)
	}

	order, err := s.orderRepo.FindByIDAndUserID(ctx, orderID, userUUID)
	if err != nil {
		return nil, orderFetchError(err)
	}
	return order, nil
}

func (s *PaymentService) publishPaid(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := events.OrderEvent{
		Type:      events.TypeOrderPaid,
		OrderID:   order.ID.String(),
		UserID:    order.UserID.String(),
		Total:     order.TotalPrice.String(),
		Currency:  s.currency,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		s.logger.Warn("Order event publish failed",
			zap.String("order_id", event.OrderID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

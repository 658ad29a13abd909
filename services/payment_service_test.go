package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/faras-store/backend/events"
	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/repository"
	"github.com/faras-store/backend/services"
)

func newPaymentService(repo *mockOrderRepo, proc *mockProcessor, pub events.Publisher) *services.PaymentService {
	return services.NewPaymentService(repo, proc, pub, "usd", zap.NewNop())
}

func seedUnpaidOrder(t *testing.T, repo *mockOrderRepo, total string) (*models.Order, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	order := seedUnpaidOrderFor(t, repo, userID, total)
	return order, userID
}

func seedUnpaidOrderFor(t *testing.T, repo *mockOrderRepo, userID uuid.UUID, total string) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:     userID,
		Status:     models.OrderStatusPending,
		TotalPrice: decimal.RequireFromString(total),
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func requestIntent(t *testing.T, svc *services.PaymentService, userID string, orderID uuid.UUID) string {
	t.Helper()
	resp, svcErr := svc.RequestIntent(context.Background(), userID, orderID)
	require.Nil(t, svcErr)
	return resp.IntentID
}

func TestRequestIntent_Success(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	order, userID := seedUnpaidOrder(t, repo, "115.50")

	resp, svcErr := svc.RequestIntent(context.Background(), userID.String(), order.ID)
	require.Nil(t, svcErr)
	assert.Equal(t, services.StateIntentRequested, resp.State)
	assert.Equal(t, "pi_test", resp.IntentID)
	assert.NotEmpty(t, resp.ClientSecret)
	assert.Equal(t, 1, proc.intentCalls)
}

func TestRequestIntent_AmountInMinorUnits(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	order, userID := seedUnpaidOrder(t, repo, "115.50")

	_, svcErr := svc.RequestIntent(context.Background(), userID.String(), order.ID)
	require.Nil(t, svcErr)

	// The processor is asked for 11550 cents, not 115.50.
	assert.Equal(t, int64(11550), proc.lastAmount)
	assert.Equal(t, "usd", proc.lastCurrency)
}

func TestRequestIntent_AlreadyPaid(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	order, userID := seedUnpaidOrder(t, repo, "50.00")
	repo.orders[order.ID].IsPaid = true

	resp, svcErr := svc.RequestIntent(context.Background(), userID.String(), order.ID)
	assert.Nil(t, resp)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, 0, proc.intentCalls, "paid orders never reach the processor")
}

func TestRequestIntent_ProcessorFailureLeavesOrderUnpaid(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{intentErr: errBoom}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	order, userID := seedUnpaidOrder(t, repo, "50.00")

	resp, svcErr := svc.RequestIntent(context.Background(), userID.String(), order.ID)
	assert.Nil(t, resp)
	require.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.True(t, errors.Is(svcErr, services.ErrIntentCreationFailed))

	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid)
}

func TestRequestIntent_OtherUsersOrder(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newPaymentService(repo, &mockProcessor{}, &mockPublisher{})

	order, _ := seedUnpaidOrder(t, repo, "50.00")

	_, svcErr := svc.RequestIntent(context.Background(), uuid.New().String(), order.ID)
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestConfirmPayment_Success(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	pub := &mockPublisher{}
	svc := newPaymentService(repo, proc, pub)

	order, userID := seedUnpaidOrder(t, repo, "115.50")
	intentID := requestIntent(t, svc, userID.String(), order.ID)

	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	require.Nil(t, svcErr)
	assert.Equal(t, services.StateConfirmed, resp.State)
	assert.False(t, resp.AlreadyPaid)
	require.NotNil(t, resp.Order)
	assert.True(t, resp.Order.IsPaid)
	assert.NotNil(t, resp.Order.PaidAt)
	assert.Equal(t, intentID, resp.Order.PaymentIntentID)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeOrderPaid, pub.published[0].Type)
}

func TestConfirmPayment_IntentForDifferentOrderRejected(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	userID := uuid.New()
	cheap := seedUnpaidOrderFor(t, repo, userID, "1.00")
	expensive := seedUnpaidOrderFor(t, repo, userID, "1000.00")

	intentID := requestIntent(t, svc, userID.String(), cheap.ID)
	require.Equal(t, int64(100), proc.lastAmount)

	// Replaying the cheap order's intent against the expensive order must
	// not mark the expensive order paid off a 100-cent charge.
	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), expensive.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	assert.Nil(t, resp)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, 0, proc.confirmCalls, "mismatched intent must never reach the processor")

	stored, err := repo.FindByID(context.Background(), expensive.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid)
}

func TestConfirmPayment_AmountMismatchRejected(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	order, userID := seedUnpaidOrder(t, repo, "115.50")
	intentID := requestIntent(t, svc, userID.String(), order.ID)

	// Intent issued before the order total changed.
	proc.intents[intentID].Amount = 2000

	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	assert.Nil(t, resp)
	require.NotNil(t, svcErr)
	assert.Equal(t, 409, svcErr.StatusCode)
	assert.Equal(t, 0, proc.confirmCalls)
}

func TestConfirmPayment_UnknownIntent(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	order, userID := seedUnpaidOrder(t, repo, "50.00")

	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, "pi_ghost",
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	assert.Nil(t, resp)
	require.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.Equal(t, 0, proc.confirmCalls)
}

func TestConfirmPayment_Declined(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{outcome: &services.ConfirmOutcome{
		IntentID:  "pi_test",
		Succeeded: false,
		Message:   "card_declined",
	}}
	pub := &mockPublisher{}
	svc := newPaymentService(repo, proc, pub)

	order, userID := seedUnpaidOrder(t, repo, "50.00")
	intentID := requestIntent(t, svc, userID.String(), order.ID)

	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	assert.Nil(t, resp)
	require.NotNil(t, svcErr)
	assert.Equal(t, 402, svcErr.StatusCode)
	assert.True(t, errors.Is(svcErr, services.ErrPaymentDeclined))
	assert.Contains(t, svcErr.Message, "card_declined")

	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPaid, "declined payments never mark the order paid")
	assert.Empty(t, pub.published)
}

func TestConfirmPayment_TransportFailureIsIndeterminate(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{confirmErr: errBoom}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	order, userID := seedUnpaidOrder(t, repo, "50.00")
	intentID := requestIntent(t, svc, userID.String(), order.ID)

	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	assert.Nil(t, resp)
	require.NotNil(t, svcErr)
	assert.Equal(t, 502, svcErr.StatusCode)
	assert.True(t, errors.Is(svcErr, services.ErrPaymentIndeterminate))
	assert.False(t, errors.Is(svcErr, services.ErrPaymentDeclined),
		"an unknown outcome must not be reported as a decline")
	assert.Equal(t, 0, repo.markPaidCalls)
}

func TestConfirmPayment_AlreadyPaidIsNoOp(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	pub := &mockPublisher{}
	svc := newPaymentService(repo, proc, pub)

	order, userID := seedUnpaidOrder(t, repo, "115.50")
	intentID := requestIntent(t, svc, userID.String(), order.ID)

	_, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})
	require.Nil(t, svcErr)
	require.Equal(t, 1, proc.confirmCalls)

	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	require.Nil(t, svcErr)
	assert.Equal(t, services.StateConfirmed, resp.State)
	assert.True(t, resp.AlreadyPaid)
	assert.Equal(t, 1, proc.confirmCalls, "second confirm must not touch the processor")
	assert.Equal(t, 1, proc.retrieveCalls, "second confirm short-circuits before intent lookup")
	assert.Len(t, pub.published, 1, "no duplicate paid event")
}

func TestConfirmPayment_MarkPaidRaceTreatedAsNoOp(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	svc := newPaymentService(repo, proc, &mockPublisher{})

	order, userID := seedUnpaidOrder(t, repo, "50.00")
	intentID := requestIntent(t, svc, userID.String(), order.ID)

	// A concurrent confirmation wins the race between the service's read
	// and its MarkPaid write.
	repo.markPaidErr = repository.ErrAlreadyPaid

	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	require.Nil(t, svcErr)
	assert.Equal(t, services.StateConfirmed, resp.State)
	assert.True(t, resp.AlreadyPaid)
}

func TestConfirmPayment_PersistFailureAfterChargeIsReconciliation(t *testing.T) {
	repo := newMockOrderRepo()
	proc := &mockProcessor{}
	pub := &mockPublisher{}
	svc := newPaymentService(repo, proc, pub)

	order, userID := seedUnpaidOrder(t, repo, "50.00")
	intentID := requestIntent(t, svc, userID.String(), order.ID)

	repo.markPaidErr = errBoom

	resp, svcErr := svc.ConfirmPayment(context.Background(), userID.String(), order.ID, intentID,
		services.PaymentDetails{PaymentMethodID: "pm_card"})

	assert.Nil(t, resp)
	require.NotNil(t, svcErr)
	assert.Equal(t, 500, svcErr.StatusCode)
	assert.True(t, errors.Is(svcErr, services.ErrReconciliation))
	assert.False(t, errors.Is(svcErr, services.ErrPaymentDeclined))
	assert.Empty(t, pub.published)
}

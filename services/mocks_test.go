package services_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/faras-store/backend/events"
	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/repository"
	"github.com/faras-store/backend/services"
)

// --- Mock order repository ---

type mockOrderRepo struct {
	orders map[uuid.UUID]*models.Order

	createErr   error
	markPaidErr error

	markPaidCalls int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, ok := m.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepo) FindByUserID(_ context.Context, userID uuid.UUID, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, _, _ int) ([]models.Order, int64, error) {
	var out []models.Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) MarkPaid(_ context.Context, orderID uuid.UUID, intentID, status string, paidAt time.Time) error {
	m.markPaidCalls++
	if m.markPaidErr != nil {
		return m.markPaidErr
	}
	order, ok := m.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.IsPaid {
		return repository.ErrAlreadyPaid
	}
	order.IsPaid = true
	order.PaidAt = &paidAt
	order.PaymentIntentID = intentID
	order.PaymentStatus = status
	return nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, from, to models.OrderStatus) error {
	order, ok := m.orders[orderID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	if order.Status != from {
		return repository.ErrStaleWrite
	}
	order.Status = to
	if to == models.OrderStatusDelivered {
		order.IsDelivered = true
		now := time.Now().UTC()
		order.DeliveredAt = &now
	}
	return nil
}

func (m *mockOrderRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.orders)), nil
}

func (m *mockOrderRepo) PaidRevenue(_ context.Context) (float64, error) {
	var total float64
	for _, o := range m.orders {
		if o.IsPaid {
			f, _ := o.TotalPrice.Float64()
			total += f
		}
	}
	return total, nil
}

// --- Mock product catalog ---

type mockCatalog struct {
	products map[string]*models.Product
	err      error
}

func newMockCatalog(products ...*models.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[string]*models.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) FindByID(_ context.Context, id string) (*models.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

// --- Mock payment processor ---

type mockProcessor struct {
	intents map[string]*services.PaymentIntent

	intentErr   error
	retrieveErr error
	outcome     *services.ConfirmOutcome
	confirmErr  error

	intentCalls   int
	retrieveCalls int
	confirmCalls  int
	lastAmount    int64
	lastCurrency  string
}

func (m *mockProcessor) CreateIntent(_ context.Context, amount int64, currency string, metadata map[string]string) (*services.PaymentIntent, error) {
	m.intentCalls++
	m.lastAmount = amount
	m.lastCurrency = currency
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	intent := &services.PaymentIntent{
		IntentID:     "pi_test",
		ClientSecret: "pi_test_secret",
		Amount:       amount,
		Currency:     currency,
		Metadata:     metadata,
	}
	if m.intents == nil {
		m.intents = make(map[string]*services.PaymentIntent)
	}
	m.intents[intent.IntentID] = intent
	return intent, nil
}

func (m *mockProcessor) RetrieveIntent(_ context.Context, intentID string) (*services.PaymentIntent, error) {
	m.retrieveCalls++
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	intent, ok := m.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("no such intent %s", intentID)
	}
	return intent, nil
}

func (m *mockProcessor) Confirm(_ context.Context, intentID string, _ services.PaymentDetails) (*services.ConfirmOutcome, error) {
	m.confirmCalls++
	if m.confirmErr != nil {
		return nil, m.confirmErr
	}
	if m.outcome != nil {
		return m.outcome, nil
	}
	return &services.ConfirmOutcome{IntentID: intentID, Succeeded: true}, nil
}

// --- Mock event publisher ---

type mockPublisher struct {
	published []events.OrderEvent
	err       error
}

func (m *mockPublisher) PublishOrderEvent(_ context.Context, event events.OrderEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event)
	return nil
}

var errBoom = errors.New("boom")

package order

import (
	"context"
	"testing"
	"time"

	"github.com/go-api-sql/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Create(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOrderStore) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if o, _ := args.Get(0).(*domain.Order); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOrderStore) List(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *mockOrderStore) Update(ctx context.Context, orderID string, updates map[string]interface{}) error {
	return m.Called(ctx, orderID, updates).Error(0)
}
func (m *mockOrderStore) Delete(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

func TestCreateOrder(t *testing.T) {
	repo := &mockOrderStore{}
	var created *domain.Order
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Order) }).
		Return(nil)

	svc := NewService(repo)
	o, err := svc.Create(context.Background(), domain.CreateOrderRequest{
		Status: "pending",
		Date:   "2024-06-01",
		UserID: "u1",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, o.OrderID)
	assert.Equal(t, "pending", o.Status)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), o.OrderDate)
}

func TestCreateOrder_BadDate(t *testing.T) {
	svc := NewService(&mockOrderStore{})
	_, err := svc.Create(context.Background(), domain.CreateOrderRequest{
		Status: "pending",
		Date:   "01/06/2024",
		UserID: "u1",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCreateOrder_MissingFields(t *testing.T) {
	svc := NewService(&mockOrderStore{})
	_, err := svc.Create(context.Background(), domain.CreateOrderRequest{Status: "pending"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpdateOrder_Partial(t *testing.T) {
	repo := &mockOrderStore{}
	status := "shipped"
	repo.On("Update", mock.Anything, "o1", map[string]interface{}{fieldStatus: status}).Return(nil)
	repo.On("Get", mock.Anything, "o1").Return(&domain.Order{OrderID: "o1", Status: status}, nil)

	svc := NewService(repo)
	o, err := svc.Update(context.Background(), "o1", domain.UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "shipped", o.Status)
	repo.AssertExpectations(t)
}

func TestUpdateOrder_NoFields(t *testing.T) {
	svc := NewService(&mockOrderStore{})
	_, err := svc.Update(context.Background(), "o1", domain.UpdateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

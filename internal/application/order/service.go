package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-api-sql/internal/domain"
	"github.com/go-api-sql/internal/pkg/id"
	"github.com/go-api-sql/internal/pkg/validate"
)

const dateLayout = "2006-01-02"

const (
	fieldStatus    = "status"
	fieldOrderDate = "order_date"
	fieldUserID    = "user_id"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	Update(ctx context.Context, orderID string, req domain.UpdateOrderRequest) (*domain.Order, error)
	Delete(ctx context.Context, orderID string) error
}

type orderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, orderID string, updates map[string]interface{}) error
	Delete(ctx context.Context, orderID string) error
}

type service struct {
	repo orderStore
}

func NewService(repo orderStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", req.Date, domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	o := &domain.Order{
		OrderID:   id.New(),
		Status:    req.Status,
		OrderDate: date,
		UserID:    req.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.Get(ctx, orderID)
}

func (s *service) Update(ctx context.Context, orderID string, req domain.UpdateOrderRequest) (*domain.Order, error) {
	updates := map[string]interface{}{}
	if req.Status != nil {
		updates[fieldStatus] = *req.Status
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", *req.Date, domain.ErrBadRequest)
		}
		updates[fieldOrderDate] = date
	}
	if req.UserID != nil {
		updates[fieldUserID] = *req.UserID
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update: %w", domain.ErrBadRequest)
	}
	if err := s.repo.Update(ctx, orderID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, orderID)
}

func (s *service) Delete(ctx context.Context, orderID string) error {
	return s.repo.Delete(ctx, orderID)
}

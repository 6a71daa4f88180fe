package domain

import "time"

type Order struct {
	OrderID   string    `json:"id"`
	Status    string    `json:"status"`
	OrderDate time.Time `json:"date"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

type CreateOrderRequest struct {
	Status string `json:"status" validate:"required"`
	Date   string `json:"date" validate:"required"` // expected format: YYYY-MM-DD
	UserID string `json:"user_id" validate:"required"`
}

type UpdateOrderRequest struct {
	Status *string `json:"status"`
	Date   *string `json:"date"` // expected format: YYYY-MM-DD
	UserID *string `json:"user_id"`
}

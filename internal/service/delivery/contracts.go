package delivery

import (
	"context"

	"delivery-tracker/internal/domain"
)

//go:generate mockgen -source=contracts.go -destination=mock_repository_test.go -package=delivery_test

type deliveryRepository interface {
	ListPending(ctx context.Context) ([]domain.Delivery, error)
	ListHistory(ctx context.Context) ([]domain.Delivery, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error)
	Insert(ctx context.Context, d domain.Delivery) (domain.Delivery, error)
	UpdateStatus(ctx context.Context, orderID string, change domain.StatusChange) (bool, error)
}

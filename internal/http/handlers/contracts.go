package handlers

import (
	"context"
	"time"

	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/service/delivery"
)

type deliveryUsecase interface {
	ListPending(ctx context.Context) ([]domain.View, error)
	ListHistory(ctx context.Context) ([]domain.View, error)
	Find(ctx context.Context, orderID string) (domain.View, error)
	RegisterOrUpdate(ctx context.Context, d domain.Delivery) (domain.Delivery, bool, error)
	UpdateStatus(ctx context.Context, orderID string, change domain.StatusChange) error
	Classify(createdAt time.Time) (int, domain.Priority)
}

// NewDeliveryUsecase wires a delivery Service into a deliveryUsecase.
func NewDeliveryUsecase(svc *delivery.Service) deliveryUsecase {
	return svc
}

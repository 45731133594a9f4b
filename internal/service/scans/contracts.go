package scans

import (
	"context"

	"delivery-tracker/internal/domain"
)

//go:generate mockgen -source=contracts.go -destination=scans_mocks_test.go -package=scans_test

// StatusUpdater is the part of the delivery service the processor drives.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID string, change domain.StatusChange) error
}

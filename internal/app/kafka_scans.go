package app

import (
	"context"
	"errors"

	"delivery-tracker/internal/apperr"
	"delivery-tracker/internal/service/scans"
	"delivery-tracker/internal/transport/kafka"
)

type scanHandler interface {
	Handle(ctx context.Context, e scans.Event) error
}

// makeScansKafka adapts the processor to the consumer: store outages are
// retried, anything else the processor could not classify is skipped.
func makeScansKafka(p scanHandler) kafka.HandleFunc {
	return func(ctx context.Context, e scans.Event) error {
		err := p.Handle(ctx, e)
		if err == nil || retryable(err) {
			return err
		}
		return kafka.Permanent(err)
	}
}

func retryable(err error) bool {
	return errors.Is(err, apperr.ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

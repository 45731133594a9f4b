package scans_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"delivery-tracker/internal/apperr"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/metrics"
	"delivery-tracker/internal/service/scans"
	testlog "delivery-tracker/internal/testutil"
)

func TestProcessor_Handle(t *testing.T) {
	t.Parallel()

	storeErr := fmt.Errorf("read order ids: %w", apperr.ErrUnavailable)

	tests := []struct {
		name       string
		event      scans.Event
		wantChange domain.StatusChange
		repoErr    error
		wantResult string
		errAssert  require.ErrorAssertionFunc
		wantWarn   string
	}{
		{
			name:       "bare scan marks delivered",
			event:      scans.Event{OrderID: "ORD-1"},
			wantChange: domain.StatusChange{Status: domain.StatusDelivered},
			wantResult: scans.ResultApplied,
			errAssert:  require.NoError,
		},
		{
			name:       "problem scan",
			event:      scans.Event{OrderID: "ORD-1", Status: " Problem ", Problem: "destinatario_ausente", Comment: "timbre roto"},
			wantChange: domain.StatusChange{Status: domain.StatusProblem, Problem: domain.ProblemRecipientAbsent, Comment: "timbre roto"},
			wantResult: scans.ResultApplied,
			errAssert:  require.NoError,
		},
		{
			name:       "unknown order is dropped",
			event:      scans.Event{OrderID: "ORD-404"},
			wantChange: domain.StatusChange{Status: domain.StatusDelivered},
			repoErr:    fmt.Errorf("%w: order %q", apperr.ErrNotFound, "ORD-404"),
			wantResult: scans.ResultNotFound,
			errAssert:  require.NoError,
			wantWarn:   "scan for unknown order",
		},
		{
			name:       "invalid is dropped",
			event:      scans.Event{OrderID: "ORD-1", Status: "problem"},
			wantChange: domain.StatusChange{Status: domain.StatusProblem},
			repoErr:    fmt.Errorf("%w: problem kind is required", apperr.ErrInvalid),
			wantResult: scans.ResultInvalid,
			errAssert:  require.NoError,
			wantWarn:   "scan rejected",
		},
		{
			name:       "store failure is returned",
			event:      scans.Event{OrderID: "ORD-1"},
			wantChange: domain.StatusChange{Status: domain.StatusDelivered},
			repoErr:    storeErr,
			wantResult: scans.ResultFailed,
			errAssert: func(t require.TestingT, err error, _ ...interface{}) {
				require.True(t, errors.Is(err, apperr.ErrUnavailable))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			upd := NewMockStatusUpdater(ctrl)
			upd.EXPECT().UpdateStatus(gomock.Any(), tt.event.OrderID, tt.wantChange).Return(tt.repoErr)

			rec := testlog.New()
			results := metrics.NewScanEventsTotal()
			p := scans.NewProcessor(upd, rec.Logger(), results)

			tt.errAssert(t, p.Handle(context.Background(), tt.event))
			require.Equal(t, 1.0, testutil.ToFloat64(results.WithLabelValues(tt.wantResult)))
			if tt.wantWarn != "" {
				require.Len(t, rec.Find("warn", tt.wantWarn), 1)
			}
		})
	}
}

func TestProcessor_Handle_LogsScanTime(t *testing.T) {
	t.Parallel()

	scannedAt := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		event   scans.Event
		repoErr error
		level   string
		msg     string
		wantAt  bool
	}{
		{name: "applied", event: scans.Event{OrderID: "ORD-1", ScannedAt: scannedAt}, level: "debug", msg: "scan applied", wantAt: true},
		{name: "unknown order", event: scans.Event{OrderID: "ORD-404", ScannedAt: scannedAt}, repoErr: apperr.ErrNotFound, level: "warn", msg: "scan for unknown order", wantAt: true},
		{name: "no device time", event: scans.Event{OrderID: "ORD-1"}, level: "debug", msg: "scan applied"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			upd := NewMockStatusUpdater(ctrl)
			upd.EXPECT().UpdateStatus(gomock.Any(), tt.event.OrderID, gomock.Any()).Return(tt.repoErr)

			rec := testlog.New()
			require.NoError(t, scans.NewProcessor(upd, rec.Logger(), nil).Handle(context.Background(), tt.event))

			entries := rec.Find(tt.level, tt.msg)
			require.Len(t, entries, 1)
			id, _ := entries[0].Field("order_id")
			require.Equal(t, tt.event.OrderID, id)
			at, ok := entries[0].Field("scanned_at")
			require.Equal(t, tt.wantAt, ok)
			if tt.wantAt {
				require.Equal(t, scannedAt, at)
			}
		})
	}
}

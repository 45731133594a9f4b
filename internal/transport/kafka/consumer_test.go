package kafka

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"delivery-tracker/internal/service/scans"
	testlog "delivery-tracker/internal/testutil"
)

type fakeGroup struct {
	consume func(ctx context.Context) error
	calls   atomic.Int32
	closed  atomic.Bool
}

func (g *fakeGroup) Consume(ctx context.Context, _ []string, _ sarama.ConsumerGroupHandler) error {
	g.calls.Add(1)
	return g.consume(ctx)
}
func (g *fakeGroup) Errors() <-chan error {
	ch := make(chan error)
	close(ch)
	return ch
}
func (g *fakeGroup) Close() error       { g.closed.Store(true); return nil }
func (g *fakeGroup) Pause(map[string][]int32)  {}
func (g *fakeGroup) Resume(map[string][]int32) {}
func (g *fakeGroup) PauseAll()                 {}
func (g *fakeGroup) ResumeAll()                {}

func TestNewConsumer_SkipsWhenNoKafkaConfig(t *testing.T) {
	t.Parallel()

	rec := testlog.New()
	h := func(context.Context, scans.Event) error { return nil }

	got, err := NewConsumer(rec.Logger(), nil, "gid", "topic", h)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewConsumer(rec.Logger(), []string{"b:9092"}, "", "topic", h)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewConsumer(rec.Logger(), []string{"b:9092"}, "gid", "   ", h)
	require.NoError(t, err)
	require.Nil(t, got)

	// nil consumer is a valid no-op
	require.NoError(t, got.Run(context.Background()))
	require.NoError(t, got.Close())
}

func TestNewConsumer_ReturnsErrorWhenSaramaFails(t *testing.T) {
	orig := newConsumerGroup
	t.Cleanup(func() { newConsumerGroup = orig })

	sentinel := errors.New("boom")
	newConsumerGroup = func(_ []string, _ string, _ *sarama.Config) (sarama.ConsumerGroup, error) {
		return nil, sentinel
	}

	got, err := NewConsumer(testlog.New().Logger(), []string{"b:9092"}, "gid", "topic", nil)
	require.ErrorIs(t, err, sentinel)
	require.Nil(t, got)
}

func TestConsumer_Run_RetriesThenStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := testlog.New()
	g := &fakeGroup{}
	g.consume = func(ctx context.Context) error {
		if g.calls.Load() < 3 {
			return errors.New("broker down")
		}
		cancel()
		<-ctx.Done()
		return nil
	}
	c := &Consumer{group: g, topic: "scans", logger: rec.Logger(), backoff: time.Millisecond}

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
	require.EqualValues(t, 3, g.calls.Load())
	require.Len(t, rec.Find("warn", "kafka consume error"), 2)

	require.NoError(t, c.Close())
	require.True(t, g.closed.Load())
}

func TestConsumer_Run_ClosedGroupEndsLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := &fakeGroup{consume: func(context.Context) error { return sarama.ErrClosedConsumerGroup }}
	c := &Consumer{group: g, topic: "scans", logger: testlog.New().Logger(), backoff: time.Hour}

	require.NoError(t, c.Run(context.Background()))
	require.EqualValues(t, 1, g.calls.Load())
}

package delivery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"delivery-tracker/internal/apperr"
	"delivery-tracker/internal/clock"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/logx"
	"delivery-tracker/internal/priority"
)

// Service - delivery use cases over the spreadsheet repository.
type Service struct {
	repo             deliveryRepository
	classifier       *priority.Classifier
	clock            clock.Clock
	operationTimeout time.Duration
	logger           logx.Logger
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// NewDeliveryService - creates a new delivery Service.
func NewDeliveryService(r deliveryRepository, c clock.Clock, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if c == nil {
		c = clock.Real{}
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		classifier:       priority.NewClassifier(c),
		clock:            c,
		operationTimeout: timeout,
		logger:           logger,
	}
}

// ListPending returns pending deliveries, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]domain.View, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	views := s.classifier.Views(list)
	priority.SortByUrgency(views)
	return views, nil
}

// ListHistory returns closed deliveries, most recently updated first.
func (s *Service) ListHistory(ctx context.Context) ([]domain.View, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repo.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	views := s.classifier.Views(list)
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].UpdatedAt.After(views[j].UpdatedAt)
	})
	return views, nil
}

// Find returns one delivery by business key.
func (s *Service) Find(ctx context.Context, orderID string) (domain.View, error) {
	orderID, err := validateOrderID(orderID)
	if err != nil {
		return domain.View{}, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return domain.View{}, err
	}
	if d == nil {
		return domain.View{}, fmt.Errorf("%w: order %q", apperr.ErrNotFound, orderID)
	}
	return s.classifier.View(*d), nil
}

// RegisterOrUpdate creates the delivery or, when the business key exists, applies
// its status part to the existing record. created reports which path ran.
//
// On an existing key only status, problem, comment and updated-at are written.
// Every other field of d (type, quantity, address, contact data) is ignored and
// the result carries the stored values, so re-registering cannot edit them.
func (s *Service) RegisterOrUpdate(ctx context.Context, d domain.Delivery) (result domain.Delivery, created bool, err error) {
	orderID, err := validateOrderID(d.OrderID)
	if err != nil {
		return domain.Delivery{}, false, err
	}
	d.OrderID = orderID
	change := d.StatusChange().Normalize()
	if change.Status == "" {
		change.Status = domain.StatusPending
	}
	if err := change.Validate(); err != nil {
		return domain.Delivery{}, false, err
	}
	d.Status, d.Problem, d.Comment = change.Status, change.Problem, change.Comment

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	existing, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return domain.Delivery{}, false, err
	}

	if existing == nil {
		inserted, err := s.repo.Insert(ctx, d)
		if err != nil {
			return domain.Delivery{}, false, err
		}
		s.logger.Info("delivery registered",
			logx.String("event", "delivery_registered"),
			logx.String("order_id", inserted.OrderID),
			logx.String("record_id", inserted.ID),
			logx.String("type", string(inserted.Type)),
		)
		return inserted, true, nil
	}

	ok, err := s.repo.UpdateStatus(ctx, orderID, change)
	if err != nil {
		return domain.Delivery{}, false, err
	}
	if !ok {
		// row vanished between the lookup and the write
		return domain.Delivery{}, false, fmt.Errorf("%w: order %q", apperr.ErrNotFound, orderID)
	}
	merged := existing.WithStatus(change, s.clock.Now())
	s.logStatus(merged)
	return merged, false, nil
}

// UpdateStatus changes the status part of an existing delivery.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, change domain.StatusChange) error {
	orderID, err := validateOrderID(orderID)
	if err != nil {
		return err
	}
	change = change.Normalize()
	if err := change.Validate(); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.repo.UpdateStatus(ctx, orderID, change)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: order %q", apperr.ErrNotFound, orderID)
	}
	s.logStatus(domain.Delivery{OrderID: orderID}.WithStatus(change, s.clock.Now()))
	return nil
}

// Classify returns the age in days and priority for a creation time.
func (s *Service) Classify(createdAt time.Time) (int, domain.Priority) {
	days := s.classifier.DaysSince(createdAt)
	return days, priority.Classify(days)
}

// Backlog counts pending deliveries per priority. Every bucket is present.
func (s *Service) Backlog(ctx context.Context) (map[domain.Priority]int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := map[domain.Priority]int{
		domain.PriorityNormal: 0,
		domain.PriorityHigh:   0,
		domain.PriorityUrgent: 0,
	}
	for _, v := range s.classifier.Views(list) {
		out[v.Priority]++
	}
	return out, nil
}

func (s *Service) logStatus(d domain.Delivery) {
	fields := []logx.Field{
		logx.String("event", "delivery_status_changed"),
		logx.String("order_id", d.OrderID),
		logx.String("status", string(d.Status)),
	}
	if d.Problem != "" {
		fields = append(fields, logx.String("problem", string(d.Problem)))
	}
	s.logger.Info("delivery status changed", fields...)
}

func validateOrderID(orderID string) (string, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return "", fmt.Errorf("%w: order id is required", apperr.ErrInvalid)
	}
	return orderID, nil
}

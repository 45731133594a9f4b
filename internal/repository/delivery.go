package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"delivery-tracker/internal/apperr"
	"delivery-tracker/internal/clock"
	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/gateway/sheets"
	"delivery-tracker/internal/rowmap"
	"delivery-tracker/internal/schema"
)

// statusFields are the cells an update touches.
var statusFields = [...]schema.Field{
	schema.FieldStatus, schema.FieldProblem, schema.FieldUpdatedAt, schema.FieldComment,
}

// DeliveryRepo represents delivery repository backed by one spreadsheet tab.
// Every call re-reads the sheet; nothing is cached.
type DeliveryRepo struct {
	values valuesGateway
	mapper *rowmap.Mapper
	clock  clock.Clock
	newID  func() string
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(values valuesGateway, s *schema.Schema, c clock.Clock) *DeliveryRepo {
	if c == nil {
		c = clock.Real{}
	}
	return &DeliveryRepo{
		values: values,
		mapper: rowmap.New(s),
		clock:  c,
		newID:  func() string { return uuid.NewString() },
	}
}

func (r *DeliveryRepo) schema() *schema.Schema { return r.mapper.Schema() }

// ListPending returns deliveries whose status is pending, in sheet order.
func (r *DeliveryRepo) ListPending(ctx context.Context) ([]domain.Delivery, error) {
	return r.filter(ctx, func(d domain.Delivery) bool { return d.Status == domain.StatusPending })
}

// ListHistory returns every delivery that left the pending state, in sheet order.
func (r *DeliveryRepo) ListHistory(ctx context.Context) ([]domain.Delivery, error) {
	return r.filter(ctx, func(d domain.Delivery) bool { return d.Status != domain.StatusPending })
}

// FindByOrderID returns the first delivery with the business key, or nil.
func (r *DeliveryRepo) FindByOrderID(ctx context.Context, orderID string) (*domain.Delivery, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, nil
	}
	recs, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.Delivery.OrderID == orderID {
			d := rec.Delivery
			return &d, nil
		}
	}
	return nil, nil
}

// Insert appends a new delivery. The business key must be unused.
func (r *DeliveryRepo) Insert(ctx context.Context, d domain.Delivery) (domain.Delivery, error) {
	d.OrderID = strings.TrimSpace(d.OrderID)
	if d.Quantity == 0 {
		d.Quantity = 1
	}
	change := d.StatusChange().Normalize()
	if change.Status == "" {
		change.Status = domain.StatusPending
	}
	d.Status, d.Problem, d.Comment = change.Status, change.Problem, change.Comment
	if err := d.Validate(); err != nil {
		return domain.Delivery{}, err
	}

	idx, err := r.indexOf(ctx, d.OrderID)
	if err != nil {
		return domain.Delivery{}, err
	}
	if idx >= 0 {
		return domain.Delivery{}, fmt.Errorf("%w: order %q already registered", apperr.ErrConflict, d.OrderID)
	}

	now := r.clock.Now()
	d.ID = r.newID()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	s := r.schema()
	rng := sheets.Columns(s.Sheet, 0, s.Width()-1, s.HeaderRow)
	if err := r.values.Append(ctx, rng, [][]string{r.mapper.DeliveryToRow(d)}); err != nil {
		return domain.Delivery{}, fmt.Errorf("insert %s: %w", d.OrderID, err)
	}
	return d, nil
}

// UpdateStatus writes status, problem, updated-at and comment of the row with the
// business key in one batch request. Returns false when the key is absent.
func (r *DeliveryRepo) UpdateStatus(ctx context.Context, orderID string, change domain.StatusChange) (bool, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return false, fmt.Errorf("%w: order id is required", apperr.ErrInvalid)
	}
	change = change.Normalize()
	if err := change.Validate(); err != nil {
		return false, err
	}

	idx, err := r.indexOf(ctx, orderID)
	if err != nil {
		return false, err
	}
	if idx < 0 {
		return false, nil
	}

	updated := domain.Delivery{}.WithStatus(change, r.clock.Now())
	updates := r.statusUpdates(r.schema().RowNumber(idx), updated)
	if err := r.values.BatchUpdate(ctx, updates); err != nil {
		return false, fmt.Errorf("update status %s: %w", orderID, err)
	}
	return true, nil
}

// CheckSchema compares the header row with the configured layout.
func (r *DeliveryRepo) CheckSchema(ctx context.Context) error {
	s := r.schema()
	rows, err := r.values.Get(ctx, sheets.Row(s.Sheet, 0, s.Width()-1, s.HeaderRow))
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	return s.CheckHeader(header)
}

// statusUpdates groups the touched columns into contiguous runs, one block each.
func (r *DeliveryRepo) statusUpdates(row int, d domain.Delivery) []sheets.CellUpdate {
	s := r.schema()
	type cell struct {
		off int
		val string
	}
	cells := make([]cell, 0, len(statusFields))
	for _, f := range statusFields {
		cells = append(cells, cell{off: s.MustOffset(f), val: r.mapper.Cell(d, f)})
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].off < cells[j].off })

	var updates []sheets.CellUpdate
	for i := 0; i < len(cells); {
		j := i + 1
		for j < len(cells) && cells[j].off == cells[j-1].off+1 {
			j++
		}
		vals := make([]string, 0, j-i)
		for _, c := range cells[i:j] {
			vals = append(vals, c.val)
		}
		updates = append(updates, sheets.CellUpdate{
			Range:  sheets.Row(s.Sheet, cells[i].off, cells[j-1].off, row),
			Values: [][]string{vals},
		})
		i = j
	}
	return updates
}

// indexOf reads only the business key column; -1 when absent.
func (r *DeliveryRepo) indexOf(ctx context.Context, orderID string) (int, error) {
	s := r.schema()
	off := s.MustOffset(schema.FieldOrderID)
	rows, err := r.values.Get(ctx, sheets.Columns(s.Sheet, off, off, s.FirstDataRow))
	if err != nil {
		return -1, fmt.Errorf("read order ids: %w", err)
	}
	for i, row := range rows {
		if len(row) > 0 && strings.TrimSpace(row[0]) == orderID {
			return i, nil
		}
	}
	return -1, nil
}

func (r *DeliveryRepo) readAll(ctx context.Context) ([]rowmap.Record, error) {
	s := r.schema()
	rows, err := r.values.Get(ctx, sheets.Columns(s.Sheet, 0, s.Width()-1, s.FirstDataRow))
	if err != nil {
		return nil, fmt.Errorf("read deliveries: %w", err)
	}
	return r.mapper.RowsToRecords(rows), nil
}

func (r *DeliveryRepo) filter(ctx context.Context, keep func(domain.Delivery) bool) ([]domain.Delivery, error) {
	recs, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Delivery, 0, len(recs))
	for _, rec := range recs {
		if keep(rec.Delivery) {
			out = append(out, rec.Delivery)
		}
	}
	return out, nil
}

// Package rowmap converts between positional sheet rows and domain deliveries.
package rowmap

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"delivery-tracker/internal/domain"
	"delivery-tracker/internal/schema"
)

// legacyNamespace seeds record ids for rows written before the record_id column existed.
var legacyNamespace = uuid.MustParse("6f1c2a9e-4b1d-5e7a-9c3f-2d8b7e6a1f05")

const timeLayout = time.RFC3339Nano

// Layouts accepted on read, most specific first. Older rows came from browser
// ISO strings and hand edits in the sheet. Day/month layouts are unpadded:
// es-locale sheets render d/M/yyyy H:mm:ss, and they accept padded input too.
var readLayouts = [...]string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2006-01-02",
	"2/1/2006",
}

// Record is a mapped delivery plus where it sits in the sheet.
type Record struct {
	Delivery domain.Delivery
	// Row is the 1-based sheet row. Storage detail, never identity.
	Row int
}

// Mapper translates rows using a schema.
type Mapper struct {
	schema *schema.Schema
}

// New returns a Mapper for s.
func New(s *schema.Schema) *Mapper {
	return &Mapper{schema: s}
}

// Schema returns the layout in use.
func (m *Mapper) Schema() *schema.Schema { return m.schema }

// RowToDelivery maps one data row; index is its zero-based position below the header.
func (m *Mapper) RowToDelivery(row []string, index int) Record {
	cell := func(f schema.Field) string {
		off, ok := m.schema.Offset(f)
		if !ok || off >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[off])
	}

	d := domain.Delivery{
		ID:               cell(schema.FieldRecordID),
		OrderID:          cell(schema.FieldOrderID),
		CustomerEmail:    cell(schema.FieldCustomerEmail),
		Type:             domain.DeliveryType(cell(schema.FieldDeliveryType)),
		Quantity:         parseQuantity(cell(schema.FieldQuantity)),
		SerialNumber:     cell(schema.FieldSerialNumber),
		Status:           domain.DeliveryStatus(cell(schema.FieldStatus)),
		Problem:          domain.DeliveryProblem(cell(schema.FieldProblem)),
		Comment:          cell(schema.FieldComment),
		CreatedAt:        ParseTime(cell(schema.FieldCreatedAt)),
		UpdatedAt:        ParseTime(cell(schema.FieldUpdatedAt)),
		DeliveryPersonID: cell(schema.FieldDeliveryPersonID),
		Address:          cell(schema.FieldAddress),
		Phone:            cell(schema.FieldPhone),
		Schedule:         cell(schema.FieldSchedule),
		BusinessName:     cell(schema.FieldBusinessName),
	}
	if d.Status == "" {
		d.Status = domain.StatusPending
	}
	if d.ID == "" && d.OrderID != "" {
		d.ID = LegacyID(d.OrderID)
	}
	return Record{Delivery: d, Row: m.schema.RowNumber(index)}
}

// RowsToRecords maps every row, skipping rows without a business key.
func (m *Mapper) RowsToRecords(rows [][]string) []Record {
	out := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec := m.RowToDelivery(row, i)
		if rec.Delivery.OrderID == "" {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// DeliveryToRow renders a full-width row. Reserved columns are left empty.
func (m *Mapper) DeliveryToRow(d domain.Delivery) []string {
	row := make([]string, m.schema.Width())
	for _, c := range m.schema.Columns {
		row[c.Offset] = m.value(d, c)
	}
	return row
}

// Cell renders the primary value of f, as written on updates.
func (m *Mapper) Cell(d domain.Delivery, f schema.Field) string {
	return m.value(d, schema.Column{Field: f})
}

func (m *Mapper) value(d domain.Delivery, c schema.Column) string {
	switch c.Field {
	case schema.FieldRecordID:
		return d.ID
	case schema.FieldOrderID:
		return d.OrderID
	case schema.FieldCustomerEmail:
		return d.CustomerEmail
	case schema.FieldDeliveryType:
		return string(d.Type)
	case schema.FieldQuantity:
		return strconv.Itoa(d.Quantity)
	case schema.FieldSerialNumber:
		return d.SerialNumber
	case schema.FieldStatus:
		return string(d.Status)
	case schema.FieldProblem:
		return string(d.Problem)
	case schema.FieldComment:
		return d.Comment
	case schema.FieldCreatedAt:
		if c.Format == schema.FormatDate {
			return FormatDate(d.CreatedAt)
		}
		return FormatTime(d.CreatedAt)
	case schema.FieldUpdatedAt:
		if c.Format == schema.FormatDate {
			return FormatDate(d.UpdatedAt)
		}
		return FormatTime(d.UpdatedAt)
	case schema.FieldDeliveryPersonID:
		return d.DeliveryPersonID
	case schema.FieldAddress:
		return d.Address
	case schema.FieldPhone:
		return d.Phone
	case schema.FieldSchedule:
		return d.Schedule
	case schema.FieldBusinessName:
		return d.BusinessName
	default:
		return ""
	}
}

// LegacyID derives a stable record id from the business key.
func LegacyID(orderID string) string {
	return uuid.NewSHA1(legacyNamespace, []byte(orderID)).String()
}

// ParseTime reads a sheet timestamp. Unparseable values yield the zero time.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// FormatTime renders a timestamp for the sheet; zero renders empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

// FormatDate renders the calendar day only.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

func parseQuantity(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

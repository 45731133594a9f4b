// Package schema holds the versioned column layout of the deliveries sheet.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field names a Delivery attribute stored in a column.
type Field string

// List of mapped fields
const (
	FieldRecordID         Field = "record_id"
	FieldOrderID          Field = "order_id"
	FieldCustomerEmail    Field = "customer_email"
	FieldDeliveryType     Field = "delivery_type"
	FieldQuantity         Field = "quantity"
	FieldSerialNumber     Field = "serial_number"
	FieldStatus           Field = "status"
	FieldProblem          Field = "problem"
	FieldUpdatedAt        Field = "updated_at"
	FieldCreatedAt        Field = "created_at"
	FieldDeliveryPersonID Field = "delivery_person_id"
	FieldAddress          Field = "address"
	FieldPhone            Field = "phone"
	FieldSchedule         Field = "schedule"
	FieldBusinessName     Field = "business_name"
	FieldComment          Field = "comment"
	// FieldReserved is a placeholder column nobody reads and create writes empty.
	FieldReserved Field = "reserved"
)

// FormatDate writes only the YYYY-MM-DD part of a timestamp.
const FormatDate = "date"

var knownFields = map[Field]bool{
	FieldRecordID: true, FieldOrderID: true, FieldCustomerEmail: true, FieldDeliveryType: true,
	FieldQuantity: true, FieldSerialNumber: true, FieldStatus: true, FieldProblem: true,
	FieldUpdatedAt: true, FieldCreatedAt: true, FieldDeliveryPersonID: true, FieldAddress: true,
	FieldPhone: true, FieldSchedule: true, FieldBusinessName: true, FieldComment: true,
	FieldReserved: true,
}

// requiredFields must each own exactly one primary column: the repository writes them.
var requiredFields = [...]Field{
	FieldRecordID, FieldOrderID, FieldStatus, FieldProblem, FieldUpdatedAt, FieldCreatedAt, FieldComment,
}

//go:embed default.yaml
var defaultYAML []byte

// Column maps one sheet column to a field.
type Column struct {
	Field  Field  `yaml:"field"`
	Offset int    `yaml:"offset"`
	Header string `yaml:"header,omitempty"`
	// Mirror columns are copies written on create and never read back.
	Mirror bool   `yaml:"mirror,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Schema is the full column table.
type Schema struct {
	Version      int      `yaml:"version"`
	Sheet        string   `yaml:"sheet"`
	HeaderRow    int      `yaml:"header_row"`
	FirstDataRow int      `yaml:"first_data_row"`
	Columns      []Column `yaml:"columns"`

	primary map[Field]int
	width   int
}

// Default returns the embedded layout. It panics if the embedded file is broken.
func Default() *Schema {
	s, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded default: %v", err))
	}
	return s
}

// Load reads a layout from path, or returns Default when path is empty.
func Load(path string) (*Schema, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML layout.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schema yaml: %w", err)
	}
	if s.HeaderRow == 0 {
		s.HeaderRow = 1
	}
	if s.FirstDataRow == 0 {
		s.FirstDataRow = s.HeaderRow + 1
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal renders the layout back to YAML.
func (s *Schema) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Schema) compile() error {
	if s.Version < 1 {
		return fmt.Errorf("schema: version must be >= 1, got %d", s.Version)
	}
	if strings.TrimSpace(s.Sheet) == "" {
		return fmt.Errorf("schema: sheet name is required")
	}
	if s.HeaderRow < 1 || s.FirstDataRow <= s.HeaderRow {
		return fmt.Errorf("schema: first_data_row (%d) must come after header_row (%d)", s.FirstDataRow, s.HeaderRow)
	}

	seenOffsets := make(map[int]Field, len(s.Columns))
	primary := make(map[Field]int)
	width := 0
	for _, c := range s.Columns {
		if !knownFields[c.Field] {
			return fmt.Errorf("schema: unknown field %q at offset %d", c.Field, c.Offset)
		}
		if c.Offset < 0 {
			return fmt.Errorf("schema: negative offset %d for %q", c.Offset, c.Field)
		}
		if prev, ok := seenOffsets[c.Offset]; ok {
			return fmt.Errorf("schema: offset %d used by both %q and %q", c.Offset, prev, c.Field)
		}
		seenOffsets[c.Offset] = c.Field
		if c.Format != "" && c.Format != FormatDate {
			return fmt.Errorf("schema: unknown format %q for %q", c.Format, c.Field)
		}
		if c.Offset+1 > width {
			width = c.Offset + 1
		}
		if c.Field == FieldReserved {
			if c.Mirror {
				return fmt.Errorf("schema: reserved column %d cannot be a mirror", c.Offset)
			}
			continue
		}
		if c.Mirror {
			continue
		}
		if prev, ok := primary[c.Field]; ok {
			return fmt.Errorf("schema: field %q mapped twice (offsets %d and %d)", c.Field, prev, c.Offset)
		}
		primary[c.Field] = c.Offset
	}

	for _, f := range requiredFields {
		if _, ok := primary[f]; !ok {
			return fmt.Errorf("schema: required field %q has no column", f)
		}
	}
	for _, c := range s.Columns {
		if c.Mirror {
			if _, ok := primary[c.Field]; !ok {
				return fmt.Errorf("schema: mirror column %d copies unmapped field %q", c.Offset, c.Field)
			}
		}
	}

	s.primary = primary
	s.width = width
	return nil
}

// Width is the number of cells in a full row.
func (s *Schema) Width() int { return s.width }

// Offset returns the primary column of f.
func (s *Schema) Offset(f Field) (int, bool) {
	off, ok := s.primary[f]
	return off, ok
}

// MustOffset is Offset for fields the schema guarantees (the required set).
func (s *Schema) MustOffset(f Field) int {
	off, ok := s.primary[f]
	if !ok {
		panic(fmt.Sprintf("schema: field %q not mapped", f))
	}
	return off
}

// RowNumber converts a zero-based data index into a 1-based sheet row.
func (s *Schema) RowNumber(index int) int {
	return s.FirstDataRow + index
}

// CheckHeader compares the sheet's header row with the declared headers.
// Columns without a declared header are not checked.
func (s *Schema) CheckHeader(header []string) error {
	var mismatches []string
	for _, c := range s.Columns {
		if c.Header == "" {
			continue
		}
		got := ""
		if c.Offset < len(header) {
			got = header[c.Offset]
		}
		if !strings.EqualFold(strings.TrimSpace(got), c.Header) {
			mismatches = append(mismatches, fmt.Sprintf("col %d (%s): want %q, got %q", c.Offset, c.Field, c.Header, got))
		}
	}
	if len(mismatches) > 0 {
		return &HeaderMismatchError{Version: s.Version, Mismatches: mismatches}
	}
	return nil
}

// HeaderMismatchError lists every column whose header differs from the layout.
type HeaderMismatchError struct {
	Version    int
	Mismatches []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("sheet header does not match schema v%d: %s", e.Version, strings.Join(e.Mismatches, "; "))
}

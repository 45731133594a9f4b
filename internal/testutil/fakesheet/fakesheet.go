// Package fakesheet is an in-memory stand-in for the spreadsheet values API.
package fakesheet

import (
	"context"
	"sync"

	"delivery-tracker/internal/gateway/sheets"
	"delivery-tracker/internal/schema"
)

// Sheet stores one tab as a grid. Row 1 of the sheet is grid[0].
type Sheet struct {
	mu   sync.Mutex
	grid [][]string

	reads  int
	writes int

	// Err, when set, fails every call.
	Err error
}

// New creates a sheet whose first row is header.
func New(header []string, rows ...[]string) *Sheet {
	s := &Sheet{}
	s.grid = append(s.grid, append([]string(nil), header...))
	for _, r := range rows {
		s.grid = append(s.grid, append([]string(nil), r...))
	}
	return s
}

// Header builds the header row a sheet laid out as s would carry.
func Header(s *schema.Schema) []string {
	h := make([]string, s.Width())
	for _, c := range s.Columns {
		h[c.Offset] = c.Header
	}
	return h
}

// Get returns the range like the real API: trailing blanks trimmed from each row
// and from the block.
func (s *Sheet) Get(_ context.Context, rng sheets.Range) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.Err != nil {
		return nil, s.Err
	}
	last := len(s.grid)
	if rng.ToRow != 0 && rng.ToRow < last {
		last = rng.ToRow
	}
	var out [][]string
	for r := rng.FromRow; r <= last; r++ {
		src := s.grid[r-1]
		var cells []string
		for c := rng.FromCol; c <= rng.ToCol && c < len(src); c++ {
			cells = append(cells, src[c])
		}
		out = append(out, trimRight(cells))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// BatchUpdate writes every block.
func (s *Sheet) BatchUpdate(_ context.Context, updates []sheets.CellUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.writes++
	for _, u := range updates {
		for i, vals := range u.Values {
			for j, v := range vals {
				s.set(u.Range.FromRow+i, u.Range.FromCol+j, v)
			}
		}
	}
	return nil
}

// Append adds rows after the last non-empty row.
func (s *Sheet) Append(_ context.Context, rng sheets.Range, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.writes++
	next := len(s.grid) + 1
	for next > 1 && len(trimRight(s.grid[next-2])) == 0 {
		next--
	}
	for i, r := range rows {
		for j, v := range r {
			s.set(next+i, rng.FromCol+j, v)
		}
	}
	return nil
}

// Row returns a copy of sheet row n (1-based).
func (s *Sheet) Row(n int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 || n > len(s.grid) {
		return nil
	}
	return append([]string(nil), s.grid[n-1]...)
}

// Writes reports how many write calls succeeded.
func (s *Sheet) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Reads reports how many Get calls were made.
func (s *Sheet) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *Sheet) set(row, col int, v string) {
	for len(s.grid) < row {
		s.grid = append(s.grid, nil)
	}
	r := s.grid[row-1]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = v
	s.grid[row-1] = r
}

func trimRight(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}

var _ sheets.Values = (*Sheet)(nil)

// Package sheets talks to the Google Sheets values API.
package sheets

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"delivery-tracker/internal/apperr"
)

// Scopes requested by the service credentials.
var Scopes = []string{
	sheetsapi.SpreadsheetsScope,
	"https://www.googleapis.com/auth/drive",
}

const (
	valueInputRaw  = "RAW"
	insertDataRows = "INSERT_ROWS"
)

// Config stores Sheets client settings.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string // empty uses Application Default Credentials
}

// Gateway is a values API client. The underlying service handle is built on first use.
type Gateway struct {
	cfg        Config
	newService func(context.Context, ...option.ClientOption) (*sheetsapi.Service, error)

	once    sync.Once
	svc     *sheetsapi.Service
	initErr error
}

// NewGateway creates a Sheets-backed gateway. No network call happens here.
func NewGateway(cfg Config) *Gateway {
	return &Gateway{cfg: cfg, newService: sheetsapi.NewService}
}

func (g *Gateway) service() (*sheetsapi.Service, error) {
	g.once.Do(func() {
		opts := []option.ClientOption{option.WithScopes(Scopes...)}
		if g.cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(g.cfg.CredentialsFile))
		}
		// the handle outlives any single request, so it must not inherit a request context
		g.svc, g.initErr = g.newService(context.Background(), opts...)
	})
	if g.initErr != nil {
		return nil, fmt.Errorf("sheets gateway: init client: %w: %w", apperr.ErrUnavailable, g.initErr)
	}
	return g.svc, nil
}

// Get reads a range as strings. Trailing empty cells are omitted by the API.
func (g *Gateway) Get(ctx context.Context, rng Range) ([][]string, error) {
	svc, err := g.service()
	if err != nil {
		return nil, err
	}
	resp, err := svc.Spreadsheets.Values.Get(g.cfg.SpreadsheetID, rng.A1()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets gateway: get %s: %w: %w", rng, apperr.ErrUnavailable, err)
	}
	return toStrings(resp.Values), nil
}

// BatchUpdate writes every block in a single request.
func (g *Gateway) BatchUpdate(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	svc, err := g.service()
	if err != nil {
		return err
	}
	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{Range: u.Range.A1(), Values: toInterfaces(u.Values)})
	}
	req := &sheetsapi.BatchUpdateValuesRequest{ValueInputOption: valueInputRaw, Data: data}
	if _, err := svc.Spreadsheets.Values.BatchUpdate(g.cfg.SpreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets gateway: batch update (%d ranges): %w: %w", len(updates), apperr.ErrUnavailable, err)
	}
	return nil
}

// Append adds rows after the last non-empty row of the table found at rng.
func (g *Gateway) Append(ctx context.Context, rng Range, rows [][]string) error {
	svc, err := g.service()
	if err != nil {
		return err
	}
	vr := &sheetsapi.ValueRange{Values: toInterfaces(rows)}
	_, err = svc.Spreadsheets.Values.Append(g.cfg.SpreadsheetID, rng.A1(), vr).
		ValueInputOption(valueInputRaw).
		InsertDataOption(insertDataRows).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets gateway: append %s: %w: %w", rng, apperr.ErrUnavailable, err)
	}
	return nil
}

func toStrings(values [][]interface{}) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, v := range row {
			switch s := v.(type) {
			case string:
				cells[i] = s
			case nil:
			default:
				cells[i] = fmt.Sprint(s)
			}
		}
		out = append(out, cells)
	}
	return out
}

func toInterfaces(rows [][]string) [][]interface{} {
	out := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = v
		}
		out = append(out, cells)
	}
	return out
}

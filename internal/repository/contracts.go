package repository

import (
	"context"

	"delivery-tracker/internal/gateway/sheets"
)

type valuesGateway interface {
	Get(ctx context.Context, rng sheets.Range) ([][]string, error)
	BatchUpdate(ctx context.Context, updates []sheets.CellUpdate) error
	Append(ctx context.Context, rng sheets.Range, rows [][]string) error
}

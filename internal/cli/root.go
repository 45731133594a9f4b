// Package cli implements sheetctl, an operator tool for the delivery spreadsheet.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"delivery-tracker/internal/clock"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/gateway/sheets"
	"delivery-tracker/internal/logx"
	"delivery-tracker/internal/repository"
	"delivery-tracker/internal/schema"
	"delivery-tracker/internal/service/delivery"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Backend is what the commands run against.
type Backend struct {
	Schema  *schema.Schema
	Repo    *repository.DeliveryRepo
	Service *delivery.Service
}

// Deps are the command tree's outside world.
type Deps struct {
	Out   io.Writer
	Clock clock.Clock
	// Load returns the base config before flag overrides.
	Load func() (*config.Config, error)
	// Open connects to the spreadsheet described by cfg.
	Open func(cfg *config.Config, s *schema.Schema) (*Backend, error)
}

// DefaultDeps talks to the real spreadsheet using the environment config.
func DefaultDeps() Deps {
	return Deps{
		Out:   os.Stdout,
		Clock: clock.Real{},
		Load:  config.FromEnv,
		Open:  OpenSheets,
	}
}

// OpenSheets builds a Backend over the Sheets API. Diagnostics go to stderr.
func OpenSheets(cfg *config.Config, s *schema.Schema) (*Backend, error) {
	logger := logx.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	gw := sheets.NewGateway(sheets.Config{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		CredentialsFile: cfg.Sheets.CredentialsFile,
	})
	return NewBackend(gw, s, clock.Real{}, cfg.OperationTimeout, logger), nil
}

// NewBackend wires the repository and service over any values client.
func NewBackend(v sheets.Values, s *schema.Schema, c clock.Clock, timeout time.Duration, logger logx.Logger) *Backend {
	repo := repository.NewDeliveryRepo(v, s, c)
	return &Backend{
		Schema:  s,
		Repo:    repo,
		Service: delivery.NewDeliveryService(repo, c, timeout, logger),
	}
}

type rootOptions struct {
	deps          Deps
	spreadsheetID string
	credentials   string
	schemaFile    string
	output        string

	cfg     *config.Config
	layout  *schema.Schema
	backend *Backend
}

// NewRootCommand builds the sheetctl command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	o := &rootOptions{deps: deps}

	root := &cobra.Command{
		Use:           "sheetctl",
		Short:         "Inspect the delivery spreadsheet",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.configure(cmd)
		},
	}
	root.SetOut(deps.Out)

	pf := root.PersistentFlags()
	pf.StringVar(&o.spreadsheetID, "spreadsheet-id", "", "spreadsheet holding deliveries (overrides SHEETS_SPREADSHEET_ID)")
	pf.StringVar(&o.credentials, "credentials", "", "service account JSON file (overrides SHEETS_CREDENTIALS_FILE)")
	pf.StringVar(&o.schemaFile, "schema", "", "column layout YAML file (overrides SHEETS_SCHEMA_FILE)")
	pf.StringVarP(&o.output, "output", "o", FormatTable, "output format: table or json")

	root.AddCommand(
		newSchemaCommand(o),
		newPendingCommand(o),
		newHistoryCommand(o),
		newFindCommand(o),
		newPriorityCommand(o),
	)
	return root
}

func (o *rootOptions) configure(cmd *cobra.Command) error {
	switch o.output {
	case FormatTable, FormatJSON:
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}

	cfg, err := o.deps.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("spreadsheet-id") {
		cfg.Sheets.SpreadsheetID = o.spreadsheetID
	}
	if flags.Changed("credentials") {
		cfg.Sheets.CredentialsFile = o.credentials
	}
	if flags.Changed("schema") {
		cfg.Sheets.SchemaFile = o.schemaFile
	}

	layout, err := schema.Load(cfg.Sheets.SchemaFile)
	if err != nil {
		return err
	}
	o.cfg, o.layout = cfg, layout
	return nil
}

// open connects lazily so offline commands never need credentials.
func (o *rootOptions) open() (*Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}
	if strings.TrimSpace(o.cfg.Sheets.SpreadsheetID) == "" {
		return nil, fmt.Errorf("spreadsheet id is required: set SHEETS_SPREADSHEET_ID or --spreadsheet-id")
	}
	b, err := o.deps.Open(o.cfg, o.layout)
	if err != nil {
		return nil, err
	}
	o.backend = b
	return b, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

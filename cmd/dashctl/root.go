package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/infrastructure/backend"
	"github.com/erp/dashboard/internal/infrastructure/config"
	"github.com/erp/dashboard/internal/infrastructure/logger"
	"github.com/erp/dashboard/internal/interfaces/http/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "1.0.0"

const (
	outputTable = "table"
	outputJSON  = "json"
)

// cli holds the flags shared by every command and the clients built from them
type cli struct {
	identity   string
	backendURL string
	output     string
	timeout    time.Duration
	verbose    bool

	cfg       *config.Config
	log       *zap.Logger
	client    *backend.Client
	formatter *view.Formatter
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "dashctl",
		Short: "Inspect the dashboard's backend data from the command line",
		Long: `dashctl reads the same backend the ERP dashboard serves, through the
same services, so ledgers and thresholds show the statuses the dashboard
would show.

Configuration is read like the server's: DASH_* environment variables,
a .env file and config.toml.`,
		Version:      version,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.identity, "identity", "", "Account email whose data to read")
	pf.StringVar(&c.backendURL, "backend-url", "", "Backend API base URL (default from configuration)")
	pf.StringVarP(&c.output, "output", "o", outputTable, "Output format: table or json")
	pf.DurationVar(&c.timeout, "timeout", 0, "Per-request backend timeout (default from configuration)")
	pf.BoolVar(&c.verbose, "verbose", false, "Log backend calls to stderr")

	root.AddCommand(newLedgerCmd(c), newThresholdsCmd(c), newSessionCmd(c))
	return root
}

// connect loads configuration and builds the backend client
func (c *cli) connect() error {
	if c.client != nil {
		return nil
	}
	if c.output != outputTable && c.output != outputJSON {
		return fmt.Errorf("unknown output format %q (want table or json)", c.output)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.backendURL != "" {
		cfg.Backend.BaseURL = c.backendURL
	}
	if c.timeout > 0 {
		cfg.Backend.Timeout = c.timeout
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		MePath:  cfg.Backend.MePath,
	}, backend.WithLogger(log))
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.log = log
	c.client = client
	c.formatter = view.NewFormatter(cfg.Dashboard.CurrencySymbol, cfg.Dashboard.Language)
	return nil
}

// requireIdentity validates --identity
func (c *cli) requireIdentity() (string, error) {
	if c.identity == "" {
		return "", fmt.Errorf("--identity is required")
	}
	id, err := identity.Parse(c.identity)
	if err != nil {
		return "", err
	}
	return id.Email, nil
}

func (c *cli) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// ABOUTME: Root command for the storefront CLI
// ABOUTME: Handles global flags and configuration; no subcommand starts the TUI

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/storefront-cli/internal/client"
	"github.com/markalston/storefront-cli/internal/config"
	"github.com/markalston/storefront-cli/internal/logger"
	"github.com/markalston/storefront-cli/internal/session"
	"github.com/markalston/storefront-cli/internal/tui"
)

var (
	apiURL     string
	jsonOutput bool
	configDir  string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Terminal client for the storefront",
	Long: `storefront is a terminal client for a multi-role e-commerce backend.

Run it without a subcommand for the interactive interface. Customers browse,
fill a cart and wishlist, and place orders; sellers manage their catalog;
administrators manage users, products, orders, and categories. The
subcommands cover the same backend for scripting.

Environment Variables:
  STOREFRONT_API_URL     Backend API URL (default: ` + config.DefaultAPIURL + `)
  STOREFRONT_CONFIG_DIR  Where the session and log file live
  LOG_LEVEL, LOG_FORMAT  Log file verbosity (debug|info|warn|error) and format (text|json)`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(false)
		if err != nil {
			return err
		}
		defer d.Close()
		return tui.Run(d.api, d.store, d.logger)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides STOREFRONT_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory for the session and log file (overrides STOREFRONT_CONFIG_DIR)")
}

// loadConfig reads the environment, then applies flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// deps is what every command works against
type deps struct {
	api    *client.Client
	store  *session.Store
	logger *slog.Logger
	closer io.Closer
}

// Close flushes the log file
func (d *deps) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// openDeps wires config, logging, the API client, and the session store.
// The TUI restores the session itself so it can show the loading state.
func openDeps(restore bool) (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, closer, err := logger.Open(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	api := client.NewWithOptions(cfg.APIURL, client.OptionsFromConfig(*cfg, log))
	store := session.New(api, session.NewFileStore(cfg.ConfigDir), log)
	api.BindSession(store)

	if restore {
		if err := store.Restore(); err != nil {
			log.Warn("starting without a saved session", "error", err)
		}
	}
	return &deps{api: api, store: store, logger: log, closer: closer}, nil
}

// execute runs fn against a restored session with a Ctrl-C aware context
// and exits with its code
func execute(fn func(ctx context.Context, d *deps) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := openDeps(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUnavailable)
	}
	code := fn(ctx, d)
	d.Close()
	if code != exitOK {
		cancel()
		os.Exit(code)
	}
}

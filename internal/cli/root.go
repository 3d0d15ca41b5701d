package cli

import (
	"encoding/json"
	"fmt"

	"alpacatrade/config"
	"alpacatrade/logger"
	"alpacatrade/pkg/alpaca"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	configDir string

	log    *zap.Logger
	client *alpaca.Client
}

// NewRootCommand wires the alpaca command tree. Configuration, secrets and
// the logger are resolved once before any subcommand runs.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:               "alpaca",
		Short:             "Query the Alpaca trading and market data REST API",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configDir, "config", "", "directory holding config.yaml and .env")

	root.AddCommand(
		a.accountCmd(),
		a.assetCmd(),
		a.assetsCmd(),
		a.barsCmd(),
		a.calendarCmd(),
		a.clockCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}

	if err := config.ResolveSecrets(cmd.Context(), cfg); err != nil {
		return err
	}

	// logs go to stderr so stdout stays parseable JSON
	log, err := logger.NewWithConsole(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.log = log

	a.client = alpaca.NewClient(cfg.Alpaca, alpaca.WithLogger(log))
	log.Debug("client ready",
		zap.String("endpoint", a.client.Endpoint()),
		zap.String("data_endpoint", a.client.DataEndpoint()),
	)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

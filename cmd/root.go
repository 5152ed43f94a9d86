// File: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pagelens/pagelens/internal/config"
	"github.com/pagelens/pagelens/internal/observability"
)

var (
	cfgFile   string
	appConfig *config.Config
)

// rootCmd is the base command; subcommands carry the actual work.
var rootCmd = &cobra.Command{
	Use:     "pagelens",
	Short:   "pagelens turns web pages into typed, executable action spaces.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			observability.InitializeLogger(config.NewDefault().Logger)
			return fmt.Errorf("loading configuration: %w", err)
		}
		appConfig = cfg
		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("starting pagelens", zap.String("version", Version))
		return nil
	},
}

// Execute runs the CLI under the given context, which carries the signal
// handling installed in main.
func Execute(ctx context.Context) {
	defer observability.Sync()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default searches ./pagelens.yaml and ~/.pagelens/)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

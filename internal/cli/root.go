// Package cli implements the lake-almanac command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/chrissnell/lakealmanac/internal/app"
	"github.com/chrissnell/lakealmanac/internal/log"
	"github.com/chrissnell/lakealmanac/pkg/config"
	"github.com/spf13/cobra"
)

// cfg holds the validated configuration once the root pre-run has loaded it.
var cfg *config.ConfigData

var (
	cfgFile string
	debug   bool
)

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "lake-almanac",
	Short: "Build and serve an almanac of lake temperature records.",
	Long: `lake-almanac fetches daily lake sensor readings and folds them into an almanac
of hottest and coldest days, nights and daytimes, moving averages and first
freezes, per year and per astronomical season.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		log.Sync()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to the YAML configuration (default ./lake-almanac.yaml when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "turn on debugging output")
}

// setup loads configuration and initializes logging. Commands annotated
// with skipConfig run without either.
func setup(cmd *cobra.Command) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	provider := config.NewYAMLProvider(cfgFile)
	defer provider.Close()

	loaded, err := provider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error reading configuration: %w", err)
	}
	cfg = loaded

	if err := log.InitWithFile(debug, log.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		return err
	}
	if used := provider.ConfigFileUsed(); used != "" {
		log.Debugf("loaded configuration from %s", used)
	}
	return nil
}

const skipConfig = "skip-config"

// openApp wires the application from cfg
func openApp(ctx context.Context) (*app.App, error) {
	return app.Open(ctx, cfg, log.GetSugaredLogger())
}

// Execute runs the command tree
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

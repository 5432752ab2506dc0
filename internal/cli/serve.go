package cli

import (
	"github.com/chrissnell/lakealmanac/internal/app"
	"github.com/spf13/cobra"
)

// serveCmd runs the REST API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the almanac over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, app.RunOptions{Serve: true})
	},
}

var scheduleServe bool

// scheduleCmd runs the daily job in the foreground.
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Process yesterday every day at schedule.at",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, app.RunOptions{Schedule: true, Serve: scheduleServe})
	},
}

func run(cmd *cobra.Command, opts app.RunOptions) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(cmd.Context(), opts)
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleServe, "serve", false, "also serve the REST API")
}

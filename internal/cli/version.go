package cli

import (
	"runtime"

	"github.com/chrissnell/lakealmanac/internal/constants"
	"github.com/spf13/cobra"
)

// versionCmd shows the version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number of lake-almanac",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfig: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("lake-almanac %s\n", constants.BuildInfo())
		cmd.Printf("  Runtime: %s\n", runtime.Version())
	},
}

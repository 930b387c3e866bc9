package cli

import (
	"github.com/spf13/cobra"

	"github.com/nmkale/subtide/internal/logging"
	"github.com/nmkale/subtide/internal/options"
)

var (
	verbose bool
	logger  *logging.Logger
	opts    *options.Store
)

var rootCmd = &cobra.Command{
	Use:   "subtide",
	Short: "Audio-based subtitle timing editor",
	Long: `Subtide is a terminal tool for timing subtitle lines against an
audio waveform.

Open a subtitle file next to its audio, drag line boundaries on the
waveform with snapping to keyframes and neighbouring lines, and write the
retimed file back out.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)
		opts = options.NewStore()
		if path := options.DefaultPath(); path != "" {
			if err := opts.Load(path); err != nil {
				logger.Warnw("Failed to load options", "path", path, "error", err)
			}
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

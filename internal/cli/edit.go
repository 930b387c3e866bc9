package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmkale/subtide/internal/logging"
	"github.com/nmkale/subtide/internal/media"
	"github.com/nmkale/subtide/internal/subtitle"
	"github.com/nmkale/subtide/internal/timing"
	"github.com/nmkale/subtide/internal/tui"
)

var (
	editAudioPath     string
	editKeyframesPath string
)

var editCmd = &cobra.Command{
	Use:   "edit <subtitles>",
	Short: "Open the interactive timing view",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().
		StringVarP(&editAudioPath, "audio", "a", "", "Audio or video file to time against")
	editCmd.Flags().
		StringVarP(&editKeyframesPath, "keyframes", "k", "", "Keyframes file (one millisecond time per line)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	subsPath := args[0]

	doc, err := subtitle.Open(subsPath)
	if err != nil {
		return fmt.Errorf("failed to open subtitles: %w", err)
	}

	var provider media.Provider
	if editAudioPath != "" {
		logger.Infow("Opening audio", "path", editAudioPath)
		pcm, err := media.OpenPCM(editAudioPath)
		if err != nil {
			return fmt.Errorf("failed to open audio: %w", err)
		}
		provider = pcm
	} else {
		// no audio: time against a silent track covering the last line
		durationMS := 60000
		for _, line := range doc.Events {
			if line.End > durationMS {
				durationMS = line.End
			}
		}
		provider = media.SilentProvider(48000, durationMS+10000)
	}

	var keyframes []int
	if editKeyframesPath != "" {
		keyframes, err = timing.LoadKeyframes(editKeyframesPath)
		if err != nil {
			return err
		}
		logger.Infow("Loaded keyframes", "count", len(keyframes))
	}

	// the TUI owns the terminal, so divert logging to a file
	tuiLogger, err := logging.NewFileLogger("subtide.log", verbose)
	if err != nil {
		tuiLogger = logging.NewNopLogger()
	}

	model := tui.NewModel(subsPath, doc, provider, keyframes, opts, tuiLogger)
	return tui.Run(model)
}

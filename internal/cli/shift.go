package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmkale/subtide/internal/subtitle"
)

var (
	shiftBy     int
	shiftOutput string
)

var shiftCmd = &cobra.Command{
	Use:   "shift <subtitles>",
	Short: "Shift every line's times by a millisecond delta",
	Args:  cobra.ExactArgs(1),
	RunE:  runShift,
}

func init() {
	shiftCmd.Flags().
		IntVarP(&shiftBy, "by", "b", 0, "Shift in milliseconds (may be negative)")
	shiftCmd.Flags().
		StringVarP(&shiftOutput, "output", "o", "", "Output file path (default: overwrite input)")
	rootCmd.AddCommand(shiftCmd)
}

func runShift(cmd *cobra.Command, args []string) error {
	subsPath := args[0]

	doc, err := subtitle.Open(subsPath)
	if err != nil {
		return fmt.Errorf("failed to open subtitles: %w", err)
	}

	logger.Infow("Shifting subtitle times",
		"path", subsPath,
		"lines", len(doc.Events),
		"by_ms", shiftBy,
	)

	for _, line := range doc.Events {
		line.Start = max(line.Start+shiftBy, 0)
		line.End = max(line.End+shiftBy, 0)
	}
	doc.Commit("shift times", subtitle.CommitDialogueTime, subtitle.NoCommitID, nil)

	out := shiftOutput
	if out == "" {
		out = subsPath
	}
	if err := doc.Write(out); err != nil {
		return fmt.Errorf("failed to write subtitles: %w", err)
	}

	logger.Infow("Wrote shifted file", "path", out)
	return nil
}

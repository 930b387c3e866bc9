package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nmkale/subtide/internal/media"
	"github.com/nmkale/subtide/internal/subtitle"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Report timing-relevant facts about a subtitle or media file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	if doc, err := subtitle.Open(path); err == nil {
		first, last := 0, 0
		if len(doc.Events) > 0 {
			first = doc.Events[0].Start
			last = doc.Events[len(doc.Events)-1].End
		}
		fmt.Printf("format:  %s\n", doc.Format())
		fmt.Printf("lines:   %d\n", len(doc.Events))
		fmt.Printf("first:   %s\n", subtitle.FormatTime(first))
		fmt.Printf("last:    %s\n", subtitle.FormatTime(last))
		return nil
	}

	probe, err := media.Probe(path)
	if err != nil {
		return fmt.Errorf("not a subtitle or media file: %w", err)
	}
	fmt.Printf("duration:    %s\n", subtitle.FormatTime(probe.DurationMS))
	fmt.Printf("sample rate: %d Hz\n", probe.SampleRate)
	fmt.Printf("samples:     %d\n", int64(probe.SampleRate)*int64(probe.DurationMS)/1000)
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gembakit/photopair/internal/photo"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dir>",
	Short: "Analyze photos with AI and cache the results",
	Long: `Analyze every photo in a directory: work classification, blackboard
transcription, ground condition, viewpoint and background landmarks.
Results are cached, so re-running is cheap and the other commands can
reuse them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addRunFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	photos, _, err := a.analyzeDir(ctx, cmd, args[0])
	if err != nil {
		return err
	}
	if mustGetBool(cmd, "dry-run") {
		return nil
	}

	fmt.Printf("\nAnalyzed %d photos:\n", len(photos))
	for _, p := range photos {
		if p.Status != photo.StatusDone {
			fmt.Printf("  %s: failed\n", p.Name)
			continue
		}
		station := p.Analysis.Station
		if station == "" {
			station = "-"
		}
		fmt.Printf("  %s: %s / %s  station=%s  ground=%s  landmarks=%d\n",
			p.Name, p.Analysis.WorkType, p.Analysis.Variety, station,
			p.Analysis.Ground, len(p.Analysis.Landmarks))
	}
	return nil
}

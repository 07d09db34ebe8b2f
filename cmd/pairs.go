package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gembakit/photopair/internal/pipeline"
	"github.com/gembakit/photopair/internal/scene"
)

var pairsCmd = &cobra.Command{
	Use:   "pairs <dir>",
	Short: "Select before/after pairs per scene",
	Long: `Cluster the photos into scenes and emit the strict pair sequence:
each scene contributes its date-earliest and date-latest photo, pairs
are ordered by completion date, and everything else is reported as
omitted. 2*pairs + omitted always equals the photo count.`,
	Args: cobra.ExactArgs(1),
	RunE: runPairs,
}

func init() {
	rootCmd.AddCommand(pairsCmd)
	addRunFlags(pairsCmd)
}

func runPairs(cmd *cobra.Command, args []string) error {
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

	clustering := pipeline.AssignScenes(photos)
	fmt.Printf("\nScenes: %d  Orphans: %d\n", len(clustering.Clusters), len(clustering.Orphans))

	for _, group := range clustering.Clusters {
		pair, omitted := scene.SelectPair(group)
		if omitted != nil {
			fmt.Printf("  %s: no pair (%s)\n", group.Key, omitted.Reason)
			continue
		}
		fmt.Printf("  %s: %s -> %s  score=%.2f", group.Key, pair.Before.Name, pair.After.Name, pair.Score)
		if pair.Fallback {
			fmt.Printf("  [fallback: %s]", pair.Note)
		}
		fmt.Println()
		for _, landmark := range pair.Matched {
			fmt.Printf("      matched: %s\n", landmark)
		}
	}

	result := scene.SortStrictPairs(photos)
	fmt.Printf("\nPair sequence (%d pairs, %d omitted of %d photos):\n",
		result.PairCount, result.OmittedCount, len(photos))
	for i := 0; i < len(result.Ordered); i += 2 {
		fmt.Printf("  %s -> %s\n", result.Ordered[i].Name, result.Ordered[i+1].Name)
	}
	return nil
}

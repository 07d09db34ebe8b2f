package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gembakit/photopair/internal/pipeline"
	"github.com/gembakit/photopair/internal/scene"
)

var sortCmd = &cobra.Command{
	Use:   "sort <dir>",
	Short: "Order all photos along the construction timeline",
	Long: `Produce the loose display ordering: photos group by scene or station,
run before -> status -> after within a group, and nothing is dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSort,
}

func init() {
	rootCmd.AddCommand(sortCmd)
	addRunFlags(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
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

	pipeline.AssignScenes(photos)
	result := scene.SortLoose(photos)

	fmt.Printf("\nOrdered %d photos (%d groups, %d orphans):\n",
		len(result.Ordered), result.GroupCount, result.OrphanCount)
	for i, p := range result.Ordered {
		label := "-"
		if p.Analysis != nil {
			if p.Analysis.SceneID != "" {
				label = fmt.Sprintf("%s/%s", p.Analysis.SceneID, p.Analysis.Phase)
			} else if p.Analysis.Station != "" {
				label = p.Analysis.Station
			}
		}
		fmt.Printf("  %3d. %s  %s  %s\n", i+1, p.CaptureTime().Format("2006-01-02"), p.Name, label)
	}
	return nil
}

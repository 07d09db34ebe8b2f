package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var consensusCmd = &cobra.Command{
	Use:   "consensus <dir>",
	Short: "Re-read ambiguous station labels by majority vote",
	Long: `Run the station disambiguation vote: photos whose remark is on the
configured allowlist are re-read in several rounds at increasing
sampling temperatures, and the majority answer wins. Useful when
blackboard station labels come back inconsistent between photos of the
same spot.`,
	Args: cobra.ExactArgs(1),
	RunE: runConsensus,
}

func init() {
	rootCmd.AddCommand(consensusCmd)
	addRunFlags(consensusCmd)
}

func runConsensus(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	photos, payloads, err := a.analyzeDir(ctx, cmd, args[0])
	if err != nil {
		return err
	}
	if mustGetBool(cmd, "dry-run") {
		return nil
	}

	tallies, err := a.runner.Consensus(ctx, photos, payloads)
	if err != nil {
		return err
	}
	if len(tallies) == 0 {
		fmt.Println("\nNo photos qualified for station disambiguation.")
		return nil
	}

	fmt.Printf("\nVoted on %d photos:\n", len(tallies))
	for _, p := range photos {
		tally, ok := tallies[p.Name]
		if !ok {
			continue
		}
		verdict := "majority"
		if tally.Unanimous {
			verdict = "unanimous"
		}
		if !tally.Changed {
			verdict = "no votes, kept prior"
		}
		fmt.Printf("  %s: %q (%s, %d votes)\n", p.Name, tally.Value, verdict, len(tally.Votes))
	}
	return nil
}

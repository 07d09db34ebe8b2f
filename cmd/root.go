package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gembakit/photopair/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "photopair",
	Short: "Pair and sequence construction-site photos with AI",
	Long: `Photopair analyzes construction-site progress photographs with a
vision-language model, clusters them into scenes by blackboard station
and background landmarks, and selects before/after pairs or orders the
whole collection along the construction timeline.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
	logging.Init()
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/gembakit/photopair/internal/ai"
	"github.com/gembakit/photopair/internal/config"
	"github.com/gembakit/photopair/internal/inference"
	"github.com/gembakit/photopair/internal/photo"
	"github.com/gembakit/photopair/internal/pipeline"
	"github.com/gembakit/photopair/internal/store"
	"github.com/gembakit/photopair/internal/vocab"
)

// app wires config, provider, cache and runner for one CLI invocation.
type app struct {
	cfg    *config.Config
	runner *pipeline.Runner
	cache  store.Cache
	bar    *progressbar.ProgressBar
}

// addRunFlags registers the flags shared by all analysis commands.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("dry-run", false, "List photos without calling the AI service")
	cmd.Flags().Int("limit", 0, "Limit number of photos to process (0 = no limit)")
	cmd.Flags().Int("batch-size", 0, "Photos per inference request (0 = configured default)")
	cmd.Flags().String("provider", "", "AI provider to use: gemini, openai (defaults to AI_PROVIDER)")
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg := config.Load()

	providerName := mustGetString(cmd, "provider")
	if providerName == "" {
		providerName = cfg.Provider
	}

	var apiKey string
	switch providerName {
	case "gemini":
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required")
		}
		apiKey = cfg.Gemini.APIKey
	case "openai":
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required")
		}
		apiKey = cfg.OpenAI.Token
	}

	provider, err := ai.NewProvider(ctx, providerName, apiKey)
	if err != nil {
		return nil, err
	}

	cache, err := store.OpenSQLite(cfg.CachePath)
	if err != nil {
		return nil, err
	}

	models := cfg.ModelsFor(providerName)
	orch := inference.New(provider.Generate, inference.Options{
		Primary:     models.Primary,
		Fallback:    models.Fallback,
		BaseDelay:   time.Duration(cfg.Models.Retry.BaseDelaySeconds) * time.Second,
		MaxAttempts: cfg.Models.Retry.MaxAttempts,
		Logger:      log.Logger,
	})

	batchSize := mustGetInt(cmd, "batch-size")
	if batchSize <= 0 {
		batchSize = cfg.Models.BatchSize
	}

	a := &app{cfg: cfg, cache: cache}
	a.runner = pipeline.NewRunner(cache, orch, provider, vocab.Load(), pipeline.Options{
		BatchSize: batchSize,
		Consensus: cfg.Models.Consensus,
		Progress: func(done, total int) {
			if a.bar != nil {
				_ = a.bar.Set(done)
			}
		},
		Logger: log.Logger,
	})
	return a, nil
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close cache")
	}
}

// analyzeDir ingests a directory and runs the analysis pipeline over it.
func (a *app) analyzeDir(ctx context.Context, cmd *cobra.Command, dir string) ([]*photo.Record, map[string][]byte, error) {
	limit := mustGetInt(cmd, "limit")
	photos, payloads, err := pipeline.IngestDir(dir, limit)
	if err != nil {
		return nil, nil, err
	}
	if len(photos) == 0 {
		return nil, nil, fmt.Errorf("no photos found in %s", dir)
	}

	if mustGetBool(cmd, "dry-run") {
		fmt.Printf("Found %d photos (dry run, nothing analyzed):\n", len(photos))
		for _, p := range photos {
			fmt.Printf("  %s (%d bytes, %s)\n", p.Name, p.Size, p.CaptureTime().Format("2006-01-02 15:04"))
		}
		return photos, payloads, nil
	}

	a.bar = progressbar.NewOptions(len(photos),
		progressbar.OptionSetDescription("Analyzing photos"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("photos"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	if err := a.runner.Analyze(ctx, photos, payloads); err != nil {
		return nil, nil, err
	}
	fmt.Println()

	errored := 0
	for _, p := range photos {
		if p.Status == photo.StatusError {
			errored++
		}
	}
	if errored > 0 {
		fmt.Printf("Warning: %d photos could not be analyzed\n", errored)
	}
	return photos, payloads, nil
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal...")
		cancel()
	}()

	return ctx, cancel
}

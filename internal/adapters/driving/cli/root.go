// Package cli provides the command-line interface (primary/driving adapter).
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/brightline-labs/campaigniq/internal/adapters/driven/config/file"
	openaiembed "github.com/brightline-labs/campaigniq/internal/adapters/driven/embedding/openai"
	openaillm "github.com/brightline-labs/campaigniq/internal/adapters/driven/llm/openai"
	"github.com/brightline-labs/campaigniq/internal/adapters/driven/source/filesystem"
	"github.com/brightline-labs/campaigniq/internal/adapters/driven/storage/sqlite"
	"github.com/brightline-labs/campaigniq/internal/chunker"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driven"
	"github.com/brightline-labs/campaigniq/internal/core/ports/driving"
	"github.com/brightline-labs/campaigniq/internal/core/services"
	"github.com/brightline-labs/campaigniq/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

// Services injected into commands. Wired by initServices, replaceable in
// tests.
var (
	processorService driving.CampaignProcessor
	insightService   driving.InsightEngine
	storeService     driven.AnalysisStore
	closers          []func() error
)

var rootCmd = &cobra.Command{
	Use:   "campaigniq",
	Short: "Creative campaign retrieval and scoring engine",
	Long: `campaigniq indexes creative campaign assets, derives creative features
and predicted business outcomes with deterministic heuristics, and answers
questions about past campaigns through retrieval-augmented generation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
}

// Execute runs the root command.
func Execute() {
	defer closeServices()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		closeServices()
		os.Exit(1)
	}
}

// initServices wires the full dependency graph from configuration. Commands
// that need services call it once; unit tests inject fakes instead.
func initServices() error {
	if processorService != nil && insightService != nil {
		return nil
	}

	cfg, err := configfile.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	closers = append(closers, store.Close)
	storeService = store

	embedder, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:            cfg.Embedding.APIKey,
		BaseURL:           cfg.Embedding.BaseURL,
		Model:             cfg.Embedding.Model,
		MaxInputChars:     cfg.Embedding.MaxInputChars,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
	})
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}
	closers = append(closers, embedder.Close)

	completer, err := openaillm.NewCompletionService(openaillm.Config{
		APIKey:          cfg.Completion.APIKey,
		BaseURL:         cfg.Completion.BaseURL,
		Model:           cfg.Completion.Model,
		MaxContextChars: cfg.Completion.MaxContextChars,
	})
	if err != nil {
		return fmt.Errorf("creating completion service: %w", err)
	}
	closers = append(closers, completer.Close)

	chunks, err := chunker.New(cfg.Chunking.Window, cfg.Chunking.Overlap)
	if err != nil {
		return fmt.Errorf("creating chunker: %w", err)
	}

	source := filesystem.New()
	closers = append(closers, source.Close)

	processor, err := services.NewProcessor(source, store, embedder, chunks, services.ProcessorConfig{
		Concurrency: cfg.Concurrency,
	})
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}
	processorService = processor

	insightService = services.NewInsights(store, embedder, completer, services.InsightConfig{
		UpstreamAttempts: 3,
		RetryBaseDelay:   500 * time.Millisecond,
	})

	return nil
}

func closeServices() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("Close failed: %v", err)
		}
	}
	closers = nil
}

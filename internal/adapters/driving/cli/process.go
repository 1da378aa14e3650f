package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/brightline-labs/campaigniq/internal/adapters/driven/source/filesystem"
	"github.com/brightline-labs/campaigniq/internal/core/domain"
	"github.com/brightline-labs/campaigniq/internal/logger"
)

var processWatch bool

// watchDebounce batches a burst of filesystem events into one reprocess.
const watchDebounce = 2 * time.Second

var processCmd = &cobra.Command{
	Use:   "process [directory]",
	Short: "Analyse and index a campaign directory",
	Long: `Walks a campaign directory, groups assets into campaigns, derives
creative features and predicted outcomes, chunks and embeds extracted text,
and persists everything for retrieval.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVarP(&processWatch, "watch", "w", false, "keep watching the directory and reprocess on changes")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	dir := args[0]

	if err := initServices(); err != nil {
		return err
	}
	if processorService == nil {
		return errors.New("processor service not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := processOnce(ctx, cmd, dir); err != nil {
		return err
	}

	if !processWatch {
		return nil
	}
	return watchAndReprocess(ctx, cmd, dir)
}

func processOnce(ctx context.Context, cmd *cobra.Command, dir string) error {
	summary, err := processorService.ProcessCampaignSource(ctx, dir)
	if err != nil {
		return err
	}

	cmd.Printf("Run %s: %s\n", summary.RunID, summary.State)
	cmd.Printf("  Campaigns: %d\n", summary.CampaignCount)
	cmd.Printf("  Documents: %d processed, %d failed\n", summary.ProcessedCount, summary.ErrorCount)
	cmd.Printf("  Duration:  %s\n", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	for _, docErr := range summary.Errors {
		cmd.Printf("  Failed: %s: %s\n", docErr.Path, docErr.Message)
	}
	if summary.State == domain.RunStatePartiallyFailed {
		cmd.Println("Some documents failed; rerun to retry them.")
	}
	return nil
}

// watchAndReprocess reprocesses the whole directory after changes settle.
// Reprocessing is idempotent, so full runs are simpler and no less correct
// than incremental updates.
func watchAndReprocess(ctx context.Context, cmd *cobra.Command, dir string) error {
	source := filesystem.New()
	defer source.Close()

	events, err := source.Watch(ctx, dir)
	if err != nil {
		return err
	}

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			logger.Debug("Change detected: %s", ev.Path)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			if err := processOnce(ctx, cmd, dir); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("Reprocess failed: %v", err)
			}
		}
	}
}

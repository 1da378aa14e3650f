package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

var (
	queryCampaign string
	queryClient   string
	queryLimit    int
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question about processed campaigns",
	Long: `Retrieves the most relevant chunks of indexed campaign material and
generates an answer grounded in them. Filters narrow retrieval to one
campaign or client.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryCampaign, "campaign", "", "restrict retrieval to one campaign")
	queryCmd.Flags().StringVar(&queryClient, "client", "", "restrict retrieval to one client")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum chunks to retrieve")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]

	if err := initServices(); err != nil {
		return err
	}
	if insightService == nil {
		return errors.New("insight service not configured")
	}

	filters := domain.InsightFilters{
		CampaignName: queryCampaign,
		ClientName:   queryClient,
	}

	result, err := insightService.QueryCampaignInsights(context.Background(), question, filters, queryLimit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, result)
	}
	return outputQueryText(cmd, result)
}

func outputQueryJSON(cmd *cobra.Command, result *domain.InsightResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, result *domain.InsightResult) error {
	cmd.Println(result.Answer)

	if len(result.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, src := range result.Sources {
			campaign := src.Document.CampaignName
			if src.Document.ClientName != "" {
				campaign = src.Document.ClientName + " / " + campaign
			}
			cmd.Printf("  [%d] %s (%s, %.2f)\n", i+1, src.Document.Filename, campaign, src.Similarity)
		}
	}
	return nil
}

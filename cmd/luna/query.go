package main

import (
	"context"
	"fmt"

	"github.com/lunahealth/luna/internal/app"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a natural language question",
	Long:  `Query the knowledge base using natural language. Builds the knowledge base first if needed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

var (
	queryTopK     int
	queryCategory string
)

func init() {
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 0, "Number of candidate chunks to retrieve")
	queryCmd.Flags().StringVar(&queryCategory, "category", "", "Restrict results to one category")
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	application, err := app.New(ctx, config, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	answer, err := application.KnowledgeService.Query(ctx, args[0], interfaces.RetrieveOptions{
		TopK:           queryTopK,
		CategoryFilter: queryCategory,
	})
	if err != nil {
		return err
	}

	if !answer.Success {
		fmt.Println(answer.Message)
		return nil
	}

	fmt.Printf("\n%s\n\n", answer.Context)
	fmt.Printf("Confidence: %.0f%%\n", answer.Confidence*100)
	if len(answer.Sources) > 0 {
		fmt.Println("Sources:")
		for _, source := range answer.Sources {
			fmt.Printf("  - %s (%s", source.Title, source.Category)
			if source.Page > 0 {
				fmt.Printf(", p. %d", source.Page)
			}
			fmt.Printf(") relevance %.2f\n", source.RelevanceScore)
		}
	}
	return nil
}

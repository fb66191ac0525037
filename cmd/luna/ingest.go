package main

import (
	"context"

	"github.com/lunahealth/luna/internal/app"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the knowledge base from the document corpus",
	Long: `Extracts, chunks and embeds every document in the corpus directory
and stores the result in the vector collection.`,
	RunE: runIngest,
}

var ingestForce bool

func init() {
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "Clear the collection and rebuild from scratch")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	application, err := app.New(ctx, config, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.KnowledgeService.Build(ctx, ingestForce); err != nil {
		return err
	}

	stats, _, err := application.KnowledgeService.Stats(ctx)
	if err != nil {
		return err
	}
	logger.Info().
		Int("chunks", stats.TotalChunks).
		Int("categories", len(stats.Categories)).
		Msg("Ingestion complete")
	return nil
}

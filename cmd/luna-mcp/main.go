package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lunahealth/luna/internal/app"
	"github.com/lunahealth/luna/internal/common"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	arbor_models "github.com/ternarybob/arbor/models"
)

func main() {
	configPath := os.Getenv("LUNA_CONFIG")
	if configPath == "" {
		configPath = "luna.toml"
	}

	var paths []string
	if _, err := os.Stat(configPath); err == nil {
		paths = []string{configPath}
	}

	config, err := common.LoadFromFiles(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Console only at warn level; stdio carries the MCP protocol
	logger := arbor.NewLogger().WithConsoleWriter(arbor_models.WriterConfiguration{
		Type:             arbor_models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString("warn")

	application, err := app.New(context.Background(), config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer application.Close()

	mcpServer := server.NewMCPServer(
		"luna",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	// Knowledge tools
	mcpServer.AddTool(createQueryKnowledgeTool(), handleQueryKnowledge(application.KnowledgeService, logger))
	mcpServer.AddTool(createKnowledgeStatsTool(), handleKnowledgeStats(application.KnowledgeService, logger))

	// Tracking tools
	mcpServer.AddTool(createLogSymptomTool(), handleLogSymptom(application.TrackingService, logger))
	mcpServer.AddTool(createGetSymptomSummaryTool(), handleGetSymptomSummary(application.TrackingService, logger))
	mcpServer.AddTool(createLogCycleTool(), handleLogCycle(application.TrackingService, logger))
	mcpServer.AddTool(createGetCycleSummaryTool(), handleGetCycleSummary(application.TrackingService, logger))

	// Blocks on stdio until the client disconnects
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server failed")
	}
}

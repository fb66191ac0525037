package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/lunahealth/luna/internal/services/knowledge"
	"github.com/lunahealth/luna/internal/services/tracking"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleQueryKnowledge implements the query_knowledge tool
func handleQueryKnowledge(knowledgeService *knowledge.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := request.RequireString("question")
		if err != nil || question == "" {
			return textResult("Error: question parameter is required"), nil
		}

		opts := interfaces.RetrieveOptions{
			TopK:           request.GetInt("top_k", 0),
			CategoryFilter: request.GetString("category", ""),
		}

		answer, err := knowledgeService.Query(ctx, question, opts)
		if err != nil {
			logger.Error().Err(err).Msg("Query failed")
			return textResult(fmt.Sprintf("Query error: %v", err)), nil
		}

		return textResult(formatAnswer(answer)), nil
	}
}

// handleKnowledgeStats implements the knowledge_stats tool
func handleKnowledgeStats(knowledgeService *knowledge.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, state, err := knowledgeService.Stats(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Stats failed")
			return textResult(fmt.Sprintf("Stats error: %v", err)), nil
		}

		return textResult(formatStats(stats, string(state))), nil
	}
}

// handleLogSymptom implements the log_symptom tool
func handleLogSymptom(trackingService *tracking.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symptomType, err := request.RequireString("symptom_type")
		if err != nil || symptomType == "" {
			return textResult("Error: symptom_type parameter is required"), nil
		}
		intensity, err := request.RequireInt("intensity")
		if err != nil {
			return textResult("Error: intensity parameter is required"), nil
		}

		entry := &models.SymptomEntry{
			SymptomType: symptomType,
			Intensity:   intensity,
			Notes:       request.GetString("notes", ""),
		}
		if raw := request.GetString("timestamp", ""); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return textResult(fmt.Sprintf("Error: invalid timestamp %q, expected RFC3339", raw)), nil
			}
			entry.Timestamp = ts
		}

		saved, err := trackingService.AddSymptom(entry)
		if err != nil {
			logger.Error().Err(err).Str("symptom_type", symptomType).Msg("Log symptom failed")
			return textResult(fmt.Sprintf("Log symptom error: %v", err)), nil
		}

		return textResult(formatSymptomEntry(saved)), nil
	}
}

// handleGetSymptomSummary implements the get_symptom_summary tool
func handleGetSymptomSummary(trackingService *tracking.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := request.GetInt("days", 30)

		summary, err := trackingService.SymptomSummary(days)
		if err != nil {
			logger.Error().Err(err).Msg("Symptom summary failed")
			return textResult(fmt.Sprintf("Summary error: %v", err)), nil
		}

		return textResult(formatSymptomSummary(summary)), nil
	}
}

// handleLogCycle implements the log_cycle tool
func handleLogCycle(trackingService *tracking.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawStart, err := request.RequireString("start_date")
		if err != nil || rawStart == "" {
			return textResult("Error: start_date parameter is required"), nil
		}
		startDate, err := time.Parse("2006-01-02", rawStart)
		if err != nil {
			return textResult(fmt.Sprintf("Error: invalid start_date %q, expected YYYY-MM-DD", rawStart)), nil
		}

		entry := &models.CycleEntry{
			StartDate:     startDate,
			FlowIntensity: request.GetString("flow_intensity", ""),
			Notes:         request.GetString("notes", ""),
		}
		if rawEnd := request.GetString("end_date", ""); rawEnd != "" {
			endDate, err := time.Parse("2006-01-02", rawEnd)
			if err != nil {
				return textResult(fmt.Sprintf("Error: invalid end_date %q, expected YYYY-MM-DD", rawEnd)), nil
			}
			entry.EndDate = &endDate
		}

		saved, err := trackingService.AddCycle(entry)
		if err != nil {
			logger.Error().Err(err).Msg("Log cycle failed")
			return textResult(fmt.Sprintf("Log cycle error: %v", err)), nil
		}

		return textResult(formatCycleEntry(saved)), nil
	}
}

// handleGetCycleSummary implements the get_cycle_summary tool
func handleGetCycleSummary(trackingService *tracking.Service, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		summary, err := trackingService.CycleSummary()
		if err != nil {
			logger.Error().Err(err).Msg("Cycle summary failed")
			return textResult(fmt.Sprintf("Summary error: %v", err)), nil
		}

		return textResult(formatCycleSummary(summary)), nil
	}
}

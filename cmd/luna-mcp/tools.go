package main

import (
	"strings"

	"github.com/lunahealth/luna/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// createQueryKnowledgeTool returns the query_knowledge tool definition
func createQueryKnowledgeTool() mcp.Tool {
	return mcp.NewTool("query_knowledge",
		mcp.WithDescription("Ask the health knowledge base a natural language question and get an evidence-backed answer with sources"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Natural language question about symptoms, cycles, nutrition or treatment"),
		),
		mcp.WithNumber("top_k",
			mcp.Description("Number of candidate chunks to retrieve (default: 10)"),
		),
		mcp.WithString("category",
			mcp.Description("Restrict retrieval to one document category, e.g. guidelines, nutrition"),
		),
	)
}

// createKnowledgeStatsTool returns the knowledge_stats tool definition
func createKnowledgeStatsTool() mcp.Tool {
	return mcp.NewTool("knowledge_stats",
		mcp.WithDescription("Report the knowledge base state and per-category chunk counts"),
	)
}

// createLogSymptomTool returns the log_symptom tool definition
func createLogSymptomTool() mcp.Tool {
	return mcp.NewTool("log_symptom",
		mcp.WithDescription("Record a symptom entry with an intensity rating"),
		mcp.WithString("symptom_type",
			mcp.Required(),
			mcp.Description("One of: "+strings.Join(models.SymptomTypes, ", ")),
		),
		mcp.WithNumber("intensity",
			mcp.Required(),
			mcp.Description("Severity from 1 (mild) to 10 (severe)"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes, up to 500 characters"),
		),
		mcp.WithString("timestamp",
			mcp.Description("When the symptom occurred, RFC3339 (default: now)"),
		),
	)
}

// createGetSymptomSummaryTool returns the get_symptom_summary tool definition
func createGetSymptomSummaryTool() mcp.Tool {
	return mcp.NewTool("get_symptom_summary",
		mcp.WithDescription("Summarize recorded symptoms over a recent window: counts, average intensity, most frequent type"),
		mcp.WithNumber("days",
			mcp.Description("Window size in days (default: 30)"),
		),
	)
}

// createLogCycleTool returns the log_cycle tool definition
func createLogCycleTool() mcp.Tool {
	return mcp.NewTool("log_cycle",
		mcp.WithDescription("Record the start of a menstrual cycle, optionally with an end date"),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Cycle start date, YYYY-MM-DD"),
		),
		mcp.WithString("end_date",
			mcp.Description("Cycle end date, YYYY-MM-DD (omit for an ongoing cycle)"),
		),
		mcp.WithString("flow_intensity",
			mcp.Description("One of: light, medium, heavy"),
		),
		mcp.WithString("notes",
			mcp.Description("Free-form notes, up to 500 characters"),
		),
	)
}

// createGetCycleSummaryTool returns the get_cycle_summary tool definition
func createGetCycleSummaryTool() mcp.Tool {
	return mcp.NewTool("get_cycle_summary",
		mcp.WithDescription("Summarize recorded cycles: average length, range and a regularity assessment"),
	)
}

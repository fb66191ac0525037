package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lunahealth/luna/internal/models"
)

// formatAnswer formats a knowledge base answer as markdown
func formatAnswer(answer *models.Answer) string {
	var sb strings.Builder

	if !answer.Success {
		sb.WriteString(fmt.Sprintf("## No answer for \"%s\"\n\n", answer.Query))
		sb.WriteString(answer.Message)
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("## Answer for \"%s\"\n\n", answer.Query))
	sb.WriteString(answer.Context)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("**Confidence:** %.0f%%\n", answer.Confidence*100))
	if answer.CategoryFilter != "" {
		sb.WriteString(fmt.Sprintf("**Category filter:** %s\n", answer.CategoryFilter))
	}

	if len(answer.Sources) > 0 {
		sb.WriteString("\n### Sources\n\n")
		for i, source := range answer.Sources {
			sb.WriteString(fmt.Sprintf("%d. **%s** (%s", i+1, source.Title, source.Category))
			if source.Page > 0 {
				sb.WriteString(fmt.Sprintf(", p. %d", source.Page))
			}
			sb.WriteString(fmt.Sprintf(") relevance %.2f\n", source.RelevanceScore))
		}
	}

	return sb.String()
}

// formatStats formats collection statistics as markdown
func formatStats(stats *models.CollectionStats, state string) string {
	var sb strings.Builder
	sb.WriteString("## Knowledge Base\n\n")
	sb.WriteString(fmt.Sprintf("**State:** %s\n", state))
	sb.WriteString(fmt.Sprintf("**Collection:** %s\n", stats.Collection))
	sb.WriteString(fmt.Sprintf("**Chunks:** %d\n", stats.TotalChunks))
	if stats.Dimension > 0 {
		sb.WriteString(fmt.Sprintf("**Dimension:** %d\n", stats.Dimension))
	}

	if len(stats.Categories) > 0 {
		categories := make([]string, 0, len(stats.Categories))
		for name := range stats.Categories {
			categories = append(categories, name)
		}
		sort.Strings(categories)

		sb.WriteString("\n### Categories\n\n")
		for _, name := range categories {
			cat := stats.Categories[name]
			sb.WriteString(fmt.Sprintf("- **%s**: %d chunks from %d sources\n", name, cat.Count, cat.Sources))
		}
	}

	return sb.String()
}

// formatSymptomEntry formats a saved symptom entry as markdown
func formatSymptomEntry(entry *models.SymptomEntry) string {
	var sb strings.Builder
	sb.WriteString("## Symptom recorded\n\n")
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", entry.ID))
	sb.WriteString(fmt.Sprintf("**Type:** %s\n", entry.SymptomType))
	sb.WriteString(fmt.Sprintf("**Intensity:** %d/10\n", entry.Intensity))
	sb.WriteString(fmt.Sprintf("**When:** %s\n", entry.Timestamp.Format(time.RFC3339)))
	if entry.Notes != "" {
		sb.WriteString(fmt.Sprintf("**Notes:** %s\n", entry.Notes))
	}
	return sb.String()
}

// formatSymptomSummary formats a symptom summary as markdown
func formatSymptomSummary(summary *models.SymptomSummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Symptoms, last %d days\n\n", summary.WindowDays))

	if summary.TotalEntries == 0 {
		sb.WriteString("No symptoms recorded in this window.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("**Entries:** %d\n", summary.TotalEntries))
	if summary.MostFrequent != "" {
		sb.WriteString(fmt.Sprintf("**Most frequent:** %s\n", summary.MostFrequent))
	}
	if summary.FirstRecorded != nil && summary.LastRecorded != nil {
		sb.WriteString(fmt.Sprintf("**Range:** %s to %s\n",
			summary.FirstRecorded.Format("2006-01-02"),
			summary.LastRecorded.Format("2006-01-02")))
	}

	types := make([]string, 0, len(summary.ByType))
	for name := range summary.ByType {
		types = append(types, name)
	}
	sort.Strings(types)

	sb.WriteString("\n### By type\n\n")
	for _, name := range types {
		sb.WriteString(fmt.Sprintf("- **%s**: %d entries, avg intensity %.1f\n",
			name, summary.ByType[name], summary.AvgIntensity[name]))
	}

	return sb.String()
}

// formatCycleEntry formats a saved cycle entry as markdown
func formatCycleEntry(entry *models.CycleEntry) string {
	var sb strings.Builder
	sb.WriteString("## Cycle recorded\n\n")
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", entry.ID))
	sb.WriteString(fmt.Sprintf("**Start:** %s\n", entry.StartDate.Format("2006-01-02")))
	if entry.EndDate != nil {
		sb.WriteString(fmt.Sprintf("**End:** %s\n", entry.EndDate.Format("2006-01-02")))
	} else {
		sb.WriteString("**End:** ongoing\n")
	}
	if entry.FlowIntensity != "" {
		sb.WriteString(fmt.Sprintf("**Flow:** %s\n", entry.FlowIntensity))
	}
	if entry.Notes != "" {
		sb.WriteString(fmt.Sprintf("**Notes:** %s\n", entry.Notes))
	}
	return sb.String()
}

// formatCycleSummary formats a cycle summary as markdown
func formatCycleSummary(summary *models.CycleSummary) string {
	var sb strings.Builder
	sb.WriteString("## Cycle summary\n\n")

	if summary.TotalCycles == 0 {
		sb.WriteString("No cycles recorded yet.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("**Cycles recorded:** %d (%d complete)\n", summary.TotalCycles, summary.CompleteCycles))
	if summary.CompleteCycles > 0 {
		sb.WriteString(fmt.Sprintf("**Average length:** %.1f days\n", summary.AvgLengthDays))
		sb.WriteString(fmt.Sprintf("**Range:** %d to %d days\n", summary.MinLengthDays, summary.MaxLengthDays))
	}
	sb.WriteString(fmt.Sprintf("**Regularity:** %s\n", summary.Regularity))

	return sb.String()
}

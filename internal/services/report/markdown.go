package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/lunahealth/luna/internal/models"
)

// AnswerMarkdown renders a knowledge answer as a markdown report
func AnswerMarkdown(answer *models.Answer) string {
	var b strings.Builder
	b.WriteString("# Knowledge Report\n\n")
	fmt.Fprintf(&b, "**Question:** %s\n\n", answer.Query)

	if !answer.Success {
		fmt.Fprintf(&b, "%s\n", answer.Message)
		return b.String()
	}

	fmt.Fprintf(&b, "**Confidence:** %.0f%%\n\n", answer.Confidence*100)
	b.WriteString("## Evidence\n\n")
	b.WriteString(answer.Context)
	b.WriteString("\n\n## Sources\n\n")
	for _, source := range answer.Sources {
		fmt.Fprintf(&b, "- %s (%s", source.Title, source.Category)
		if source.Page > 0 {
			fmt.Fprintf(&b, ", p. %d", source.Page)
		}
		fmt.Fprintf(&b, ") - relevance %.2f\n", source.RelevanceScore)
	}
	return b.String()
}

// TrackingMarkdown renders symptom and cycle summaries as a markdown report
func TrackingMarkdown(symptoms *models.SymptomSummary, cycles *models.CycleSummary) string {
	var b strings.Builder
	b.WriteString("# Health Tracking Report\n\n")
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().Format("2006-01-02"))

	if symptoms != nil {
		fmt.Fprintf(&b, "## Symptoms (last %d days)\n\n", symptoms.WindowDays)
		fmt.Fprintf(&b, "**Total entries:** %d\n\n", symptoms.TotalEntries)
		if symptoms.MostFrequent != "" {
			fmt.Fprintf(&b, "**Most frequent:** %s\n\n", symptoms.MostFrequent)
		}
		for symptomType, count := range symptoms.ByType {
			fmt.Fprintf(&b, "- %s: %d entries, average intensity %.1f\n",
				symptomType, count, symptoms.AvgIntensity[symptomType])
		}
		b.WriteString("\n")
	}

	if cycles != nil {
		b.WriteString("## Cycles\n\n")
		fmt.Fprintf(&b, "**Recorded:** %d (%d complete)\n\n", cycles.TotalCycles, cycles.CompleteCycles)
		if cycles.CompleteCycles > 0 {
			fmt.Fprintf(&b, "**Average length:** %.1f days (min %d, max %d)\n\n",
				cycles.AvgLengthDays, cycles.MinLengthDays, cycles.MaxLengthDays)
		}
		fmt.Fprintf(&b, "**Regularity:** %s\n", cycles.Regularity)
	}
	return b.String()
}

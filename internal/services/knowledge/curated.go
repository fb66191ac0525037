package knowledge

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
)

// curatedDoc is a hand-written knowledge entry served when the vector
// index is unavailable.
type curatedDoc struct {
	Title    string
	Category string
	Text     string
}

// curatedCorpus is the built-in legacy knowledge set. Small on purpose:
// it covers the questions users ask most when no corpus is ingested.
var curatedCorpus = []curatedDoc{
	{
		Title:    "Diagnosis basics",
		Category: "guidelines",
		Text: "Diagnosis of polycystic ovary syndrome generally requires two of three " +
			"findings: irregular or absent ovulation, clinical or biochemical signs of " +
			"elevated androgens, and polycystic ovarian morphology on ultrasound. Other " +
			"causes such as thyroid disease should be excluded first.",
	},
	{
		Title:    "Common symptoms",
		Category: "guidelines",
		Text: "Common symptoms include irregular cycles, acne, excess facial or body " +
			"hair, scalp hair thinning, weight gain and difficulty losing weight. " +
			"Symptom patterns vary widely between individuals and over time.",
	},
	{
		Title:    "Nutrition guidance",
		Category: "nutrition",
		Text: "Dietary patterns built on whole foods with a low glycemic load can " +
			"improve insulin sensitivity. Regular protein intake and limiting refined " +
			"sugars help stabilize energy and support weight management.",
	},
	{
		Title:    "Exercise guidance",
		Category: "lifestyle",
		Text: "Regular physical activity improves insulin resistance and mood. A mix " +
			"of moderate aerobic exercise and resistance training on most days of the " +
			"week is a reasonable target.",
	},
	{
		Title:    "Cycle tracking",
		Category: "lifestyle",
		Text: "Tracking cycle start dates, flow intensity and symptoms over several " +
			"months reveals personal patterns and gives clinicians objective history. " +
			"Cycle length variation above a week between cycles is worth discussing.",
	},
}

// CuratedRetriever answers from the built-in document set using keyword
// overlap scoring. No persistence and no external services.
type CuratedRetriever struct {
	docs   []curatedDoc
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Retriever = (*CuratedRetriever)(nil)

// NewCuratedRetriever creates the curated fallback retriever
func NewCuratedRetriever(logger arbor.ILogger) *CuratedRetriever {
	return &CuratedRetriever{docs: curatedCorpus, logger: logger}
}

// Name identifies the backend
func (r *CuratedRetriever) Name() string { return "curated" }

// Retrieve scores curated documents by query term overlap.
func (r *CuratedRetriever) Retrieve(ctx context.Context, query string, opts interfaces.RetrieveOptions) (*models.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	type scored struct {
		doc   curatedDoc
		score float64
	}

	terms := tokenize(query)
	var candidates []scored
	for _, doc := range r.docs {
		if opts.CategoryFilter != "" && doc.Category != opts.CategoryFilter {
			continue
		}
		if score := overlapScore(terms, tokenize(doc.Title+" "+doc.Text)); score > 0 {
			candidates = append(candidates, scored{doc: doc, score: score})
		}
	}

	if len(candidates) == 0 {
		return &models.Answer{
			Success:        false,
			Query:          query,
			Message:        "No curated guidance matches this question.",
			CategoryFilter: opts.CategoryFilter,
			System:         r.Name(),
		}, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].doc.Title < candidates[j].doc.Title
	})

	topK := opts.TopK
	if topK <= 0 {
		topK = 3
	}
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	var contextBuilder strings.Builder
	sources := make([]models.SourceRef, 0, len(candidates))
	for i, c := range candidates {
		if i > 0 {
			contextBuilder.WriteString("\n\n")
		}
		contextBuilder.WriteString(c.doc.Text)
		sources = append(sources, models.SourceRef{
			Title:          c.doc.Title,
			Category:       c.doc.Category,
			RelevanceScore: c.score,
			ChunkPreview:   preview(c.doc.Text, 150),
		})
	}

	return &models.Answer{
		Success:          true,
		Query:            query,
		Context:          contextBuilder.String(),
		Sources:          sources,
		NumSources:       len(sources),
		Confidence:       candidates[0].score,
		CategoryFilter:   opts.CategoryFilter,
		TotalChunksFound: len(candidates),
		System:           r.Name(),
	}, nil
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(field, ".,;:!?()\"'")
		if len(word) > 2 {
			tokens[word] = true
		}
	}
	return tokens
}

// overlapScore is the fraction of query terms present in the document,
// in [0,1].
func overlapScore(query, doc map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for term := range query {
		if doc[term] {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

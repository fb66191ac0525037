// -----------------------------------------------------------------------
// Chunking Service - Split extracted documents into retrieval-sized,
// semantically coherent chunks with sentence-level overlap
// -----------------------------------------------------------------------

package chunking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
)

// Chunker implements the Chunker interface. Sizes are approximate tokens,
// estimated at 4 characters per token.
type Chunker struct {
	chunkSize    int
	overlap      int
	minChunkSize int
	logger       arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Chunker = (*Chunker)(nil)

// NewChunker creates a chunker from configuration
func NewChunker(config *common.ChunkingConfig, logger arbor.ILogger) *Chunker {
	return &Chunker{
		chunkSize:    config.ChunkSize,
		overlap:      config.Overlap,
		minChunkSize: config.MinChunkSize,
		logger:       logger,
	}
}

// ChunkDocument splits one document into ordered chunks. Chunks below the
// minimum size are dropped after assembly; an empty result is valid.
func (c *Chunker) ChunkDocument(doc *models.SourceDocument) ([]models.TextChunk, error) {
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("document has no text")
	}
	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", c.chunkSize)
	}

	units := c.splitUnits(doc.Text)
	texts := c.assemble(units)

	// Post-hoc minimum size filter across the whole document
	surviving := texts[:0]
	for _, text := range texts {
		if estimateTokens(text) >= c.minChunkSize {
			surviving = append(surviving, text)
		}
	}

	total := len(surviving)
	chunks := make([]models.TextChunk, 0, total)
	for i, text := range surviving {
		chunks = append(chunks, models.TextChunk{
			Text:        text,
			ChunkID:     ChunkID(doc.Source, i, text),
			Source:      doc.Source,
			Category:    doc.Category,
			Page:        interpolatePage(i, total, doc.PageCount),
			ChunkIndex:  i,
			TotalChunks: total,
			FilePath:    doc.FilePath,
		})
	}
	return chunks, nil
}

// ChunkDocuments chunks a batch; a failing document is logged and skipped.
func (c *Chunker) ChunkDocuments(docs []*models.SourceDocument) []models.TextChunk {
	var all []models.TextChunk
	for _, doc := range docs {
		chunks, err := c.ChunkDocument(doc)
		if err != nil {
			c.logger.Warn().Err(err).Str("source", doc.Source).Msg("Skipping document in chunking")
			continue
		}
		c.logger.Debug().Str("source", doc.Source).Int("chunks", len(chunks)).Msg("Chunked document")
		all = append(all, chunks...)
	}
	return all
}

// ChunkID derives the deterministic chunk id: the first 12 hex characters
// of SHA-256 over source, index and a 100-char text prefix.
func ChunkID(source string, index int, text string) string {
	prefix := text
	if len(prefix) > 100 {
		prefix = prefix[:100]
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%d_%s", source, index, prefix)))
	return hex.EncodeToString(sum[:])[:12]
}

// estimateTokens approximates token count at 4 characters per token.
func estimateTokens(text string) int {
	return len(text) / 4
}

// splitUnits breaks text into accumulation units: whole paragraphs, or
// individual sentences for paragraphs larger than the chunk size.
func (c *Chunker) splitUnits(text string) []string {
	var units []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if estimateTokens(para) <= c.chunkSize {
			units = append(units, para)
			continue
		}
		units = append(units, splitSentences(para)...)
	}
	return units
}

// assemble greedily packs units into chunks up to the chunk size, seeding
// each new chunk with trailing units of the previous one up to the overlap
// budget. The unit cursor only moves forward, so assembly terminates for
// any overlap setting.
func (c *Chunker) assemble(units []string) []string {
	var chunks []string
	var current []string
	currentTokens := 0
	fresh := false

	flush := func() {
		chunks = append(chunks, strings.Join(current, " "))

		// Seed the next chunk with trailing units within the overlap budget
		var seed []string
		seedTokens := 0
		for i := len(current) - 1; i >= 0; i-- {
			t := estimateTokens(current[i])
			if seedTokens+t > c.overlap || seedTokens+t >= c.chunkSize {
				break
			}
			seed = append([]string{current[i]}, seed...)
			seedTokens += t
		}
		current = seed
		currentTokens = seedTokens
		fresh = false
	}

	for _, unit := range units {
		t := estimateTokens(unit)
		if currentTokens+t > c.chunkSize && len(current) > 0 {
			if fresh {
				flush()
			} else {
				// An overlap seed alone cannot host this unit; drop the
				// seed rather than emit a chunk of repeated text.
				current = nil
				currentTokens = 0
			}
		}
		current = append(current, unit)
		currentTokens += t
		fresh = true
	}
	// The tail always carries at least one unit appended after the last
	// flush, so it is never pure overlap.
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

// interpolatePage maps a chunk's position to an approximate page number,
// clamped to a minimum of 1.
func interpolatePage(index, total, pageCount int) int {
	if pageCount <= 0 || total <= 0 {
		return 1
	}
	page := index * pageCount / total
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

// splitSentences splits on sentence terminators followed by whitespace,
// keeping abbreviations like "B. Smith" and "e.g." intact.
func splitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		j := i
		for j+1 < len(runes) && isTerminator(runes[j+1]) {
			j++
		}
		if j+1 >= len(runes) {
			break
		}
		if !unicode.IsSpace(runes[j+1]) || isAbbreviation(runes, start, i) {
			i = j
			continue
		}
		if sent := strings.TrimSpace(string(runes[start : j+1])); sent != "" {
			sentences = append(sentences, sent)
		}
		start = j + 1
		i = j
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// isAbbreviation reports whether the terminator at dot ends an initial
// ("B.") or a dotted abbreviation ("e.g.", "i.e.").
func isAbbreviation(runes []rune, start, dot int) bool {
	w := dot - 1
	for w >= start && (unicode.IsLetter(runes[w]) || unicode.IsDigit(runes[w])) {
		w--
	}
	wordLen := dot - 1 - w
	if wordLen != 1 {
		return false
	}
	if unicode.IsUpper(runes[w+1]) {
		return true
	}
	return w >= start && runes[w] == '.'
}

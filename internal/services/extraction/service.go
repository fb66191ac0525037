// -----------------------------------------------------------------------
// Extraction Service - Extract text content from corpus documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package extraction

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/ternarybob/arbor"
)

// minExtractedChars is the usability threshold: extractions shorter than
// this are treated as failures.
const minExtractedChars = 100

var categoryPrefix = regexp.MustCompile(`^\d+_`)

// Service implements the DocumentExtractor interface
type Service struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.DocumentExtractor = (*Service)(nil)

// NewService creates a new extraction service
func NewService(logger arbor.ILogger) *Service {
	tempDir := filepath.Join(os.TempDir(), "luna-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Service{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractFile processes a single corpus file. The category comes from the
// parent directory name with any ordinal prefix stripped.
func (s *Service) ExtractFile(ctx context.Context, path string) (*models.SourceDocument, error) {
	var (
		text      string
		pageCount int
		method    string
		err       error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, pageCount, method, err = s.extractPDF(ctx, path)
	case ".html", ".htm":
		text, err = s.extractHTML(path)
		method = "html"
	case ".txt", ".md":
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
		method = "plaintext"
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return nil, err
	}

	text = normalizeText(text)
	if len(text) < minExtractedChars {
		return nil, fmt.Errorf("%s yielded %d chars (%s): %w",
			filepath.Base(path), len(text), method, interfaces.ErrExtractionFailed)
	}

	return &models.SourceDocument{
		Text:             text,
		Source:           filepath.Base(path),
		Category:         CategoryFromDir(filepath.Base(filepath.Dir(path))),
		PageCount:        pageCount,
		FilePath:         path,
		ExtractionMethod: method,
	}, nil
}

// ExtractDir walks a category-organized directory tree and extracts every
// supported file. A failing document is logged and skipped; only an
// unreadable root fails the call.
func (s *Service) ExtractDir(ctx context.Context, root string) ([]*models.SourceDocument, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("corpus directory not readable: %w", err)
	}

	var docs []*models.SourceDocument
	skipped := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupported(path) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		doc, err := s.ExtractFile(ctx, path)
		if err != nil {
			skipped++
			s.logger.Warn().Err(err).Str("file", path).Msg("Skipping document")
			return nil
		}

		s.logger.Debug().
			Str("source", doc.Source).
			Str("category", doc.Category).
			Str("method", doc.ExtractionMethod).
			Int("chars", len(doc.Text)).
			Msg("Extracted document")
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("corpus walk failed: %w", err)
	}

	s.logger.Info().
		Str("root", root).
		Int("extracted", len(docs)).
		Int("skipped", skipped).
		Msg("Corpus extraction complete")

	return docs, nil
}

// CategoryFromDir strips the ordinal prefix from a corpus directory name
// ("1_guidelines" -> "guidelines").
func CategoryFromDir(dir string) string {
	return categoryPrefix.ReplaceAllString(dir, "")
}

func isSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".html", ".htm", ".txt", ".md":
		return true
	}
	return false
}

// normalizeText collapses runs of blank lines and trims trailing spaces so
// downstream paragraph splitting behaves consistently across formats.
func normalizeText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	out := strings.Join(lines, "\n")
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

package interfaces

import (
	"context"
	"errors"

	"github.com/lunahealth/luna/internal/models"
)

// ErrExtractionFailed is returned when every extraction method produced
// text below the usable threshold for a document.
var ErrExtractionFailed = errors.New("text extraction failed")

// DocumentExtractor reads raw corpus files and yields normalized documents.
type DocumentExtractor interface {
	// ExtractFile processes a single file. Category is derived from the
	// file's parent directory name.
	ExtractFile(ctx context.Context, path string) (*models.SourceDocument, error)

	// ExtractDir walks a category-organized directory tree and extracts
	// every supported file. A failing document is logged and skipped;
	// it never aborts the batch. Fails only when the root is unreadable.
	ExtractDir(ctx context.Context, root string) ([]*models.SourceDocument, error)
}

package interfaces

import "github.com/lunahealth/luna/internal/models"

// Chunker splits a document's text into retrieval-sized chunks.
type Chunker interface {
	// ChunkDocument turns one document into ordered chunks. An empty
	// result is valid (all candidate chunks below the minimum size).
	ChunkDocument(doc *models.SourceDocument) ([]models.TextChunk, error)

	// ChunkDocuments chunks a batch; a failing document is logged and
	// skipped without halting the rest.
	ChunkDocuments(docs []*models.SourceDocument) []models.TextChunk
}

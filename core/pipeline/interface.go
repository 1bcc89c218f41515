package pipeline

import (
	"context"

	"github.com/siherrmann/checkmate/model"
)

// ExtractFunc extracts the text and document metadata from a file on disk
type ExtractFunc func(ctx context.Context, path string) (*model.Extraction, error)

// ChunkFunc is a function that splits text into chunks
type ChunkFunc func(text string) ([]string, error)

// EmbedFunc is a function that generates embeddings for a batch of texts.
// The returned slice has one embedding per input text, in input order.
type EmbedFunc func(texts []string) ([][]float32, error)

// ChunkStore is the storage surface the pipeline writes to
type ChunkStore interface {
	UpsertDocument(collection model.CollectionType, filename string, chunks []string, embeddings [][]float32, extraction *model.Extraction) ([]*model.Chunk, error)
}
